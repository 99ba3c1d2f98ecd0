package server

import (
	"errors"
	"net/http"

	"github.com/Emes13/habittrax/internal/logger"
	"github.com/Emes13/habittrax/internal/storage"
	"github.com/Emes13/habittrax/pkg/habit"
)

func writeError(w http.ResponseWriter, code int, msg string) {
	if err := writeJSON(w, code, errorResponse{Error: msg}); err != nil {
		logger.Error("Failed to write error response", "error", err)
	}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var verr *habit.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrCategoryInUse), errors.Is(err, storage.ErrDuplicateName):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeStoreError responds with the status mapped from err. Internal errors
// are logged and replaced by a generic message.
func writeStoreError(w http.ResponseWriter, err error, msg string, args ...any) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.Error(msg, append(args, "error", err)...)
		writeError(w, code, "storage error")
		return
	}
	logger.Debug(msg, append(args, "error", err)...)
	writeError(w, code, err.Error())
}
