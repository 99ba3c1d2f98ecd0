package server

import (
	"net/http"

	"github.com/Emes13/habittrax/internal/logger"
	"github.com/go-chi/chi/v5"
)

func (s *Server) generateAPIKey(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	key, err := generateKey()
	if err != nil {
		logger.Error("Failed to generate API key", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate api key")
		return
	}
	keyHash := hashAPIKey(key)
	if err := s.store.PutAPIKey(r.Context(), keyHash, userID); err != nil {
		writeStoreError(w, err, "Failed to store API key", "user_id", userID)
		return
	}

	logger.Info("Generated API key", "user_id", userID, "key_hash", truncateHash(keyHash))
	respond(w, http.StatusOK, APIKeyResponse{APIKey: key})
}

func (s *Server) listAPIKeys(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	hashes, err := s.store.ListAPIKeyHashes(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err, "Failed to list API keys", "user_id", userID)
		return
	}

	keys := make([]APIKeyInfo, 0, len(hashes))
	for _, h := range hashes {
		keys = append(keys, APIKeyInfo{Hash: h, Display: truncateHash(h)})
	}
	respond(w, http.StatusOK, APIKeyListResponse{Keys: keys})
}

// deleteAPIKey revokes one of the caller's keys. Keys owned by other users
// are reported as missing.
func (s *Server) deleteAPIKey(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	keyHash := chi.URLParam(r, "key_hash")

	owner, found, err := s.store.GetAPIKey(r.Context(), keyHash)
	if err != nil {
		writeStoreError(w, err, "Failed to look up API key", "user_id", userID)
		return
	}
	if !found || owner != userID {
		writeError(w, http.StatusNotFound, "api key not found")
		return
	}
	if err := s.store.DeleteAPIKey(r.Context(), keyHash); err != nil {
		writeStoreError(w, err, "Failed to delete API key", "user_id", userID)
		return
	}

	logger.Info("Revoked API key", "user_id", userID, "key_hash", truncateHash(keyHash))
	w.WriteHeader(http.StatusNoContent)
}
