package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Emes13/habittrax/internal/config"
	"github.com/Emes13/habittrax/internal/logger"
	"github.com/Emes13/habittrax/internal/server"
	"github.com/Emes13/habittrax/internal/storage"
	"github.com/Emes13/habittrax/internal/storage/bolt"
	"github.com/Emes13/habittrax/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return startServer(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func openStore(c config.Config) (storage.Store, error) {
	switch c.Storage.Driver {
	case "bolt", "":
		return bolt.Open(c.Storage.Path)
	case "sqlite":
		return sqlite.Open(c.Storage.Path)
	}
	return nil, fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
}

func startServer(ctx context.Context, c config.Config) error {
	st, err := openStore(c)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	}()

	srv, err := server.New(&c, st)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              c.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", c.ListenAddr, "storage", c.Storage.Driver, "path", c.Storage.Path)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
