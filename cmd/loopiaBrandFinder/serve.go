package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/uberswe/LoopiaBrandFinder/internal/server"
)

var (
	serveAddr string
	serveDry  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API server",
	Long:  `Start an HTTP server with POST /v1/search, POST /v1/generate and GET /healthz.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default from config)")
	serveCmd.Flags().BoolVar(&serveDry, "dry", false, "Dry-run, every domain is reported free and no provider is called")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	engine, closeFn, err := newEngine(serveDry)
	if err != nil {
		return err
	}
	defer closeFn()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv := server.NewServer(addr, engine)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("API server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-cmd.Context().Done():
	}

	log.Info().Msg("Shutting down API server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
