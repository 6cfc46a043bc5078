package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "sceneforge/internal/adapters/http"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only scene JSON API",
	Long: `Serve scene trees, conflict reports and serialized documents over
HTTP. Nothing is written through the API.

Endpoints:
  GET  /api/scene?uri=<uri>
  GET  /api/scene/conflicts?uri=<uri>
  POST /api/scene/serialize   {"uri": "...", "target": "..."}

Example:
  sceneforge-cli serve --addr 127.0.0.1:8420`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := rt.Config.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           httpadapter.NewRouter(rt.Loader, rt.Log),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			rt.Log.WithField("addr", addr).Info("serving scene API")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
