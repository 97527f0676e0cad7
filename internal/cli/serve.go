package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/schemaconv/checker"
	"github.com/reoring/schemaconv/codelist"
	"github.com/reoring/schemaconv/filesystem"
	"github.com/reoring/schemaconv/server"
)

// NewServeCommand creates the serve command
func NewServeCommand(app *App) *cobra.Command {
	var (
		addr      string
		codelists string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the checker over HTTP",
		Long: `Serve the checker over HTTP.

  GET  /healthz
  POST /v1/check?name=release-schema.json   (body: the schema document)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := app.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			c, err := checker.New(cfg, app.Fs, logger)
			if err != nil {
				return err
			}
			var files []codelist.File
			if codelists != "" {
				w := &filesystem.Walker{Fs: app.Fs, Excluded: cfg.Exclude}
				if files, err = w.CSV(codelists); err != nil {
					return err
				}
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.New(c, files).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			logger.Info("listening", zap.String("addr", cfg.Server.Addr), zap.Int("codelists", len(files)))

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&codelists, "codelists", "", "directory of CSV codelists to check against")
	return cmd
}
