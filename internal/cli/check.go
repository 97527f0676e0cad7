package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	schemaconv "github.com/reoring/schemaconv"
	"github.com/reoring/schemaconv/checker"
	"github.com/reoring/schemaconv/codelist"
	"github.com/reoring/schemaconv/report"
	"github.com/reoring/schemaconv/rules"
)

type outputFlags struct {
	format string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.format, "format", "text", "output format: text or json")
}

func (o *outputFlags) validate() error {
	if o.format != "text" && o.format != "json" {
		return fmt.Errorf("--format must be text or json, got: %s", o.format)
	}
	return nil
}

// NewCheckCommand creates the check command
func NewCheckCommand(app *App) *cobra.Command {
	var (
		out    outputFlags
		kind   string
		noNull bool
	)
	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Check every JSON Schema and codelist under a directory",
		Long: `Check every JSON Schema document under dir (default ".").

Each document is strictly parsed, validated against the configured metaschema,
checked by the rule suite and cross-referenced with the CSV codelists found in
the tree. Exits with status 1 when any error is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			cfg, logger, err := app.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if cmd.Flags().Changed("kind") {
				if _, err := codelist.ParseKind(kind); err != nil {
					return err
				}
				cfg.Kind = kind
			}
			if cmd.Flags().Changed("no-null") {
				cfg.NoNull = noNull
			}

			c, err := checker.New(cfg, app.Fs, logger)
			if err != nil {
				return err
			}
			dir := dirArg(args)
			return app.emit(cmd, out, dir, logger, func(rep schemaconv.Reporter) (rules.Result, error) {
				return c.Tree(cmd.Context(), dir, rep)
			})
		},
	}
	out.register(cmd)
	cmd.Flags().StringVar(&kind, "kind", "", "repository kind: standard, extension or profile")
	cmd.Flags().BoolVar(&noNull, "no-null", false, `forbid "null" in every type`)
	return cmd
}

// NewFilesCommand creates the files command
func NewFilesCommand(app *App) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "files [dir]",
		Short: "Report empty, misindented and invalid JSON files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			cfg, logger, err := app.setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			c, err := checker.New(cfg, app.Fs, logger)
			if err != nil {
				return err
			}
			dir := dirArg(args)
			return app.emit(cmd, out, dir, logger, func(rep schemaconv.Reporter) (rules.Result, error) {
				return c.Files(dir, rep)
			})
		},
	}
	out.register(cmd)
	return cmd
}

func dirArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return filepath.Clean(args[0])
}

// emit runs fn with a reporter for the chosen format and prints the outcome.
// With --verbose every diagnostic is also logged.
func (app *App) emit(cmd *cobra.Command, out outputFlags, dir string, logger *zap.Logger, fn func(schemaconv.Reporter) (rules.Result, error)) error {
	w := cmd.OutOrStdout()
	var logged schemaconv.Reporter
	if app.verbose {
		logged = report.Logger{L: logger}
	}
	var (
		res rules.Result
		err error
	)
	if out.format == "json" {
		col := &schemaconv.Collector{}
		if res, err = fn(schemaconv.Tee(col, logged)); err != nil {
			return err
		}
		if err := report.WriteJSON(w, report.NewDocument(col.Diagnostics())); err != nil {
			return err
		}
	} else {
		console := report.NewConsole(w, dir)
		console.NoColor = app.noColor
		if res, err = fn(schemaconv.Tee(console, logged)); err != nil {
			return err
		}
		console.Summary(res.Errors, res.Warnings)
	}
	if !res.OK() {
		return ErrFailed
	}
	return nil
}
