// Package cli implements the schemaconv command line.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/reoring/schemaconv/config"
	"github.com/reoring/schemaconv/i18n"
	"github.com/reoring/schemaconv/report"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ErrFailed is returned when a run finds errors. The message has already
// been printed, so callers only set the exit status.
var ErrFailed = errors.New("checks failed")

// App carries what commands share. Tests substitute the filesystem and the
// output streams.
type App struct {
	Fs  afero.Fs
	Out io.Writer
	Err io.Writer

	configPath string
	verbose    bool
	noColor    bool
}

// NewApp returns an App on the OS filesystem and standard streams.
func NewApp() *App {
	return &App{Fs: afero.NewOsFs(), Out: os.Stdout, Err: os.Stderr}
}

// NewRootCommand creates the root command
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "schemaconv",
		Short: "Check JSON Schema documents against authoring conventions",
		Long: `schemaconv checks a repository of JSON Schema documents and CSV codelists.

It enforces naming, metadata, nullability, codelist, array and reference
conventions, reports empty, misindented and invalid JSON files, and can apply
extension merge patches to the schema they extend.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(app.Out)
	rootCmd.SetErr(app.Err)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "config file (default .schemaconv.yaml in the working directory)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&app.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(NewCheckCommand(app))
	rootCmd.AddCommand(NewFilesCommand(app))
	rootCmd.AddCommand(NewServeCommand(app))
	rootCmd.AddCommand(NewVersionCommand(app))
	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			if app.noColor {
				titleColor.DisableColor()
			}
			out := cmd.OutOrStdout()
			for _, kv := range [][2]string{
				{"schemaconv version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", runtime.Version()},
			} {
				titleColor.Fprint(out, kv[0])
				io.WriteString(out, kv[1]+"\n")
			}
		},
	}
}

// setup loads the configuration and the logger for a command.
func (app *App) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(app.Fs, app.configPath)
	if err != nil {
		return nil, nil, err
	}
	i18n.SetLanguage(cfg.Lang)
	return cfg, report.NewLogger(app.verbose), nil
}

// Execute runs the root command with ctx and args.
func Execute(ctx context.Context, app *App, args ...string) error {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrFailed) {
			errorColor := color.New(color.FgRed, color.Bold)
			errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return err
	}
	return nil
}
