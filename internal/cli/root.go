// Package cli implements the synastry command line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	service "github.com/okian/synastry/internal/app"
	"github.com/okian/synastry/internal/config"
	"github.com/okian/synastry/pkg/logger"
)

// rootOptions are shared by every subcommand.
type rootOptions struct {
	configPath string
	format     string
	logLevel   string
}

// NewRootCommand builds the command tree. Output goes to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "synastry-cli",
		Short: "Pairwise natal chart compatibility scoring",
		Long: `synastry-cli scores the compatibility of two natal charts in both
directions, compares birth-date numerology, evaluates planet strengths and
drives load against a running synastry server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			if err := logger.SetLevelString(opts.logLevel); err != nil {
				return err
			}
			switch opts.format {
			case formatConsole, formatJSON, formatYAML:
				return nil
			default:
				return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.format)
			}
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("SYNASTRY_CONFIG"), "YAML config file with scoring overrides")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", formatConsole, "Output format (console|json|yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	root.AddCommand(
		newScoreCommand(opts),
		newNumerologyCommand(opts),
		newStrengthCommand(opts),
		newLoadCommand(opts),
	)
	return root
}

// Execute runs the command tree against os.Args and returns an exit code.
// SIGINT and SIGTERM cancel the command context.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := NewRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// newService builds a scoring service from the configured file and env.
func (o *rootOptions) newService() (*service.Service, error) {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return nil, err
	}
	opts, err := service.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return service.New(opts...), nil
}
