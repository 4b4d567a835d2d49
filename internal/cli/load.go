package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/synastry/internal/loadtest"
)

func newLoadCommand(root *rootOptions) *cobra.Command {
	cfg := loadtest.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Submit synthetic pairs to a running server and verify the ranking",
		Example: `  synastry-cli load
  synastry-cli load --url http://localhost:8080 --pairs 5000 --workers 16`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := loadtest.Run(cmd.Context(), cfg)
			if stats != nil {
				if rerr := render(cmd.OutOrStdout(), root.format, stats); rerr != nil && err == nil {
					err = rerr
				}
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "Base URL of the service")
	f.IntVar(&cfg.NumPairs, "pairs", cfg.NumPairs, "Number of pairs to generate and submit")
	f.IntVar(&cfg.TopN, "top", cfg.TopN, "Number of matches to fetch and verify")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent HTTP workers")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-request timeout")
	f.DurationVar(&cfg.Wait, "wait", cfg.Wait, "Upper bound for jobs to finish")
	f.Uint64Var(&cfg.Seed, "seed", 0, "Generator seed (0 = random)")
	f.StringVarP(&cfg.OutputFile, "output", "o", "", "Write generated pairs to this JSON file")
	f.BoolVar(&cfg.SkipVerify, "skip-verify", false, "Do not verify the ranking")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log individual request failures")
	return cmd
}
