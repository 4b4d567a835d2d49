package cli

import (
	"github.com/spf13/cobra"

	service "github.com/okian/synastry/internal/app"
)

func newStrengthCommand(root *rootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "strength --chart chart.json",
		Short: "Planet strengths, karakas and kuja-dosha of one chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := readPerson(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			svc := service.New(service.WithReportCacheSize(0))
			return render(cmd.OutOrStdout(), root.format, svc.Strengths(cmd.Context(), p.Chart))
		},
	}
	cmd.Flags().StringVar(&path, "chart", "-", "JSON chart or person file (- for stdin)")
	return cmd
}
