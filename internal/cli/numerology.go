package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/synastry/internal/domain/numerology"
)

func newNumerologyCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "numerology <dobA> <dobB>",
		Short:   "Compare soul and destiny numbers of two birth dates",
		Example: "  synastry-cli numerology 25.02.1992 19.01.1985",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, err := numerology.ComputePair(args[0], args[1])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), root.format, pair)
		},
	}
}
