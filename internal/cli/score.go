package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/overlay"
	"github.com/okian/synastry/internal/domain/synastry"
)

// scoreResult is the rendered shape of the score command.
type scoreResult struct {
	synastry.PairReport `yaml:",inline"`
	Mean                float64  `json:"mean" yaml:"mean"`
	OverlayText         []string `json:"overlay_text,omitempty" yaml:"overlay_text,omitempty"`

	names [2]string
}

func newScoreCommand(root *rootOptions) *cobra.Command {
	var pathA, pathB string

	cmd := &cobra.Command{
		Use:   "score --a a.json --b b.json",
		Short: "Score the compatibility of two persons in both directions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := readPerson(cmd.InOrStdin(), pathA)
			if err != nil {
				return err
			}
			b, err := readPerson(cmd.InOrStdin(), pathB)
			if err != nil {
				return err
			}
			svc, err := root.newService()
			if err != nil {
				return err
			}
			report, err := svc.ScorePair(cmd.Context(), a, b)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), root.format, newScoreResult(report, a, b))
		},
	}
	cmd.Flags().StringVar(&pathA, "a", "", "JSON file of person A (- for stdin)")
	cmd.Flags().StringVar(&pathB, "b", "", "JSON file of person B")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

func newScoreResult(r synastry.PairReport, a, b chart.Person) scoreResult { //nolint:gocritic // hugeParam: built once
	list := append(append([]overlay.Overlay(nil), r.AtoB.Overlays...), r.BtoA.Overlays...)
	sideA, _ := synastry.AtoB.Sides()
	return scoreResult{
		PairReport:  r,
		Mean:        r.Mean(),
		OverlayText: overlay.FormatAll(list, sideA, a.NameForms(), b.NameForms()),
		names:       [2]string{displayName(a, "A"), displayName(b, "B")},
	}
}

func displayName(p chart.Person, fallback string) string { //nolint:gocritic // hugeParam: read-only
	if p.Profile.Name != "" {
		return p.Profile.Name
	}
	return fallback
}
