package loadtest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/okian/synastry/internal/domain/model"
	"github.com/okian/synastry/internal/domain/types"
)

// ErrVerification marks a ranking that disagrees with the job reports.
var ErrVerification = errors.New("verification failed")

// verifyMatches checks that matches are the best finished jobs, ordered by
// mean percent descending then job id, ranked 1..n, and that each entry
// agrees with its report.
func verifyMatches(records map[string]JobRecord, matches []types.MatchEntry, n int) error {
	expected := make([]types.MatchEntry, 0, len(records))
	for id, rec := range records {
		if rec.Status != model.JobDone || rec.Report == nil {
			continue
		}
		expected = append(expected, types.MatchEntry{
			JobID:   id,
			Percent: rec.Report.Mean(),
			AtoB:    rec.Report.AtoB.FinalPercent,
			BtoA:    rec.Report.BtoA.FinalPercent,
		})
	}
	sort.Slice(expected, func(i, j int) bool { return expected[i].Less(expected[j]) })
	if len(expected) > n {
		expected = expected[:n]
	}

	if len(matches) != len(expected) {
		return fmt.Errorf("%w: got %d matches, want %d", ErrVerification, len(matches), len(expected))
	}
	for i, m := range matches {
		want := expected[i]
		switch {
		case m.Rank != i+1:
			return fmt.Errorf("%w: entry %d has rank %d", ErrVerification, i, m.Rank)
		case m.JobID != want.JobID:
			return fmt.Errorf("%w: rank %d is %s, want %s", ErrVerification, m.Rank, m.JobID, want.JobID)
		case m.Percent != want.Percent || m.AtoB != want.AtoB || m.BtoA != want.BtoA:
			return fmt.Errorf("%w: rank %d scores %v/%d/%d, report says %v/%d/%d", ErrVerification,
				m.Rank, m.Percent, m.AtoB, m.BtoA, want.Percent, want.AtoB, want.BtoA)
		}
	}
	return nil
}
