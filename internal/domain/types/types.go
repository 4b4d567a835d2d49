// Package types contains common types used across the application
package types

// MatchEntry is one row of the ranked matches listing.
type MatchEntry struct {
	Rank    int     `json:"rank"`
	JobID   string  `json:"job_id"`
	NameA   string  `json:"name_a,omitempty"`
	NameB   string  `json:"name_b,omitempty"`
	Percent float64 `json:"percent"`
	AtoB    int     `json:"a_to_b"`
	BtoA    int     `json:"b_to_a"`
}

// Less orders entries by percent descending, then job id ascending.
func (e MatchEntry) Less(o MatchEntry) bool {
	if e.Percent != o.Percent {
		return e.Percent > o.Percent
	}
	return e.JobID < o.JobID
}
