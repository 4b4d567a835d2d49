// Package loadtest drives a running synastry server with synthetic pairs
// and checks the ranked matches it builds from them.
package loadtest

import (
	"runtime"
	"time"

	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/model"
	"github.com/okian/synastry/internal/domain/synastry"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumPairs   int           // Number of pairs to generate and submit
	TopN       int           // Number of matches to fetch
	Workers    int           // Number of concurrent HTTP workers
	Timeout    time.Duration // Per-request timeout
	Wait       time.Duration // Upper bound for jobs to finish
	Seed       uint64        // Generator seed; zero picks a random one
	OutputFile string        // Optional JSON dump of the generated pairs
	SkipVerify bool          // Skip ranking checks, e.g. against a server with older jobs
	Verbose    bool          // Log per-request failures
}

// DefaultConfig returns the settings used by the CLI.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  "http://localhost:9080",
		NumPairs: 1_000,
		TopN:     20,
		Workers:  runtime.NumCPU() * 2,
		Timeout:  10 * time.Second,
		Wait:     time.Minute,
	}
}

// Pair is one submitted job body.
type Pair struct {
	ID string       `json:"id"`
	A  chart.Person `json:"a"`
	B  chart.Person `json:"b"`
}

// SubmitResponse is the body of POST /jobs.
type SubmitResponse struct {
	ID        string          `json:"id"`
	Status    model.JobStatus `json:"status"`
	Duplicate bool            `json:"duplicate"`
}

// JobRecord is the body of GET /jobs/{id}.
type JobRecord struct {
	Status model.JobStatus      `json:"status"`
	Report *synastry.PairReport `json:"report,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// Stats holds run statistics.
type Stats struct {
	PairsGenerated int
	Submitted      int
	Accepted       int
	Duplicate      int
	Rejected       int
	Failed         int
	Done           int
	JobsFailed     int
	Matches        int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}
