// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/synastry/internal/domain/chart"
)

// Job is a queued request to score one pair of people.
// Fields mirror the OpenAPI schema for /jobs.
type Job struct {
	ID          string       `json:"id"`
	A           chart.Person `json:"a"`
	B           chart.Person `json:"b"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

// JobStatus describes where a job is in its lifecycle.
type JobStatus string

const (
	JobQueued JobStatus = "queued"
	JobDone   JobStatus = "done"
	JobFailed JobStatus = "failed"
)
