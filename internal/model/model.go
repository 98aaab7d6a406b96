package model

import (
	"errors"
	"time"
)

type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobError   JobStatus = "error"
)

type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepRunning StepStatus = "running"
	StepDone    StepStatus = "done"
	StepError   StepStatus = "error"
)

var ErrNotFound = errors.New("not found")

// EstimateInput is the free-text item description a seller submits for a
// price suggestion. Description may be empty; the other fields are required.
type EstimateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Condition   string `json:"condition"`
}

// Step is one fixed stage of the pricing pipeline as exposed to pollers.
// The four steps (prepare, match, compute, finalize) are created with the
// job and only their status/message ever change.
type Step struct {
	ID      string     `json:"id"`
	Label   string     `json:"label"`
	Status  StepStatus `json:"status"`
	Message string     `json:"message,omitempty"`
}

// PricingJob is one tracked estimation request and its evolving state.
type PricingJob struct {
	ID        string         `json:"id"`
	Status    JobStatus      `json:"status"`
	Progress  int            `json:"progress"`
	Steps     []Step         `json:"steps"`
	Result    *PricingResult `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// PricingSource is one comparable listing backing the estimate.
type PricingSource struct {
	Platform string `json:"platform"`
	Price    int    `json:"price"`
	Title    string `json:"title,omitempty"`
	URL      string `json:"url"`
}

type PriceRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type PricingResult struct {
	Price       int             `json:"price"`
	Confidence  int             `json:"confidence"`
	Reason      string          `json:"reason"`
	MarketTrend string          `json:"marketTrend"`
	Sources     []PricingSource `json:"sources"`
	PriceRange  PriceRange      `json:"priceRange"`
}

// JobPatch is used for partial updates.
type JobPatch struct {
	Status   *JobStatus
	Progress *int
	Result   *PricingResult
	Error    *string
}
