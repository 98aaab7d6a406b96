package jobs

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/weggo/api-go/internal/model"
)

var defaultSteps = []model.Step{
	{ID: "prepare", Label: "Preparing input", Status: model.StepPending},
	{ID: "match", Label: "Finding similar listings", Status: model.StepPending},
	{ID: "compute", Label: "Calculating market price", Status: model.StepPending},
	{ID: "finalize", Label: "Finalizing suggestion", Status: model.StepPending},
}

// Registry owns every pricing job record for the lifetime of the process.
// Jobs are never evicted; state is intentionally non-durable. All reads
// return snapshots, so callers can never mutate a stored record.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*model.PricingJob
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*model.PricingJob)}
}

// Create allocates a fresh queued job with all steps pending and returns
// its snapshot. It never blocks on any downstream work.
func (r *Registry) Create() model.PricingJob {
	job := &model.PricingJob{
		ID:        uuid.NewString(),
		Status:    model.JobQueued,
		Steps:     append([]model.Step(nil), defaultSteps...),
		CreatedAt: time.Now().UTC(),
	}
	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()
	return snapshot(job)
}

func (r *Registry) Get(id string) (model.PricingJob, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return model.PricingJob{}, false
	}
	return snapshot(job), true
}

// List returns up to limit jobs, newest first, optionally filtered by
// status.
func (r *Registry) List(status *model.JobStatus, limit int) []model.PricingJob {
	if limit <= 0 {
		limit = 25
	}
	r.mu.RLock()
	out := make([]model.PricingJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		if status != nil && job.Status != *status {
			continue
		}
		out = append(out, snapshot(job))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Update merges the patch into the stored record. Unknown ids and terminal
// jobs are no-ops: once a job reports done or error its record never
// changes again.
func (r *Registry) Update(id string, patch model.JobPatch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || terminal(job.Status) {
		return
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.Progress != nil {
		job.Progress = *patch.Progress
	}
	if patch.Result != nil {
		res := *patch.Result
		job.Result = &res
	}
	if patch.Error != nil {
		job.Error = *patch.Error
	}
}

// UpdateStep replaces the named step's status/message in place and sets the
// job's overall progress. Backward step transitions and updates against
// terminal jobs are ignored.
func (r *Registry) UpdateStep(id, stepID string, status model.StepStatus, progress int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || terminal(job.Status) {
		return
	}
	for i := range job.Steps {
		if job.Steps[i].ID != stepID {
			continue
		}
		if !stepAdvances(job.Steps[i].Status, status) {
			return
		}
		job.Steps[i].Status = status
		if message != "" {
			job.Steps[i].Message = message
		}
		job.Progress = progress
		return
	}
}

// MarkActiveStepError flags the step that was in flight when a job failed,
// so pollers see where the pipeline stopped. Called before the job itself
// goes terminal.
func (r *Registry) MarkActiveStepError(id, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || terminal(job.Status) {
		return
	}
	for i := len(job.Steps) - 1; i >= 0; i-- {
		if job.Steps[i].Status == model.StepRunning {
			job.Steps[i].Status = model.StepError
			if message != "" {
				job.Steps[i].Message = message
			}
			return
		}
	}
}

func terminal(s model.JobStatus) bool {
	return s == model.JobDone || s == model.JobError
}

func stepAdvances(from, to model.StepStatus) bool {
	if from == model.StepDone || from == model.StepError {
		return false
	}
	return stepRank(to) >= stepRank(from)
}

func stepRank(s model.StepStatus) int {
	switch s {
	case model.StepPending:
		return 0
	case model.StepRunning:
		return 1
	default:
		return 2
	}
}

func snapshot(job *model.PricingJob) model.PricingJob {
	out := *job
	out.Steps = append([]model.Step(nil), job.Steps...)
	if job.Result != nil {
		res := *job.Result
		res.Sources = append([]model.PricingSource(nil), job.Result.Sources...)
		out.Result = &res
	}
	return out
}
