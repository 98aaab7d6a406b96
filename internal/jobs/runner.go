package jobs

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/example/weggo/api-go/internal/model"
	"github.com/example/weggo/api-go/internal/pricing"
)

// Runner launches the pricing engine for newly created jobs and folds its
// progress events back into the registry. One detached goroutine per job;
// the submitting caller never waits on it.
type Runner struct {
	registry *Registry
	engine   *pricing.Engine
	log      *logrus.Logger
}

func NewRunner(registry *Registry, engine *pricing.Engine, log *logrus.Logger) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{registry: registry, engine: engine, log: log}
}

func (r *Runner) Registry() *Registry { return r.registry }

// Submit creates the job and returns its queued snapshot immediately. The
// analysis starts out-of-band; callers observe its progress by polling.
func (r *Runner) Submit(input model.EstimateInput) model.PricingJob {
	job := r.registry.Create()
	r.log.WithField("job_id", job.ID).Info("pricing job submitted")
	go r.run(job.ID, input)
	return job
}

func (r *Runner) run(id string, input model.EstimateInput) {
	defer func() {
		if rec := recover(); rec != nil {
			r.fail(id, fmt.Sprintf("pricing job panicked: %v", rec))
		}
	}()

	running := model.JobRunning
	r.registry.Update(id, model.JobPatch{Status: &running})

	result, err := r.engine.Analyze(context.Background(), input, func(u pricing.ProgressUpdate) {
		r.registry.UpdateStep(id, u.StepID, u.Status, u.Progress, u.Message)
	})
	if err != nil {
		r.log.WithError(err).WithField("job_id", id).Error("pricing job failed")
		r.fail(id, err.Error())
		return
	}

	done := model.JobDone
	progress := 100
	r.registry.Update(id, model.JobPatch{Status: &done, Progress: &progress, Result: &result})
	r.log.WithFields(logrus.Fields{"job_id": id, "price": result.Price}).Info("pricing job completed")
}

func (r *Runner) fail(id, message string) {
	// Close out the in-flight step first; terminal jobs reject all updates.
	r.registry.MarkActiveStepError(id, message)
	failed := model.JobError
	r.registry.Update(id, model.JobPatch{Status: &failed, Error: &message})
}
