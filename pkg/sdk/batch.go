package lexsearch

import (
	"context"
	"fmt"

	dombatch "github.com/kailas-cloud/lexsearch/internal/domain/batch"
)

// BatchService drives server-side batch classification jobs.
type BatchService struct {
	svc batchUseCase
	obs *observer
}

// Start submits docs for classification. Options are passed through to the
// backend and may be nil.
func (s *BatchService) Start(ctx context.Context, docs []Source, options map[string]any) (JobStarted, error) {
	return call(s.obs, "batch_start", func() (JobStarted, error) {
		req, err := dombatch.NewClassifyRequest(docs, options)
		if err != nil {
			return JobStarted{}, fmt.Errorf("%w: %w", ErrInvalidParams, err)
		}
		return s.svc.Start(ctx, req)
	})
}

// Status returns the job's current state.
func (s *BatchService) Status(ctx context.Context, jobID string) (Job, error) {
	return call(s.obs, "batch_status", func() (Job, error) {
		return s.svc.Status(ctx, jobID)
	})
}

// Results returns the outcome of a finished job.
func (s *BatchService) Results(ctx context.Context, jobID string) (JobResults, error) {
	return call(s.obs, "batch_results", func() (JobResults, error) {
		return s.svc.Results(ctx, jobID)
	})
}

// Cancel stops a queued or running job.
func (s *BatchService) Cancel(ctx context.Context, jobID string) (JobCancelled, error) {
	return call(s.obs, "batch_cancel", func() (JobCancelled, error) {
		return s.svc.Cancel(ctx, jobID)
	})
}

// Poll follows the job until it reaches a terminal state. See PollOptions.
func (s *BatchService) Poll(ctx context.Context, jobID string, opts PollOptions) (Job, error) {
	return call(s.obs, "batch_poll", func() (Job, error) {
		return s.svc.Poll(ctx, jobID, opts)
	})
}

// Run starts a job, polls it to completion and fetches its results.
// A job that ends failed or cancelled returns its last snapshot's error.
func (s *BatchService) Run(ctx context.Context, docs []Source, options map[string]any, opts PollOptions) (JobResults, error) {
	started, err := s.Start(ctx, docs, options)
	if err != nil {
		return JobResults{}, err
	}
	job, err := s.Poll(ctx, started.JobID, opts)
	if err != nil {
		return JobResults{}, err
	}
	if job.Status != JobCompleted {
		return JobResults{}, fmt.Errorf("batch job %s %s: %s", started.JobID, job.Status, job.Error)
	}
	return s.Results(ctx, started.JobID)
}
