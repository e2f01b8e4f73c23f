package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/lexsearch/internal/domain"
	dombatch "github.com/kailas-cloud/lexsearch/internal/domain/batch"
	"github.com/kailas-cloud/lexsearch/internal/metrics"
	"github.com/kailas-cloud/lexsearch/internal/transport/backend"
)

// DefaultPollInterval is the wait between status polls.
const DefaultPollInterval = 2 * time.Second

// ErrPollLimit is returned when a job is still running after MaxAttempts polls.
var ErrPollLimit = errors.New("batch job still running after max poll attempts")

const (
	opStart   = "start batch classification"
	opStatus  = "get batch job status"
	opResults = "get batch job results"
	opCancel  = "cancel batch job"
)

// PollUnbounded as PollOptions.MaxAttempts polls until a terminal state
// regardless of the service default.
const PollUnbounded = -1

// PollOptions controls Poll. Zero values select the service defaults.
type PollOptions struct {
	Interval time.Duration
	// MaxAttempts bounds the number of status calls. 0 uses the service
	// default and a negative value (PollUnbounded) removes the ceiling.
	MaxAttempts int
	// OnUpdate is called with every observed job snapshot.
	OnUpdate func(dombatch.Job)
}

// Service drives server-side batch classification jobs.
type Service struct {
	backend     Backend
	logger      *zap.Logger
	interval    time.Duration
	maxAttempts int
}

// New creates a batch service.
func New(b Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend:  b,
		logger:   logger.With(zap.String("component", "batch")),
		interval: DefaultPollInterval,
	}
}

// WithPollDefaults configures the interval and attempt ceiling used when
// PollOptions leaves them unset. A maxAttempts of 0 means no ceiling.
func (s *Service) WithPollDefaults(interval time.Duration, maxAttempts int) *Service {
	if interval > 0 {
		s.interval = interval
	}
	if maxAttempts >= 0 {
		s.maxAttempts = maxAttempts
	}
	return s
}

// Start submits a classification job.
func (s *Service) Start(ctx context.Context, req dombatch.ClassifyRequest) (dombatch.Started, error) {
	if len(req.Documents) == 0 {
		return dombatch.Started{}, fmt.Errorf("%w: at least one document is required", domain.ErrInvalidParams)
	}
	if req.Options == nil {
		req.Options = map[string]any{}
	}
	body, err := s.backend.Post(ctx, opStart, "/api/v1/batch/classify", req)
	if err != nil {
		return dombatch.Started{}, backend.ClassifyError(err, opStart)
	}
	out, err := backend.DecodeStrict[dombatch.Started](body, "Batch classification start")
	if err != nil {
		return dombatch.Started{}, backend.ClassifyError(err, opStart)
	}
	s.logger.Info("batch job started",
		zap.String("job_id", out.JobID),
		zap.Int("documents", out.TotalDocuments))
	return out, nil
}

// Status returns the current job snapshot.
func (s *Service) Status(ctx context.Context, jobID string) (dombatch.Job, error) {
	if err := domain.CheckPathID("job", jobID); err != nil {
		return dombatch.Job{}, err
	}
	body, err := s.backend.Get(ctx, opStatus, jobPath(jobID)+"/status", nil)
	if err != nil {
		return dombatch.Job{}, backend.ClassifyError(err, opStatus)
	}
	job, err := backend.DecodeStrict[dombatch.Job](body, "Batch job status")
	if err != nil {
		return dombatch.Job{}, backend.ClassifyError(err, opStatus)
	}
	return job, nil
}

// Results returns the outcome of a finished job.
func (s *Service) Results(ctx context.Context, jobID string) (dombatch.Results, error) {
	if err := domain.CheckPathID("job", jobID); err != nil {
		return dombatch.Results{}, err
	}
	body, err := s.backend.Get(ctx, opResults, jobPath(jobID)+"/results", nil)
	if err != nil {
		return dombatch.Results{}, backend.ClassifyError(err, opResults)
	}
	out, err := backend.DecodeStrict[dombatch.Results](body, "Batch job results")
	if err != nil {
		return dombatch.Results{}, backend.ClassifyError(err, opResults)
	}
	return out, nil
}

// Cancel asks the backend to stop a job.
func (s *Service) Cancel(ctx context.Context, jobID string) (dombatch.Cancelled, error) {
	if err := domain.CheckPathID("job", jobID); err != nil {
		return dombatch.Cancelled{}, err
	}
	body, err := s.backend.Delete(ctx, opCancel, jobPath(jobID))
	if err != nil {
		return dombatch.Cancelled{}, backend.ClassifyError(err, opCancel)
	}
	out, err := backend.DecodeStrict[dombatch.Cancelled](body, "Batch job cancel")
	if err != nil {
		return dombatch.Cancelled{}, backend.ClassifyError(err, opCancel)
	}
	s.logger.Info("batch job cancelled", zap.String("job_id", jobID))
	return out, nil
}

// Poll fetches the job status until it reaches a terminal state, the
// attempt ceiling is hit or ctx is done. The last observed snapshot is
// always returned. A status error ends polling.
func (s *Service) Poll(ctx context.Context, jobID string, opts PollOptions) (dombatch.Job, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = s.interval
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = s.maxAttempts
	}

	timer := time.NewTimer(interval)
	timer.Stop()
	defer timer.Stop()

	var (
		last dombatch.Job
		prev dombatch.Status
	)
	for attempt := 1; ; attempt++ {
		job, err := s.Status(ctx, jobID)
		if err != nil {
			return last, err
		}
		metrics.BatchPollsTotal.WithLabelValues(string(job.Status)).Inc()
		s.checkTransition(jobID, prev, job.Status)
		prev, last = job.Status, job

		if opts.OnUpdate != nil {
			opts.OnUpdate(job)
		}
		if job.Status.IsTerminal() {
			return job, nil
		}
		if maxAttempts > 0 && attempt >= maxAttempts {
			return job, fmt.Errorf("%w: job %s after %d polls", ErrPollLimit, jobID, attempt)
		}

		timer.Reset(interval)
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-timer.C:
		}
	}
}

func (s *Service) checkTransition(jobID string, from, to dombatch.Status) {
	if !to.IsValid() {
		s.logger.Warn("unknown batch job status", zap.String("job_id", jobID), zap.String("status", string(to)))
		return
	}
	if from != "" && !from.CanTransition(to) {
		s.logger.Warn("unexpected batch job transition",
			zap.String("job_id", jobID),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
	}
}

func jobPath(jobID string) string {
	return "/api/v1/batch/" + jobID
}
