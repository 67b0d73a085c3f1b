package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-console/internal/models"
	"github.com/noah-isme/campus-console/internal/session"
	appErrors "github.com/noah-isme/campus-console/pkg/errors"
	"github.com/noah-isme/campus-console/pkg/jobs"
)

const auditJobType = "audit_log"

type auditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type auditOriginKey struct{}

type auditOrigin struct {
	ip        string
	userAgent string
}

// WithAuditOrigin attaches the caller address and user agent to ctx.
func WithAuditOrigin(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, auditOriginKey{}, auditOrigin{ip: ip, userAgent: userAgent})
}

// AuditConfig configures the asynchronous writer.
type AuditConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
}

// AuditService records operator activity asynchronously. A nil *AuditService is a no-op.
type AuditService struct {
	repo   auditRepository
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService constructs the service and its worker queue. Call Start before recording.
func NewAuditService(repo auditRepository, cfg AuditConfig, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuditService{repo: repo, logger: logger}
	s.queue = jobs.NewQueue("audit", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the writers.
func (s *AuditService) Start(ctx context.Context) {
	if s == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop waits for the writers to exit.
func (s *AuditService) Stop() {
	if s == nil {
		return
	}
	s.queue.Stop()
}

// Record enqueues an audit entry for the session user in ctx. Failures are logged only.
func (s *AuditService) Record(ctx context.Context, action, resource, resourceID string, values interface{}) {
	if s == nil {
		return
	}
	entry := models.AuditLog{
		ID:        uuid.NewString(),
		Action:    action,
		Resource:  resource,
		CreatedAt: time.Now().UTC(),
	}
	if user, err := session.FromContext(ctx); err == nil {
		entry.Role = user.Role
		if id, ok := user.Attribute("student_id"); ok {
			entry.UserID = &id
		} else if id, ok := user.Attribute("admin_id"); ok {
			entry.UserID = &id
		}
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if origin, ok := ctx.Value(auditOriginKey{}).(auditOrigin); ok {
		entry.IPAddress = origin.ip
		entry.UserAgent = origin.userAgent
	}
	if values != nil {
		if raw, err := json.Marshal(values); err == nil {
			entry.NewValues = raw
		}
	}

	if err := s.queue.Enqueue(jobs.Job{ID: entry.ID, Type: auditJobType, Payload: entry}); err != nil {
		s.logger.Warn("failed to enqueue audit log", zap.String("action", action), zap.Error(err))
	}
}

// Recent returns the newest audit rows.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if s == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "audit trail is disabled")
	}
	logs, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit trail")
	}
	return logs, nil
}

func (s *AuditService) handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.AuditLog)
	if !ok {
		s.logger.Error("unexpected audit payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.repo.Create(ctx, &entry)
}
