package service

import (
	"context"
	"time"

	"voucher-settlement-gateway/internal/core/domain"
	"voucher-settlement-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuditServiceImpl implements ports.AuditService. Entries are written on a
// background goroutine so the request path never blocks on audit persistence.
type AuditServiceImpl struct {
	auditRepo ports.AuditRepository
	log       zerolog.Logger
}

// NewAuditService creates a new AuditServiceImpl. auditRepo may be nil, in
// which case entries go to the structured log only.
func NewAuditService(auditRepo ports.AuditRepository, log zerolog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{
		auditRepo: auditRepo,
		log:       log,
	}
}

// Record logs the entry and persists it asynchronously. Failures are logged,
// never surfaced to the caller.
func (s *AuditServiceImpl) Record(ctx context.Context, entry *domain.AuditLog) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	evt := s.log.Info().
		Str("audit_action", string(entry.Action)).
		Str("resource_type", entry.ResourceType).
		Str("ip_address", entry.IPAddress)
	if entry.ResourceID != "" {
		evt = evt.Str("resource_id", entry.ResourceID)
	}
	if entry.UserID != nil {
		evt = evt.Str("user_id", entry.UserID.String())
	}
	evt.Msg("audit event")

	if s.auditRepo == nil {
		return
	}

	go func(e domain.AuditLog) {
		persistCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.auditRepo.Create(persistCtx, &e); err != nil {
			s.log.Error().Err(err).Str("audit_action", string(e.Action)).Msg("audit persistence failed")
		}
	}(*entry)
}
