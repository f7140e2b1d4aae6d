package services

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/safatanc/tapreview-core/internal/app/errors"
	"github.com/safatanc/tapreview-core/internal/app/models"
	"github.com/safatanc/tapreview-core/internal/app/pkg"
	"github.com/safatanc/tapreview-core/internal/infrastructures"
	"gorm.io/gorm"
)

type AuditService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
	now       pkg.Clock
}

func NewAuditService(db *gorm.DB, validator *infrastructures.Validator, now pkg.Clock) *AuditService {
	return &AuditService{
		db:        db,
		validator: validator,
		now:       now,
	}
}

// AuditEntry describes one audited action before it is persisted.
type AuditEntry struct {
	Action    models.AuditAction
	SubjectID uuid.UUID
	ActorID   uuid.UUID
	Outcome   string
	Meta      models.RequestMeta
	Metadata  map[string]interface{}
}

// Record writes an audit log entry on tx. Callers pass the transaction of the
// action being audited so the entry commits or rolls back with it.
func (s *AuditService) Record(tx *gorm.DB, entry AuditEntry) (*models.AuditLog, error) {
	var metadataJSON *string
	if entry.Metadata != nil {
		jsonBytes, err := json.Marshal(entry.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		strJSON := string(jsonBytes)
		metadataJSON = &strJSON
	}

	outcome := entry.Outcome
	if outcome == "" {
		outcome = models.AuditOutcomeSuccess
	}

	auditLog := &models.AuditLog{
		Action:    entry.Action,
		SubjectID: entry.SubjectID,
		ActorID:   entry.ActorID,
		Outcome:   outcome,
		IPAddress: optionalString(normalizeIP(entry.Meta.IPAddress)),
		UserAgent: optionalString(truncate(entry.Meta.UserAgent, 255)),
		Metadata:  metadataJSON,
		CreatedAt: s.now(),
	}

	if err := tx.Create(auditLog).Error; err != nil {
		return nil, fmt.Errorf("failed to create audit log: %w", err)
	}

	return auditLog, nil
}

// GetAuditLogs retrieves audit logs with pagination, newest first
func (s *AuditService) GetAuditLogs(pagination *models.PaginationRequest, filter *models.AuditLogFilter) (*models.Pagination[[]models.AuditLog], error) {
	if err := s.validator.Validate(pagination); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(filter); err != nil {
		return nil, err
	}
	pagination.Normalize()

	var subjectID *uuid.UUID
	if filter.SubjectID != nil {
		parsed, err := uuid.Parse(*filter.SubjectID)
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid subject ID format")
		}
		subjectID = &parsed
	}

	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Action != nil {
			db = db.Where("action = ?", *filter.Action)
		}
		if subjectID != nil {
			db = db.Where("subject_id = ?", *subjectID)
		}
		return db
	}

	var totalItems int64
	if err := s.db.Model(&models.AuditLog{}).Scopes(scope).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count audit logs")
	}

	var logs []models.AuditLog
	if err := s.db.Scopes(scope).
		Order("created_at DESC").
		Limit(pagination.Limit).
		Offset(pagination.Offset()).
		Find(&logs).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get audit logs")
	}

	return models.NewPagination(pagination, totalItems, logs), nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// normalizeIP returns the canonical form of ip, or "" when it does not parse.
func normalizeIP(ip string) string {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return ""
	}
	return parsed.String()
}

// truncate cuts s to at most n bytes without splitting a rune. Invalid
// UTF-8 is replaced first so the result is always valid text.
func truncate(s string, n int) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
