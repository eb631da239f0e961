package services

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/sahilchouksey/dept-events/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditService records and lists privileged actions
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// AuditEntry describes one privileged mutation
type AuditEntry struct {
	Action      model.AuditAction
	Resource    string
	ResourceID  uint
	OldValue    interface{}
	NewValue    interface{}
	Description string
}

// recordTx writes an audit row on tx so it commits or rolls back together
// with the change it describes
func recordTx(tx *gorm.DB, actor Actor, entry AuditEntry) error {
	row := model.AdminAuditLog{
		AdminID:     actor.ID,
		Action:      entry.Action,
		Resource:    entry.Resource,
		ResourceID:  entry.ResourceID,
		OldValue:    toJSON(entry.OldValue),
		NewValue:    toJSON(entry.NewValue),
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
		Description: entry.Description,
	}
	return tx.Create(&row).Error
}

func toJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Msg("audit value is not JSON serializable")
		return nil
	}
	return datatypes.JSON(b)
}

// AuditFilter narrows ListAuditLogs; zero values match everything
type AuditFilter struct {
	Action   string
	Resource string
	AdminID  uint
	Page     int
	Limit    int
}

// Normalize clamps paging to page >= 1 and 1..100 entries per page
func (f *AuditFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

// List returns a page of audit entries, newest first, and the total match count
func (s *AuditService) List(ctx context.Context, filter AuditFilter) ([]model.AdminAuditLog, int64, error) {
	filter.Normalize()

	query := s.db.WithContext(ctx).Model(&model.AdminAuditLog{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Resource != "" {
		query = query.Where("resource = ?", filter.Resource)
	}
	if filter.AdminID != 0 {
		query = query.Where("admin_id = ?", filter.AdminID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, internal("Failed to fetch audit logs", err)
	}

	var logs []model.AdminAuditLog
	offset := (filter.Page - 1) * filter.Limit
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(filter.Limit).Find(&logs).Error; err != nil {
		return nil, 0, internal("Failed to fetch audit logs", err)
	}

	return logs, total, nil
}
