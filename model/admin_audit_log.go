package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditAction names a privileged mutation recorded in the audit trail
type AuditAction string

const (
	AuditActionRoleChange   AuditAction = "user_role_change"
	AuditActionStatusChange AuditAction = "event_status_change"
	AuditActionEventDelete  AuditAction = "event_delete"
)

// AdminAuditLog represents audit trail for privileged actions
type AdminAuditLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AdminID     uint           `gorm:"not null;index" json:"admin_id"`
	Action      AuditAction    `gorm:"type:varchar(100);not null;index" json:"action"`
	Resource    string         `gorm:"type:varchar(100)" json:"resource"` // e.g. "users", "events"
	ResourceID  uint           `json:"resource_id"`
	OldValue    datatypes.JSON `json:"old_value"`
	NewValue    datatypes.JSON `json:"new_value"`
	IPAddress   string         `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent   string         `gorm:"type:text" json:"user_agent"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`

	// Relationships
	Admin User `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for AdminAuditLog
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}
