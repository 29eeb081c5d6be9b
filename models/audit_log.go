package models

import "time"

/************************************************
/**** MARK: AUDIT ACTIONS ****/
/************************************************/
const AUDIT_ACTION_RESPONSE_REVIEWED = "response_reviewed"
const AUDIT_ACTION_RESPONSE_INTERNAL_FILL = "response_internal_fill"
const AUDIT_ACTION_RESPONSE_EXPIRED = "response_expired"
const AUDIT_ACTION_CHECKLIST_SENT = "checklist_sent"
const AUDIT_ACTION_CHECKLIST_REVIEWED = "checklist_reviewed"
const AUDIT_ACTION_CHECKLIST_FINALIZED = "checklist_finalized"
const AUDIT_ACTION_PARENT_SYNC = "parent_sync"

// AuditLog registra quem mudou o quê no fluxo de revisão.
// A escrita é best-effort: falha aqui é logada e nunca derruba a mutação
// principal.
type AuditLog struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID      int64      `gorm:"default:0;index" json:"user_id"`
	ChecklistID int64      `gorm:"not null;index" json:"checklist_id"`
	ItemID      int64      `gorm:"default:0" json:"item_id"`
	FieldID     int64      `gorm:"default:0" json:"field_id"`
	Action      string     `gorm:"not null;index" json:"action"`
	OldStatus   string     `gorm:"default:''" json:"old_status"`
	NewStatus   string     `gorm:"default:''" json:"new_status"`
	Detail      string     `gorm:"type:text" json:"detail"`
	CreatedAt   *time.Time `json:"created_at"`
}
