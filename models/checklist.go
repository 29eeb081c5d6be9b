package models

import "time"

/************************************************
/**** MARK: CHECKLIST STATUS ****/
/************************************************/
const CHECKLIST_STATUS_DRAFT = "draft"
const CHECKLIST_STATUS_SENT = "sent"
const CHECKLIST_STATUS_IN_PROGRESS = "in_progress"
const CHECKLIST_STATUS_PENDING_REVIEW = "pending_review"
const CHECKLIST_STATUS_APPROVED = "approved"
const CHECKLIST_STATUS_REJECTED = "rejected"
const CHECKLIST_STATUS_PARTIALLY_FINALIZED = "partially_finalized"
const CHECKLIST_STATUS_FINALIZED = "finalized"

/************************************************
/**** MARK: CHECKLIST TYPES ****/
/************************************************/
const CHECKLIST_TYPE_ORIGINAL = "original"
const CHECKLIST_TYPE_CORRECTION = "correction"
const CHECKLIST_TYPE_COMPLETION = "completion"

// Checklist é uma instância de template enviada a um produtor.
// ParentID forma uma árvore de um nível (original -> correção/complementação).
// Nunca é apagado fisicamente.
type Checklist struct {
	ID             int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	WorkspaceID    int64      `gorm:"not null;index" json:"workspace_id" form:"workspace_id"`
	SubWorkspaceID int64      `gorm:"default:0;index" json:"sub_workspace_id" form:"sub_workspace_id"`
	TemplateID     int64      `gorm:"not null;index" json:"template_id" form:"template_id"`
	ProducerID     int64      `gorm:"not null;index" json:"producer_id" form:"producer_id"`
	Status         string     `gorm:"not null;default:'draft';index" json:"status"`
	Type           string     `gorm:"not null;default:'original'" json:"type" form:"type"`
	ParentID       int64      `gorm:"default:0;index" json:"parent_id"`
	PublicToken    string     `gorm:"not null;unique_index" json:"public_token"`
	SentAt         *time.Time `json:"sent_at"`
	FinalizedAt    *time.Time `json:"finalized_at"`
	CreatedAt      *time.Time `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

func IsChecklistTypeValid(t string) bool {
	switch t {
	case CHECKLIST_TYPE_ORIGINAL, CHECKLIST_TYPE_CORRECTION, CHECKLIST_TYPE_COMPLETION:
		return true
	}
	return false
}

// AcceptsSubmission diz se o checklist ainda recebe respostas do produtor.
func (cl Checklist) AcceptsSubmission() bool {
	switch cl.Status {
	case CHECKLIST_STATUS_FINALIZED, CHECKLIST_STATUS_APPROVED:
		return false
	}
	return true
}
