package models

import "time"

/************************************************
/**** MARK: RESPONSE STATUS ****/
/************************************************/
const RESPONSE_STATUS_PENDING_VERIFICATION = "pending_verification"
const RESPONSE_STATUS_APPROVED = "approved"
const RESPONSE_STATUS_REJECTED = "rejected"
const RESPONSE_STATUS_MISSING = "missing"

/************************************************
/**** MARK: PRESCREEN STATUS ****/
/************************************************/
const PRESCREEN_STATUS_NONE = ""
const PRESCREEN_STATUS_QUEUED = "queued"
const PRESCREEN_STATUS_DONE = "done"

// Response guarda a resposta (e o estado de revisão) de um item dentro de um
// checklist. Regra: uma linha por chave, unique(checklist_id, item_id,
// field_id). FieldID fica 0 quando o item não tem sub-campos. O único caminho
// de escrita é ler-pela-chave e criar/salvar.
type Response struct {
	ID               int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ChecklistID      int64      `gorm:"not null;index;unique_index:ux_checklist_item_field" json:"checklist_id" form:"checklist_id"`
	ItemID           int64      `gorm:"not null;index;unique_index:ux_checklist_item_field" json:"item_id" form:"item_id"`
	FieldID          int64      `gorm:"not null;default:0;unique_index:ux_checklist_item_field" json:"field_id" form:"field_id"`
	Answer           string     `gorm:"type:text" json:"answer" form:"answer"`
	Quantity         float64    `gorm:"default:0" json:"quantity" form:"quantity"`
	Observation      string     `gorm:"type:text" json:"observation" form:"observation"`
	FileURL          string     `gorm:"default:''" json:"file_url" form:"file_url"`
	AreaHectares     float64    `gorm:"default:0" json:"area_hectares"`
	Status           string     `gorm:"not null;default:'pending_verification';index" json:"status"`
	RejectionReason  string     `gorm:"type:text" json:"rejection_reason"`
	ReviewedAt       *time.Time `json:"reviewed_at"`
	IsInternal       bool       `gorm:"not null;default:false" json:"is_internal"`
	PrescreenStatus  string     `gorm:"default:'';index" json:"prescreen_status"`
	PrescreenVerdict string     `gorm:"default:''" json:"prescreen_verdict"`
	ValidUntil       *time.Time `gorm:"index" json:"valid_until"`
	CreatedAt        *time.Time `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

func IsResponseStatusValid(s string) bool {
	switch s {
	case RESPONSE_STATUS_PENDING_VERIFICATION, RESPONSE_STATUS_APPROVED,
		RESPONSE_STATUS_REJECTED, RESPONSE_STATUS_MISSING:
		return true
	}
	return false
}
