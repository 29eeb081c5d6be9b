package models

import "time"

// ScopeAnswer é a resposta de escopo de um checklist (uma por pergunta de
// escopo do template: unique(checklist_id, scope_question_id)).
// Em checklists filhos a linha é copiada do pai na criação e não pode ser
// editada diretamente.
type ScopeAnswer struct {
	ID              int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ChecklistID     int64      `gorm:"not null;index;unique_index:ux_checklist_scope" json:"checklist_id" form:"checklist_id"`
	ScopeQuestionID int64      `gorm:"not null;index;unique_index:ux_checklist_scope" json:"scope_question_id" form:"scope_question_id"`
	Answer          string     `gorm:"type:text" json:"answer" form:"answer"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}
