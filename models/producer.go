package models

import "time"

// Producer representa o produtor rural (fazendeiro/proprietário) que responde
// checklists. Não tem login: o acesso é pelo token público do checklist.
type Producer struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name      string     `gorm:"not null" json:"name" form:"name"`
	CPF       string     `gorm:"not null;index" json:"cpf" form:"cpf"`
	Phone     string     `gorm:"not null" json:"phone" form:"phone"`
	Email     string     `gorm:"default:''" json:"email" form:"email"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// WorkspaceProducer liga produtor a workspace. O mesmo CPF pode existir em
// vários workspaces (unique(workspace_id, producer_id)).
type WorkspaceProducer struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	WorkspaceID int64      `gorm:"not null;index;unique_index:ux_workspace_producer" json:"workspace_id" form:"workspace_id"`
	ProducerID  int64      `gorm:"not null;index;unique_index:ux_workspace_producer" json:"producer_id" form:"producer_id"`
	CreatedAt   *time.Time `json:"created_at"`
}
