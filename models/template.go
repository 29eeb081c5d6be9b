package models

import "time"

// Template é a definição estrutural de um checklist (sem versão).
// Duplicar um template copia em profundidade seções, itens e perguntas de escopo.
type Template struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	WorkspaceID int64      `gorm:"not null;index" json:"workspace_id" form:"workspace_id"`
	Name        string     `gorm:"not null" json:"name" form:"name"`
	Description string     `gorm:"type:text" json:"description" form:"description"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// Section agrupa itens dentro de um template.
type Section struct {
	ID         int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TemplateID int64      `gorm:"not null;index" json:"template_id" form:"template_id"`
	Name       string     `gorm:"not null" json:"name" form:"name"`
	Position   int        `gorm:"not null;default:0" json:"position" form:"position"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

// ScopeQuestion é uma pergunta de escopo respondida por checklist (não por item).
// Checklists filhos herdam as respostas do pai e não podem editá-las.
type ScopeQuestion struct {
	ID         int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TemplateID int64      `gorm:"not null;index" json:"template_id" form:"template_id"`
	Label      string     `gorm:"not null" json:"label" form:"label"`
	Position   int        `gorm:"not null;default:0" json:"position" form:"position"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}
