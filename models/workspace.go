package models

import "time"

// Workspace é a fronteira de tenancy. Um workspace pode ter sub-workspaces
// (ParentID preenchido), formando uma árvore de um nível só: sub-workspace
// não pode ter filhos.
type Workspace struct {
	ID               int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name             string     `gorm:"not null" json:"name" form:"name"`
	CNPJ             string     `gorm:"default:''" json:"cnpj" form:"cnpj"`
	ParentID         int64      `gorm:"default:0;index" json:"parent_id" form:"parent_id"`
	PrescreenEnabled bool       `gorm:"not null;default:false" json:"prescreen_enabled" form:"prescreen_enabled"`
	CreatedAt        *time.Time `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}

func (w Workspace) IsSubWorkspace() bool {
	return w.ParentID > 0
}
