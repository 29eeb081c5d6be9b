package models

import (
	"time"

	"safra/tools"
)

/************************************************
/**** MARK: USER STATUS ****/
/************************************************/
const USER_STATUS_AVAILABLE = 0
const USER_STATUS_PENDING = 1
const USER_STATUS_BLOCKED = 2

// User representa um auditor/revisor autenticado do sistema.
// Produtores não têm conta: eles acessam o checklist pelo token público.
type User struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name        string     `gorm:"not null" json:"name" form:"name"`
	Email       string     `gorm:"not null;unique" json:"email" form:"email"`
	Password    string     `gorm:"not null" json:"password" form:"password"`
	WorkspaceID int64      `gorm:"not null;index" json:"workspace_id" form:"workspace_id"`
	Phone       string     `gorm:"default:''" json:"phone" form:"phone"`
	Status      int        `gorm:"default:0" json:"status" form:"status"`
	Admin       bool       `gorm:"not null; default: false" json:"admin" form:"admin"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (user User) MissingFields() string {
	if user.Name == "" {
		return "name"
	} else if user.Email == "" {
		return "email"
	} else if user.Password == "" {
		return "password"
	} else if tools.CheckPassword(user.Password) != "" {
		return tools.CheckPassword(user.Password)
	} else if user.WorkspaceID <= 0 {
		return "workspace_id"
	}
	return ""
}
