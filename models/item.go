package models

import "time"

/************************************************
/**** MARK: ITEM TYPES ****/
/************************************************/
const ITEM_TYPE_TEXT = "text"
const ITEM_TYPE_CHOICE = "choice"
const ITEM_TYPE_DATE = "date"
const ITEM_TYPE_NUMBER = "number"
const ITEM_TYPE_FILE = "file"
const ITEM_TYPE_MAP = "map"

// Item é um ponto de verificação dentro de uma seção do template.
// ValidityControl (em dias) define por quanto tempo uma resposta aprovada
// continua válida; 0 desliga o controle.
type Item struct {
	ID              int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	SectionID       int64      `gorm:"not null;index" json:"section_id" form:"section_id"`
	Label           string     `gorm:"not null" json:"label" form:"label"`
	Type            string     `gorm:"not null;default:'text'" json:"type" form:"type"`
	Required        bool       `gorm:"not null;default:false" json:"required" form:"required"`
	ValidityControl int        `gorm:"not null;default:0" json:"validity_control" form:"validity_control"`
	Options         string     `gorm:"type:text" json:"options" form:"options"` // JSON array (choice)
	Position        int        `gorm:"not null;default:0" json:"position" form:"position"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

func IsItemTypeValid(t string) bool {
	switch t {
	case ITEM_TYPE_TEXT, ITEM_TYPE_CHOICE, ITEM_TYPE_DATE,
		ITEM_TYPE_NUMBER, ITEM_TYPE_FILE, ITEM_TYPE_MAP:
		return true
	}
	return false
}
