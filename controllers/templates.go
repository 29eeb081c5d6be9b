package controllers

import (
	"net/http"

	dbpkg "safra/db"
	"safra/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type TemplateRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

type SectionRequest struct {
	Name     string `json:"name" form:"name"`
	Position int    `json:"position" form:"position"`
}

type ItemRequest struct {
	Label           string `json:"label" form:"label"`
	Type            string `json:"type" form:"type"`
	Required        bool   `json:"required" form:"required"`
	ValidityControl int    `json:"validity_control" form:"validity_control"`
	Options         string `json:"options" form:"options"`
	Position        int    `json:"position" form:"position"`
}

type ScopeQuestionRequest struct {
	Label    string `json:"label" form:"label"`
	Position int    `json:"position" form:"position"`
}

// TemplateFull é a estrutura completa devolvida no GET.
type TemplateFull struct {
	Template       models.Template        `json:"template"`
	Sections       []SectionWithItems     `json:"sections"`
	ScopeQuestions []models.ScopeQuestion `json:"scope_questions"`
}

type SectionWithItems struct {
	Section models.Section `json:"section"`
	Items   []models.Item  `json:"items"`
}

// GET /api/templates (validated)
func GetTemplates(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var items []models.Template
	if err := db.Where("workspace_id = ?", user.WorkspaceID).Order("id asc").Find(&items).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"templates": items})
}

// GET /api/templates/:id (validated): estrutura completa
func GetTemplateByID(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var tpl models.Template
	if err := db.First(&tpl, id).Error; err != nil {
		RespondError(c, "template não encontrado", http.StatusNotFound)
		return
	}
	if tpl.WorkspaceID != user.WorkspaceID {
		RespondError(c, "forbidden", http.StatusForbidden)
		return
	}

	full, err := loadTemplateFull(db, tpl)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, full)
}

// POST /api/templates (validated)
func CreateTemplate(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		RespondError(c, "name é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	tpl := models.Template{
		WorkspaceID: user.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := db.Create(&tpl).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"template": tpl})
}

// PUT /api/templates/:id (validated)
func UpdateTemplate(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req TemplateRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		RespondError(c, "name é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var tpl models.Template
	if err := db.First(&tpl, id).Error; err != nil {
		RespondError(c, "template não encontrado", http.StatusNotFound)
		return
	}
	if tpl.WorkspaceID != user.WorkspaceID {
		RespondError(c, "forbidden", http.StatusForbidden)
		return
	}

	tpl.Name = req.Name
	tpl.Description = req.Description
	if err := db.Save(&tpl).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"template": tpl})
}

// POST /api/templates/:id/sections (validated)
func CreateSection(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req SectionRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		RespondError(c, "name é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var tpl models.Template
	if err := db.First(&tpl, id).Error; err != nil {
		RespondError(c, "template não encontrado", http.StatusNotFound)
		return
	}
	if tpl.WorkspaceID != user.WorkspaceID {
		RespondError(c, "forbidden", http.StatusForbidden)
		return
	}

	section := models.Section{TemplateID: tpl.ID, Name: req.Name, Position: req.Position}
	if err := db.Create(&section).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"section": section})
}

// POST /api/sections/:id/items (validated)
func CreateItem(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req ItemRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Label == "" {
		RespondError(c, "label é obrigatório", http.StatusBadRequest)
		return
	}
	if req.Type == "" {
		req.Type = models.ITEM_TYPE_TEXT
	}
	if !models.IsItemTypeValid(req.Type) {
		RespondError(c, "type inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var section models.Section
	if err := db.First(&section, id).Error; err != nil {
		RespondError(c, "seção não encontrada", http.StatusNotFound)
		return
	}
	var tpl models.Template
	if err := db.First(&tpl, section.TemplateID).Error; err != nil {
		RespondError(c, "template não encontrado", http.StatusNotFound)
		return
	}
	if tpl.WorkspaceID != user.WorkspaceID {
		RespondError(c, "forbidden", http.StatusForbidden)
		return
	}

	item := models.Item{
		SectionID:       section.ID,
		Label:           req.Label,
		Type:            req.Type,
		Required:        req.Required,
		ValidityControl: req.ValidityControl,
		Options:         req.Options,
		Position:        req.Position,
	}
	if err := db.Create(&item).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"item": item})
}

// POST /api/templates/:id/scope-questions (validated)
func CreateScopeQuestion(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req ScopeQuestionRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Label == "" {
		RespondError(c, "label é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var tpl models.Template
	if err := db.First(&tpl, id).Error; err != nil {
		RespondError(c, "template não encontrado", http.StatusNotFound)
		return
	}
	if tpl.WorkspaceID != user.WorkspaceID {
		RespondError(c, "forbidden", http.StatusForbidden)
		return
	}

	q := models.ScopeQuestion{TemplateID: tpl.ID, Label: req.Label, Position: req.Position}
	if err := db.Create(&q).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"scope_question": q})
}

// POST /api/templates/:id/duplicate (validated)
// Deep-copy de seções, itens e perguntas de escopo numa transação só.
func DuplicateTemplate(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var tpl models.Template
	if err := db.First(&tpl, id).Error; err != nil {
		RespondError(c, "template não encontrado", http.StatusNotFound)
		return
	}
	if tpl.WorkspaceID != user.WorkspaceID {
		RespondError(c, "forbidden", http.StatusForbidden)
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		RespondError(c, tx.Error.Error(), http.StatusInternalServerError)
		return
	}

	copyTpl := models.Template{
		WorkspaceID: tpl.WorkspaceID,
		Name:        tpl.Name + " (cópia)",
		Description: tpl.Description,
	}
	if err := tx.Create(&copyTpl).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var sections []models.Section
	if err := tx.Where("template_id = ?", tpl.ID).Order("position asc, id asc").Find(&sections).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	for _, s := range sections {
		copySec := models.Section{TemplateID: copyTpl.ID, Name: s.Name, Position: s.Position}
		if err := tx.Create(&copySec).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}

		var items []models.Item
		if err := tx.Where("section_id = ?", s.ID).Order("position asc, id asc").Find(&items).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		for _, it := range items {
			copyItem := models.Item{
				SectionID:       copySec.ID,
				Label:           it.Label,
				Type:            it.Type,
				Required:        it.Required,
				ValidityControl: it.ValidityControl,
				Options:         it.Options,
				Position:        it.Position,
			}
			if err := tx.Create(&copyItem).Error; err != nil {
				tx.Rollback()
				RespondError(c, err.Error(), http.StatusBadRequest)
				return
			}
		}
	}

	var questions []models.ScopeQuestion
	if err := tx.Where("template_id = ?", tpl.ID).Order("position asc, id asc").Find(&questions).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	for _, q := range questions {
		copyQ := models.ScopeQuestion{TemplateID: copyTpl.ID, Label: q.Label, Position: q.Position}
		if err := tx.Create(&copyQ).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"template": copyTpl})
}

func loadTemplateFull(db *gorm.DB, tpl models.Template) (TemplateFull, error) {
	full := TemplateFull{Template: tpl}

	var sections []models.Section
	if err := db.Where("template_id = ?", tpl.ID).Order("position asc, id asc").Find(&sections).Error; err != nil {
		return full, err
	}
	for _, s := range sections {
		var items []models.Item
		if err := db.Where("section_id = ?", s.ID).Order("position asc, id asc").Find(&items).Error; err != nil {
			return full, err
		}
		full.Sections = append(full.Sections, SectionWithItems{Section: s, Items: items})
	}

	if err := db.Where("template_id = ?", tpl.ID).Order("position asc, id asc").
		Find(&full.ScopeQuestions).Error; err != nil {
		return full, err
	}
	return full, nil
}
