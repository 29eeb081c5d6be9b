package controllers

import (
	"net/http"

	dbpkg "safra/db"
	"safra/models"
	"safra/tools"

	"github.com/gin-gonic/gin"
)

type ProducerRequest struct {
	Name  string `json:"name" form:"name"`
	CPF   string `json:"cpf" form:"cpf"`
	Phone string `json:"phone" form:"phone"`
	Email string `json:"email" form:"email"`
}

// GET /api/producers (validated): produtores vinculados ao workspace do usuário
func GetProducers(c *gin.Context) {
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

	var items []models.Producer
	if err := db.Table("producers").
		Select("producers.*").
		Joins("join workspace_producers on workspace_producers.producer_id = producers.id").
		Where("workspace_producers.workspace_id = ?", user.WorkspaceID).
		Order("producers.id asc").
		Find(&items).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"producers": items})
}

// GET /api/producers/:id (validated)
func GetProducerByID(c *gin.Context) {
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

	var item models.Producer
	if err := db.First(&item, id).Error; err != nil {
		RespondError(c, "produtor não encontrado", http.StatusNotFound)
		return
	}

	var link models.WorkspaceProducer
	if err := db.Where("workspace_id = ? AND producer_id = ?", user.WorkspaceID, id).
		First(&link).Error; err != nil {
		RespondError(c, "forbidden", http.StatusForbidden)
		return
	}

	RespondSuccess(c, gin.H{"producer": item})
}

// POST /api/producers (validated)
// Cria (ou reaproveita pelo CPF) um produtor e vincula ao workspace do usuário.
// O mesmo CPF pode pertencer a vários workspaces.
func CreateProducer(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req ProducerRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		RespondError(c, "name é obrigatório", http.StatusBadRequest)
		return
	}
	if !tools.ValidateCPF(req.CPF) {
		RespondError(c, "cpf inválido", http.StatusBadRequest)
		return
	}
	if req.Phone == "" {
		RespondError(c, "phone é obrigatório", http.StatusBadRequest)
		return
	}
	if _, err := tools.NormalizeWhatsAppTo(req.Phone); err != nil {
		RespondError(c, "phone inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	cpf := tools.NormalizeCPF(req.CPF)

	// reaproveita cadastro existente do mesmo CPF (outro workspace)
	var producer models.Producer
	if err := db.Where("cpf = ?", cpf).First(&producer).Error; err != nil {
		producer = models.Producer{
			Name:  req.Name,
			CPF:   cpf,
			Phone: req.Phone,
			Email: req.Email,
		}
		if err := db.Create(&producer).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var link models.WorkspaceProducer
	if err := db.Where("workspace_id = ? AND producer_id = ?", user.WorkspaceID, producer.ID).
		First(&link).Error; err == nil {
		RespondError(c, "produtor já vinculado a este workspace", http.StatusConflict)
		return
	}

	link = models.WorkspaceProducer{WorkspaceID: user.WorkspaceID, ProducerID: producer.ID}
	if err := db.Create(&link).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"producer": producer})
}

// PUT /api/producers/:id (validated)
func UpdateProducer(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req ProducerRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var link models.WorkspaceProducer
	if err := db.Where("workspace_id = ? AND producer_id = ?", user.WorkspaceID, id).
		First(&link).Error; err != nil {
		RespondError(c, "forbidden", http.StatusForbidden)
		return
	}

	var item models.Producer
	if err := db.First(&item, id).Error; err != nil {
		RespondError(c, "produtor não encontrado", http.StatusNotFound)
		return
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Phone != "" {
		if _, err := tools.NormalizeWhatsAppTo(req.Phone); err != nil {
			RespondError(c, "phone inválido: "+err.Error(), http.StatusBadRequest)
			return
		}
		item.Phone = req.Phone
	}
	if req.Email != "" {
		item.Email = req.Email
	}

	if err := db.Save(&item).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"producer": item})
}

// DELETE /api/producers/:id (validated)
// Desvincula o produtor do workspace (o cadastro em si fica, pode estar em
// outros workspaces).
func DetachProducer(c *gin.Context) {
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

	var link models.WorkspaceProducer
	if err := db.Where("workspace_id = ? AND producer_id = ?", user.WorkspaceID, id).
		First(&link).Error; err != nil {
		RespondError(c, "vínculo não encontrado", http.StatusNotFound)
		return
	}

	if err := db.Delete(&models.WorkspaceProducer{}, "id = ?", link.ID).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "detached"})
}
