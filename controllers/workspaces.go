package controllers

import (
	"net/http"

	dbpkg "safra/db"
	"safra/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type WorkspaceRequest struct {
	Name             string `json:"name" form:"name"`
	CNPJ             string `json:"cnpj" form:"cnpj"`
	PrescreenEnabled bool   `json:"prescreen_enabled" form:"prescreen_enabled"`
}

// POST /api/workspaces (público: bootstrap de organização)
func CreateWorkspace(c *gin.Context) {
	var req WorkspaceRequest
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

	ws := models.Workspace{
		Name:             req.Name,
		CNPJ:             req.CNPJ,
		PrescreenEnabled: req.PrescreenEnabled,
	}
	if err := db.Create(&ws).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"workspace": ws})
}

// GET /api/workspaces (validated): workspace do usuário + sub-workspaces
func GetWorkspaces(c *gin.Context) {
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

	var items []models.Workspace
	if err := db.Where("id = ? OR parent_id = ?", user.WorkspaceID, user.WorkspaceID).
		Order("id asc").Find(&items).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"workspaces": items})
}

// PUT /api/workspaces (admin): atualiza o workspace do usuário
func UpdateWorkspace(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req WorkspaceRequest
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

	var ws models.Workspace
	if err := db.First(&ws, user.WorkspaceID).Error; err != nil {
		RespondError(c, "workspace não encontrado", http.StatusNotFound)
		return
	}

	ws.Name = req.Name
	ws.CNPJ = req.CNPJ
	ws.PrescreenEnabled = req.PrescreenEnabled

	if err := db.Save(&ws).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"workspace": ws})
}

// POST /api/workspaces/sub (admin)
// Cria um sub-workspace sob o workspace do usuário. Sub-workspace não pode
// ter filhos (árvore de um nível).
func CreateSubWorkspace(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req WorkspaceRequest
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

	var parent models.Workspace
	if err := db.First(&parent, user.WorkspaceID).Error; err != nil {
		RespondError(c, "workspace não encontrado", http.StatusNotFound)
		return
	}
	if parent.IsSubWorkspace() {
		RespondError(c, "sub-workspace não pode ter filhos", http.StatusBadRequest)
		return
	}

	ws := models.Workspace{
		Name:     req.Name,
		CNPJ:     req.CNPJ,
		ParentID: parent.ID,
	}
	if err := db.Create(&ws).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"workspace": ws})
}

// workspaceVisible diz se o workspace informado é o do usuário ou um
// sub-workspace dele.
func workspaceVisible(db *gorm.DB, user models.User, workspaceID int64) bool {
	if workspaceID == user.WorkspaceID {
		return true
	}
	var ws models.Workspace
	if err := db.First(&ws, workspaceID).Error; err != nil {
		return false
	}
	return ws.ParentID == user.WorkspaceID
}
