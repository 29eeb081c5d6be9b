package controllers

import (
	"net/http"
	"strconv"

	dbpkg "safra/db"
	"safra/models"
	"safra/tools"

	"github.com/gin-gonic/gin"
)

func getenvInt(k string, def int) int {
	s := getenv(k, "")
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// POST /api/users
// Cria um auditor. Primeiro usuário do workspace vira admin.
func CreateUser(c *gin.Context) {
	var user models.User
	if err := c.Bind(&user); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if missing := user.MissingFields(); missing != "" {
		RespondError(c, missing+" é obrigatório", http.StatusBadRequest)
		return
	}
	if !tools.ValidateEmail(user.Email) {
		RespondError(c, "email inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := db.First(&models.Workspace{}, user.WorkspaceID).Error; err != nil {
		RespondError(c, "workspace não encontrado", http.StatusNotFound)
		return
	}

	var existing models.User
	if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		RespondError(c, "email já cadastrado", http.StatusConflict)
		return
	}

	var count int
	db.Model(&models.User{}).Where("workspace_id = ?", user.WorkspaceID).Count(&count)
	if count == 0 {
		user.Admin = true
	}

	user.Password = tools.HashPassword(user.Email, user.Password)
	user.Status = models.USER_STATUS_AVAILABLE

	if err := db.Create(&user).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	user.Password = ""
	RespondSuccess(c, gin.H{"user": user})
}

// GET /api/me
func Me(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	user.Password = ""
	RespondSuccess(c, gin.H{"user": user})
}
