package controllers

import (
	"log"
	"net/http"

	dbpkg "safra/db"
	"safra/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// writeAuditLog grava a trilha de auditoria em modo best-effort: falha aqui é
// logada e engolida pra nunca derrubar a mutação principal.
func writeAuditLog(db *gorm.DB, entry models.AuditLog) {
	if db == nil {
		return
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("audit log: write failed (action=%s checklist=%d): %v",
			entry.Action, entry.ChecklistID, err)
	}
}

// GET /api/checklists/:id/audit (validated)
func GetChecklistAuditLogs(c *gin.Context) {
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

	cl, ok := loadVisibleChecklist(c, db, user, id)
	if !ok {
		return
	}

	var logs []models.AuditLog
	if err := db.Where("checklist_id = ?", cl.ID).Order("id asc").Find(&logs).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"audit_logs": logs})
}
