package controllers

import (
	"net/http"
	"time"

	dbpkg "safra/db"
	"safra/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type ResponseReviewRequest struct {
	ItemID          int64   `json:"item_id" form:"item_id"`
	FieldID         int64   `json:"field_id" form:"field_id"`
	Status          string  `json:"status" form:"status"`
	RejectionReason string  `json:"rejection_reason" form:"rejection_reason"`
	// preenchimento interno: revisor responde em nome do produtor
	InternalFill bool    `json:"internal_fill" form:"internal_fill"`
	Answer       string  `json:"answer" form:"answer"`
	Quantity     float64 `json:"quantity" form:"quantity"`
	Observation  string  `json:"observation" form:"observation"`
}

// PUT /api/checklists/:id/responses (validated)
// Caminho do revisor: muda o status de uma resposta (APPROVED/REJECTED/
// PENDING_VERIFICATION/MISSING) ou preenche em nome do produtor
// (internal_fill). Toda mudança tenta gravar auditoria; falha lá não
// derruba a mutação.
func UpdateResponse(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req ResponseReviewRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ItemID <= 0 {
		RespondError(c, "item_id é obrigatório", http.StatusBadRequest)
		return
	}

	// internal_fill sem status explícito cai em pending_verification
	if req.InternalFill && req.Status == "" {
		req.Status = models.RESPONSE_STATUS_PENDING_VERIFICATION
	}
	if !models.IsResponseStatusValid(req.Status) {
		RespondError(c, "status inválido", http.StatusBadRequest)
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
	if cl.Status == models.CHECKLIST_STATUS_FINALIZED {
		RespondError(c, "checklist finalizado não aceita revisão", http.StatusBadRequest)
		return
	}

	item, ok := loadChecklistItem(c, db, cl, req.ItemID)
	if !ok {
		return
	}

	// ler-pela-chave: uma linha por (checklist_id, item_id, field_id)
	var resp models.Response
	err := db.Where("checklist_id = ? AND item_id = ? AND field_id = ?",
		cl.ID, req.ItemID, req.FieldID).First(&resp).Error
	if err != nil {
		if !req.InternalFill {
			RespondError(c, "resposta não encontrada", http.StatusNotFound)
			return
		}
		resp = models.Response{
			ChecklistID: cl.ID,
			ItemID:      req.ItemID,
			FieldID:     req.FieldID,
		}
	}

	oldStatus := resp.Status

	if req.InternalFill {
		resp.Answer = req.Answer
		resp.Quantity = req.Quantity
		resp.Observation = req.Observation
		resp.IsInternal = true
	}

	now := time.Now()
	resp.Status = req.Status
	switch req.Status {
	case models.RESPONSE_STATUS_APPROVED:
		// aprovar limpa o motivo de rejeição e carimba a revisão
		resp.RejectionReason = ""
		resp.ReviewedAt = &now
		if item.ValidityControl > 0 {
			until := now.AddDate(0, 0, item.ValidityControl)
			resp.ValidUntil = &until
		}
	case models.RESPONSE_STATUS_REJECTED:
		resp.RejectionReason = req.RejectionReason
		resp.ReviewedAt = &now
	}

	if resp.ID == 0 {
		err = db.Create(&resp).Error
	} else {
		err = db.Save(&resp).Error
	}
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	action := models.AUDIT_ACTION_RESPONSE_REVIEWED
	if req.InternalFill {
		action = models.AUDIT_ACTION_RESPONSE_INTERNAL_FILL
	}
	writeAuditLog(db, models.AuditLog{
		UserID:      user.ID,
		ChecklistID: cl.ID,
		ItemID:      req.ItemID,
		FieldID:     req.FieldID,
		Action:      action,
		OldStatus:   oldStatus,
		NewStatus:   resp.Status,
		Detail:      req.RejectionReason,
	})

	RespondSuccess(c, gin.H{"response": resp})
}

// loadChecklistItem garante que o item pertence ao template do checklist.
func loadChecklistItem(c *gin.Context, db *gorm.DB, cl models.Checklist, itemID int64) (models.Item, bool) {
	var item models.Item
	err := db.Table("items").
		Select("items.*").
		Joins("join sections on sections.id = items.section_id").
		Where("items.id = ? AND sections.template_id = ?", itemID, cl.TemplateID).
		First(&item).Error
	if err != nil {
		RespondError(c, "item não pertence a este checklist", http.StatusNotFound)
		return item, false
	}
	return item, true
}
