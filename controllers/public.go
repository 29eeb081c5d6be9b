package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	dbpkg "safra/db"
	"safra/models"
	"safra/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type SubmissionItem struct {
	ItemID      int64   `json:"item_id"`
	FieldID     int64   `json:"field_id"`
	Answer      string  `json:"answer"`
	Quantity    float64 `json:"quantity"`
	Observation string  `json:"observation"`
	FileURL     string  `json:"file_url"`
	Status      string  `json:"status"` // opcional; default pending_verification
}

type SubmissionRequest struct {
	Items []SubmissionItem `json:"items"`
}

type ScopeAnswerSubmission struct {
	ScopeQuestionID int64  `json:"scope_question_id"`
	Answer          string `json:"answer"`
}

type ScopeSubmissionRequest struct {
	Answers []ScopeAnswerSubmission `json:"answers"`
}

type FileUploadRequest struct {
	ItemID   int64  `json:"item_id"`
	FieldID  int64  `json:"field_id"`
	Filename string `json:"filename"`
}

// loadChecklistByToken resolve o token público (acesso sem autenticação).
func loadChecklistByToken(c *gin.Context, db *gorm.DB) (models.Checklist, bool) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		RespondError(c, "token é obrigatório", http.StatusBadRequest)
		return models.Checklist{}, false
	}
	var cl models.Checklist
	if err := db.Where("public_token = ?", token).First(&cl).Error; err != nil {
		RespondError(c, "checklist não encontrado", http.StatusNotFound)
		return cl, false
	}
	return cl, true
}

// GET /api/public/checklists/:token
// Estrutura do template + respostas atuais. Primeiro acesso move SENT ->
// IN_PROGRESS.
func GetPublicChecklist(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	cl, ok := loadChecklistByToken(c, db)
	if !ok {
		return
	}

	if cl.Status == models.CHECKLIST_STATUS_SENT {
		cl.Status = models.CHECKLIST_STATUS_IN_PROGRESS
		if err := db.Save(&cl).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var tpl models.Template
	if err := db.First(&tpl, cl.TemplateID).Error; err != nil {
		RespondError(c, "template não encontrado", http.StatusNotFound)
		return
	}
	full, err := loadTemplateFull(db, tpl)
	if err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var responses []models.Response
	if err := db.Where("checklist_id = ?", cl.ID).Order("item_id asc, field_id asc").
		Find(&responses).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var scopeAnswers []models.ScopeAnswer
	if err := db.Where("checklist_id = ?", cl.ID).Order("scope_question_id asc").
		Find(&scopeAnswers).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	for i := range responses {
		if responses[i].FileURL != "" {
			signed, err := tools.PresignGet(responses[i].FileURL, now)
			if err != nil {
				log.Printf("presign: falha ao assinar leitura (response=%d): %v", responses[i].ID, err)
				continue
			}
			responses[i].FileURL = signed
		}
	}

	RespondSuccess(c, gin.H{
		"checklist":     cl,
		"template":      full,
		"responses":     responses,
		"scope_answers": scopeAnswers,
	})
}

// POST /api/public/checklists/:token/responses
// Submissão em lote do produtor, numa transação só. Regra central: linha
// existente REJECTED cuja resposta mudou volta pra PENDING_VERIFICATION,
// ignorando o status que o cliente mandou.
func SubmitResponses(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	cl, ok := loadChecklistByToken(c, db)
	if !ok {
		return
	}
	if !cl.AcceptsSubmission() {
		RespondError(c, "checklist finalizado não aceita respostas", http.StatusBadRequest)
		return
	}

	var req SubmissionRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		RespondError(c, "items é obrigatório", http.StatusBadRequest)
		return
	}
	for _, in := range req.Items {
		if in.ItemID <= 0 {
			RespondError(c, "item_id é obrigatório", http.StatusBadRequest)
			return
		}
		if in.Status != "" && !models.IsResponseStatusValid(in.Status) {
			RespondError(c, "status inválido", http.StatusBadRequest)
			return
		}
	}

	var ws models.Workspace
	prescreen := false
	if err := db.First(&ws, cl.WorkspaceID).Error; err == nil {
		prescreen = ws.PrescreenEnabled
	}

	tx := db.Begin()
	if tx.Error != nil {
		RespondError(c, tx.Error.Error(), http.StatusInternalServerError)
		return
	}

	saved := make([]models.Response, 0, len(req.Items))
	for _, in := range req.Items {
		var item models.Item
		if err := tx.Table("items").
			Select("items.*").
			Joins("join sections on sections.id = items.section_id").
			Where("items.id = ? AND sections.template_id = ?", in.ItemID, cl.TemplateID).
			First(&item).Error; err != nil {
			tx.Rollback()
			RespondError(c, "item não pertence a este checklist", http.StatusBadRequest)
			return
		}

		area := 0.0
		if item.Type == models.ITEM_TYPE_MAP && in.Answer != "" {
			pts, err := tools.ParsePolygon(in.Answer)
			if err != nil {
				tx.Rollback()
				RespondError(c, "polígono inválido: "+err.Error(), http.StatusBadRequest)
				return
			}
			area, err = tools.PolygonAreaHectares(pts)
			if err != nil {
				tx.Rollback()
				RespondError(c, "polígono inválido: "+err.Error(), http.StatusBadRequest)
				return
			}
		}

		// ler-pela-chave composta; única via de escrita, então não há duplicata
		var resp models.Response
		err := tx.Where("checklist_id = ? AND item_id = ? AND field_id = ?",
			cl.ID, in.ItemID, in.FieldID).First(&resp).Error

		status := in.Status
		if status == "" {
			status = models.RESPONSE_STATUS_PENDING_VERIFICATION
		}

		if err == nil {
			// guarda de status: rejeitada + resposta mudou => volta pra fila
			// de verificação, não importa o que o cliente mandou
			if resp.Status == models.RESPONSE_STATUS_REJECTED && in.Answer != resp.Answer {
				status = models.RESPONSE_STATUS_PENDING_VERIFICATION
			}
		} else {
			resp = models.Response{
				ChecklistID: cl.ID,
				ItemID:      in.ItemID,
				FieldID:     in.FieldID,
			}
		}

		changed := resp.ID == 0 || resp.Answer != in.Answer

		resp.Answer = in.Answer
		resp.Quantity = in.Quantity
		resp.Observation = in.Observation
		if in.FileURL != "" {
			resp.FileURL = in.FileURL
		}
		resp.AreaHectares = area
		resp.Status = status
		if status == models.RESPONSE_STATUS_PENDING_VERIFICATION {
			// motivo da rejeição fica até o revisor decidir; só o carimbo cai
			resp.ReviewedAt = nil
		}

		if prescreen && changed && status == models.RESPONSE_STATUS_PENDING_VERIFICATION {
			resp.PrescreenStatus = models.PRESCREEN_STATUS_QUEUED
			resp.PrescreenVerdict = ""
		}

		if resp.ID == 0 {
			err = tx.Create(&resp).Error
		} else {
			err = tx.Save(&resp).Error
		}
		if err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		saved = append(saved, resp)
	}

	if err := tx.Model(&models.Checklist{}).Where("id = ?", cl.ID).
		Update("status", models.CHECKLIST_STATUS_PENDING_REVIEW).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"responses": saved})
}

// POST /api/public/checklists/:token/scope-answers
// Respostas de escopo do checklist. Checklist filho herda do pai e não pode
// editar.
func SubmitScopeAnswers(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	cl, ok := loadChecklistByToken(c, db)
	if !ok {
		return
	}
	if cl.ParentID > 0 {
		RespondError(c, "respostas de escopo são herdadas do checklist pai", http.StatusBadRequest)
		return
	}
	if !cl.AcceptsSubmission() {
		RespondError(c, "checklist finalizado não aceita respostas", http.StatusBadRequest)
		return
	}

	var req ScopeSubmissionRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Answers) == 0 {
		RespondError(c, "answers é obrigatório", http.StatusBadRequest)
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		RespondError(c, tx.Error.Error(), http.StatusInternalServerError)
		return
	}

	saved := make([]models.ScopeAnswer, 0, len(req.Answers))
	for _, in := range req.Answers {
		if in.ScopeQuestionID <= 0 {
			tx.Rollback()
			RespondError(c, "scope_question_id é obrigatório", http.StatusBadRequest)
			return
		}
		var q models.ScopeQuestion
		if err := tx.Where("id = ? AND template_id = ?", in.ScopeQuestionID, cl.TemplateID).
			First(&q).Error; err != nil {
			tx.Rollback()
			RespondError(c, "pergunta de escopo não pertence a este checklist", http.StatusBadRequest)
			return
		}

		var sa models.ScopeAnswer
		err := tx.Where("checklist_id = ? AND scope_question_id = ?", cl.ID, in.ScopeQuestionID).
			First(&sa).Error
		if err != nil {
			sa = models.ScopeAnswer{ChecklistID: cl.ID, ScopeQuestionID: in.ScopeQuestionID}
		}
		sa.Answer = in.Answer

		if sa.ID == 0 {
			err = tx.Create(&sa).Error
		} else {
			err = tx.Save(&sa).Error
		}
		if err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		saved = append(saved, sa)
	}

	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"scope_answers": saved})
}

// POST /api/public/checklists/:token/files
// Gera URL assinada de PUT (15min) pro upload do produtor. O cliente grava o
// object key devolvido como file_url na submissão do item.
func RequestFileUpload(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	cl, ok := loadChecklistByToken(c, db)
	if !ok {
		return
	}
	if !cl.AcceptsSubmission() {
		RespondError(c, "checklist finalizado não aceita upload", http.StatusBadRequest)
		return
	}

	var req FileUploadRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ItemID <= 0 {
		RespondError(c, "item_id é obrigatório", http.StatusBadRequest)
		return
	}
	if req.Filename == "" {
		RespondError(c, "filename é obrigatório", http.StatusBadRequest)
		return
	}

	var item models.Item
	if err := db.Table("items").
		Select("items.*").
		Joins("join sections on sections.id = items.section_id").
		Where("items.id = ? AND sections.template_id = ?", req.ItemID, cl.TemplateID).
		First(&item).Error; err != nil {
		RespondError(c, "item não pertence a este checklist", http.StatusBadRequest)
		return
	}

	now := time.Now()
	key := tools.BuildStorageKey(cl.WorkspaceID, cl.SubWorkspaceID, cl.ID,
		req.ItemID, req.FieldID, req.Filename, now)

	uploadURL, err := tools.PresignPut(key, now)
	if err != nil {
		RespondError(c, "falha ao assinar upload: "+err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"key":        key,
		"upload_url": uploadURL,
		"expires_in": int(tools.StorageWriteExpiry.Seconds()),
	})
}
