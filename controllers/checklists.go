package controllers

import (
	"log"
	"net/http"
	"time"

	dbpkg "safra/db"
	"safra/models"
	"safra/tools"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
)

type ChecklistRequest struct {
	TemplateID     int64 `json:"template_id" form:"template_id"`
	ProducerID     int64 `json:"producer_id" form:"producer_id"`
	SubWorkspaceID int64 `json:"sub_workspace_id" form:"sub_workspace_id"`
}

type ChildChecklistRequest struct {
	Type string `json:"type" form:"type"` // correction | completion
}

type ChecklistReviewRequest struct {
	Verdict string `json:"verdict" form:"verdict"` // approved | rejected
}

// loadVisibleChecklist carrega o checklist e barra acesso fora do workspace
// do usuário (sub-workspaces são visíveis pro workspace pai).
func loadVisibleChecklist(c *gin.Context, db *gorm.DB, user models.User, id int64) (models.Checklist, bool) {
	var cl models.Checklist
	if err := db.First(&cl, id).Error; err != nil {
		RespondError(c, "checklist não encontrado", http.StatusNotFound)
		return cl, false
	}
	if cl.WorkspaceID != user.WorkspaceID && !workspaceVisible(db, user, cl.WorkspaceID) {
		RespondError(c, "forbidden", http.StatusForbidden)
		return cl, false
	}
	return cl, true
}

// GET /api/checklists (validated)
func GetChecklists(c *gin.Context) {
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

	q := db.Table("checklists").
		Select("checklists.*").
		Joins("left join workspaces on workspaces.id = checklists.workspace_id").
		Where("checklists.workspace_id = ? OR workspaces.parent_id = ?", user.WorkspaceID, user.WorkspaceID)

	if status := c.Query("status"); status != "" {
		q = q.Where("checklists.status = ?", status)
	}
	if producer := c.Query("producer_id"); producer != "" {
		q = q.Where("checklists.producer_id = ?", producer)
	}

	var items []models.Checklist
	if err := q.Order("checklists.id desc").Find(&items).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"checklists": items})
}

// GET /api/checklists/:id (validated): checklist + respostas
func GetChecklistByID(c *gin.Context) {
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

	// file_url vira URL assinada de leitura (1h) na saída
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
		"responses":     responses,
		"scope_answers": scopeAnswers,
	})
}

// POST /api/checklists (validated)
// Auditor escolhe template + produtor (+ sub-workspace opcional). Nasce DRAFT
// com token público.
func CreateChecklist(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req ChecklistRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.TemplateID <= 0 {
		RespondError(c, "template_id é obrigatório", http.StatusBadRequest)
		return
	}
	if req.ProducerID <= 0 {
		RespondError(c, "producer_id é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var tpl models.Template
	if err := db.First(&tpl, req.TemplateID).Error; err != nil {
		RespondError(c, "template não encontrado", http.StatusNotFound)
		return
	}
	if tpl.WorkspaceID != user.WorkspaceID {
		RespondError(c, "forbidden", http.StatusForbidden)
		return
	}

	var link models.WorkspaceProducer
	if err := db.Where("workspace_id = ? AND producer_id = ?", user.WorkspaceID, req.ProducerID).
		First(&link).Error; err != nil {
		RespondError(c, "produtor não vinculado a este workspace", http.StatusNotFound)
		return
	}

	if req.SubWorkspaceID > 0 {
		var sub models.Workspace
		if err := db.First(&sub, req.SubWorkspaceID).Error; err != nil || sub.ParentID != user.WorkspaceID {
			RespondError(c, "sub-workspace inválido", http.StatusBadRequest)
			return
		}
	}

	cl := models.Checklist{
		WorkspaceID:    user.WorkspaceID,
		SubWorkspaceID: req.SubWorkspaceID,
		TemplateID:     req.TemplateID,
		ProducerID:     req.ProducerID,
		Status:         models.CHECKLIST_STATUS_DRAFT,
		Type:           models.CHECKLIST_TYPE_ORIGINAL,
		PublicToken:    uuid.NewString(),
	}
	if err := db.Create(&cl).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"checklist": cl})
}

// POST /api/checklists/:id/send (validated)
// DRAFT -> SENT. Manda o link público por WhatsApp pro telefone do produtor.
// Falha no envio vira 500 (sem retry); o token continua válido.
func SendChecklist(c *gin.Context) {
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
	if cl.Status != models.CHECKLIST_STATUS_DRAFT {
		RespondError(c, "checklist já foi enviado", http.StatusBadRequest)
		return
	}

	var producer models.Producer
	if err := db.First(&producer, cl.ProducerID).Error; err != nil {
		RespondError(c, "produtor não encontrado", http.StatusNotFound)
		return
	}
	var ws models.Workspace
	if err := db.First(&ws, cl.WorkspaceID).Error; err != nil {
		RespondError(c, "workspace não encontrado", http.StatusNotFound)
		return
	}
	var tpl models.Template
	if err := db.First(&tpl, cl.TemplateID).Error; err != nil {
		RespondError(c, "template não encontrado", http.StatusNotFound)
		return
	}

	to, err := tools.NormalizeWhatsAppTo(producer.Phone)
	if err != nil {
		RespondError(c, "telefone do produtor inválido: "+err.Error(), http.StatusBadRequest)
		return
	}

	msg := tools.ChecklistLinkMessage(ws.Name, tpl.Name, cl.PublicToken)
	if err := tools.SendWhatsAppText(c.Request.Context(), to, msg); err != nil {
		RespondError(c, "falha ao enviar whatsapp: "+err.Error(), http.StatusInternalServerError)
		return
	}

	now := time.Now()
	cl.Status = models.CHECKLIST_STATUS_SENT
	cl.SentAt = &now
	if err := db.Save(&cl).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	writeAuditLog(db, models.AuditLog{
		UserID:      user.ID,
		ChecklistID: cl.ID,
		Action:      models.AUDIT_ACTION_CHECKLIST_SENT,
		NewStatus:   cl.Status,
	})

	RespondSuccess(c, gin.H{"checklist": cl})
}

// POST /api/checklists/:id/children (validated)
// Cria checklist filho (correção ou complementação) de um checklist original.
// Só um nível de aninhamento. O pai vai pra PARTIALLY_FINALIZED; o filho herda
// as respostas de escopo e as linhas rejeitadas/faltantes viram sementes.
func CreateChildChecklist(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req ChildChecklistRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Type != models.CHECKLIST_TYPE_CORRECTION && req.Type != models.CHECKLIST_TYPE_COMPLETION {
		RespondError(c, "type deve ser correction ou completion", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	parent, ok := loadVisibleChecklist(c, db, user, id)
	if !ok {
		return
	}
	if parent.ParentID > 0 {
		RespondError(c, "checklist filho não pode ter filhos", http.StatusBadRequest)
		return
	}
	if parent.Status == models.CHECKLIST_STATUS_DRAFT || parent.Status == models.CHECKLIST_STATUS_SENT {
		RespondError(c, "checklist ainda não tem respostas pra corrigir", http.StatusBadRequest)
		return
	}

	// linhas alvo: rejeitadas (correção) ou faltantes (complementação)
	targetStatus := models.RESPONSE_STATUS_REJECTED
	if req.Type == models.CHECKLIST_TYPE_COMPLETION {
		targetStatus = models.RESPONSE_STATUS_MISSING
	}

	var seeds []models.Response
	if err := db.Where("checklist_id = ? AND status = ?", parent.ID, targetStatus).
		Find(&seeds).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Type == models.CHECKLIST_TYPE_CORRECTION && len(seeds) == 0 {
		RespondError(c, "não há respostas rejeitadas pra corrigir", http.StatusBadRequest)
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		RespondError(c, tx.Error.Error(), http.StatusInternalServerError)
		return
	}

	child := models.Checklist{
		WorkspaceID:    parent.WorkspaceID,
		SubWorkspaceID: parent.SubWorkspaceID,
		TemplateID:     parent.TemplateID,
		ProducerID:     parent.ProducerID,
		Status:         models.CHECKLIST_STATUS_DRAFT,
		Type:           req.Type,
		ParentID:       parent.ID,
		PublicToken:    uuid.NewString(),
	}
	if err := tx.Create(&child).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	// herda respostas de escopo do pai (nunca editáveis no filho)
	var scopeAnswers []models.ScopeAnswer
	if err := tx.Where("checklist_id = ?", parent.ID).Find(&scopeAnswers).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	for _, sa := range scopeAnswers {
		copySA := models.ScopeAnswer{
			ChecklistID:     child.ID,
			ScopeQuestionID: sa.ScopeQuestionID,
			Answer:          sa.Answer,
		}
		if err := tx.Create(&copySA).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}

	// semeia as linhas alvo no filho mantendo status e motivo: a regra de
	// "rejeitada + resposta mudou => pendente de verificação" cuida do resto
	// quando o produtor reenviar.
	for _, seed := range seeds {
		copyResp := models.Response{
			ChecklistID:     child.ID,
			ItemID:          seed.ItemID,
			FieldID:         seed.FieldID,
			Answer:          seed.Answer,
			Quantity:        seed.Quantity,
			Observation:     seed.Observation,
			FileURL:         seed.FileURL,
			AreaHectares:    seed.AreaHectares,
			Status:          seed.Status,
			RejectionReason: seed.RejectionReason,
		}
		if err := tx.Create(&copyResp).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if err := tx.Model(&models.Checklist{}).Where("id = ?", parent.ID).
		Update("status", models.CHECKLIST_STATUS_PARTIALLY_FINALIZED).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"checklist": child})
}

// POST /api/checklists/:id/review (validated)
// Veredito do revisor no nível do checklist: PENDING_REVIEW -> APPROVED|REJECTED.
// O status do checklist nunca é derivado do agregado das respostas; só muda
// por chamadas explícitas como esta.
func ReviewChecklist(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req ChecklistReviewRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Verdict != models.CHECKLIST_STATUS_APPROVED && req.Verdict != models.CHECKLIST_STATUS_REJECTED {
		RespondError(c, "verdict deve ser approved ou rejected", http.StatusBadRequest)
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
	if cl.Status != models.CHECKLIST_STATUS_PENDING_REVIEW {
		RespondError(c, "checklist não está pendente de revisão", http.StatusBadRequest)
		return
	}

	oldStatus := cl.Status
	cl.Status = req.Verdict
	if err := db.Save(&cl).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	writeAuditLog(db, models.AuditLog{
		UserID:      user.ID,
		ChecklistID: cl.ID,
		Action:      models.AUDIT_ACTION_CHECKLIST_REVIEWED,
		OldStatus:   oldStatus,
		NewStatus:   cl.Status,
	})

	RespondSuccess(c, gin.H{"checklist": cl})
}

// POST /api/checklists/:id/finalize (validated)
// Fecha o checklist. Se for filho (correção/complementação), as respostas
// aprovadas/rejeitadas são sincronizadas de volta no pai, na mesma transação.
func FinalizeChecklist(c *gin.Context) {
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
	if cl.Status == models.CHECKLIST_STATUS_FINALIZED {
		RespondError(c, "checklist já finalizado", http.StatusBadRequest)
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		RespondError(c, tx.Error.Error(), http.StatusInternalServerError)
		return
	}

	synced := 0
	if cl.ParentID > 0 &&
		(cl.Type == models.CHECKLIST_TYPE_CORRECTION || cl.Type == models.CHECKLIST_TYPE_COMPLETION) {
		n, err := SyncChildIntoParent(tx, cl)
		if err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		synced = n
	}

	now := time.Now()
	oldStatus := cl.Status
	cl.Status = models.CHECKLIST_STATUS_FINALIZED
	cl.FinalizedAt = &now
	if err := tx.Save(&cl).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if err := tx.Commit().Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	writeAuditLog(db, models.AuditLog{
		UserID:      user.ID,
		ChecklistID: cl.ID,
		Action:      models.AUDIT_ACTION_CHECKLIST_FINALIZED,
		OldStatus:   oldStatus,
		NewStatus:   cl.Status,
	})
	if synced > 0 {
		writeAuditLog(db, models.AuditLog{
			UserID:      user.ID,
			ChecklistID: cl.ParentID,
			Action:      models.AUDIT_ACTION_PARENT_SYNC,
			Detail:      "respostas sincronizadas do checklist filho",
		})
	}

	RespondSuccess(c, gin.H{"checklist": cl, "synced_responses": synced})
}
