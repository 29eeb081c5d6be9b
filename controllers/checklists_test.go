package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"safra/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateChecklist_StartsDraftWithToken(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_DRAFT)

	r := newTestRouter(conn, &fix.User)
	r.POST("/api/checklists", CreateChecklist)

	w := doJSON(t, r, http.MethodPost, "/api/checklists", ChecklistRequest{
		TemplateID: fix.Template.ID,
		ProducerID: fix.Producer.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cl models.Checklist
	require.NoError(t, conn.Where("template_id = ? AND id <> ?",
		fix.Template.ID, fix.Checklist.ID).First(&cl).Error)
	assert.Equal(t, models.CHECKLIST_STATUS_DRAFT, cl.Status)
	assert.Equal(t, models.CHECKLIST_TYPE_ORIGINAL, cl.Type)
	assert.NotEmpty(t, cl.PublicToken)
}

func TestCreateChecklist_ProducerOutsideWorkspaceIs404(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_DRAFT)

	stranger := models.Producer{Name: "Outro", CPF: "11144477735", Phone: "11911112222"}
	require.NoError(t, conn.Create(&stranger).Error)

	r := newTestRouter(conn, &fix.User)
	r.POST("/api/checklists", CreateChecklist)

	w := doJSON(t, r, http.MethodPost, "/api/checklists", ChecklistRequest{
		TemplateID: fix.Template.ID,
		ProducerID: stranger.ID,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateChildChecklist_SeedsRejectedRowsAndParksParent(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_REJECTED)

	require.NoError(t, conn.Create(&models.Response{
		ChecklistID:     fix.Checklist.ID,
		ItemID:          fix.ItemText.ID,
		Answer:          "documento velho",
		Status:          models.RESPONSE_STATUS_REJECTED,
		RejectionReason: "vencido",
	}).Error)
	require.NoError(t, conn.Create(&models.Response{
		ChecklistID: fix.Checklist.ID,
		ItemID:      fix.ItemMap.ID,
		Answer:      "ok",
		Status:      models.RESPONSE_STATUS_APPROVED,
	}).Error)
	require.NoError(t, conn.Create(&models.ScopeQuestion{
		TemplateID: fix.Template.ID, Label: "Propriedade própria?",
	}).Error)
	var q models.ScopeQuestion
	require.NoError(t, conn.Where("template_id = ?", fix.Template.ID).First(&q).Error)
	require.NoError(t, conn.Create(&models.ScopeAnswer{
		ChecklistID: fix.Checklist.ID, ScopeQuestionID: q.ID, Answer: "sim",
	}).Error)

	r := newTestRouter(conn, &fix.User)
	r.POST("/api/checklists/:id/children", CreateChildChecklist)

	w := doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/checklists/%d/children", fix.Checklist.ID),
		ChildChecklistRequest{Type: models.CHECKLIST_TYPE_CORRECTION})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var child models.Checklist
	require.NoError(t, conn.Where("parent_id = ?", fix.Checklist.ID).First(&child).Error)
	assert.Equal(t, models.CHECKLIST_TYPE_CORRECTION, child.Type)
	assert.NotEqual(t, fix.Checklist.PublicToken, child.PublicToken)

	// só a linha rejeitada virou semente
	assert.Equal(t, 1, countResponses(t, conn, child.ID))
	var seed models.Response
	require.NoError(t, conn.Where("checklist_id = ?", child.ID).First(&seed).Error)
	assert.Equal(t, fix.ItemText.ID, seed.ItemID)
	assert.Equal(t, models.RESPONSE_STATUS_REJECTED, seed.Status)
	assert.Equal(t, "vencido", seed.RejectionReason)

	// escopo herdado
	var sa models.ScopeAnswer
	require.NoError(t, conn.Where("checklist_id = ?", child.ID).First(&sa).Error)
	assert.Equal(t, "sim", sa.Answer)

	// pai estacionado em partially_finalized
	var parent models.Checklist
	require.NoError(t, conn.First(&parent, fix.Checklist.ID).Error)
	assert.Equal(t, models.CHECKLIST_STATUS_PARTIALLY_FINALIZED, parent.Status)
}

func TestCreateChildChecklist_ChildOfChildIsRejected(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_REJECTED)

	child := models.Checklist{
		WorkspaceID: fix.Workspace.ID,
		TemplateID:  fix.Template.ID,
		ProducerID:  fix.Producer.ID,
		Status:      models.CHECKLIST_STATUS_REJECTED,
		Type:        models.CHECKLIST_TYPE_CORRECTION,
		ParentID:    fix.Checklist.ID,
		PublicToken: "token-neto",
	}
	require.NoError(t, conn.Create(&child).Error)

	r := newTestRouter(conn, &fix.User)
	r.POST("/api/checklists/:id/children", CreateChildChecklist)

	w := doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/checklists/%d/children", child.ID),
		ChildChecklistRequest{Type: models.CHECKLIST_TYPE_CORRECTION})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewChecklist_OnlyFromPendingReview(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PENDING_REVIEW)

	r := newTestRouter(conn, &fix.User)
	r.POST("/api/checklists/:id/review", ReviewChecklist)

	w := doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/checklists/%d/review", fix.Checklist.ID),
		ChecklistReviewRequest{Verdict: models.CHECKLIST_STATUS_APPROVED})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cl models.Checklist
	require.NoError(t, conn.First(&cl, fix.Checklist.ID).Error)
	assert.Equal(t, models.CHECKLIST_STATUS_APPROVED, cl.Status)

	// segunda revisão não passa: status já saiu de pending_review
	w = doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/checklists/%d/review", fix.Checklist.ID),
		ChecklistReviewRequest{Verdict: models.CHECKLIST_STATUS_REJECTED})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewChecklist_InvalidVerdict(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PENDING_REVIEW)

	r := newTestRouter(conn, &fix.User)
	r.POST("/api/checklists/:id/review", ReviewChecklist)

	w := doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/checklists/%d/review", fix.Checklist.ID),
		ChecklistReviewRequest{Verdict: "talvez"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetChecklistByID_PresignFailureKeepsRawKey(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PENDING_REVIEW)

	t.Setenv("STORAGE_ENDPOINT", "")
	t.Setenv("STORAGE_BUCKET", "")
	t.Setenv("STORAGE_ACCESS_KEY", "")
	t.Setenv("STORAGE_SECRET_KEY", "")

	key := "checklist/1/_root/1/1/0/123_car.pdf"
	require.NoError(t, conn.Create(&models.Response{
		ChecklistID: fix.Checklist.ID,
		ItemID:      fix.ItemText.ID,
		Answer:      "segue anexo",
		FileURL:     key,
		Status:      models.RESPONSE_STATUS_PENDING_VERIFICATION,
	}).Error)

	r := newTestRouter(conn, &fix.User)
	r.GET("/api/checklists/:id", GetChecklistByID)

	// storage sem configuração não pode derrubar a consulta
	w := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/checklists/%d", fix.Checklist.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), key)
}

func TestChecklistVisibility_OtherWorkspaceIsForbidden(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PENDING_REVIEW)

	otherWs := models.Workspace{Name: "Outro grupo"}
	require.NoError(t, conn.Create(&otherWs).Error)
	intruder := models.User{
		Name: "Intruso", Email: "intruso@safra.test", Password: "x",
		WorkspaceID: otherWs.ID, Status: models.USER_STATUS_AVAILABLE,
	}
	require.NoError(t, conn.Create(&intruder).Error)

	r := newTestRouter(conn, &intruder)
	r.GET("/api/checklists/:id", GetChecklistByID)

	w := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/checklists/%d", fix.Checklist.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestChecklistVisibility_ParentWorkspaceSeesSubWorkspace(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PENDING_REVIEW)

	sub := models.Workspace{Name: "Filial Sul", ParentID: fix.Workspace.ID}
	require.NoError(t, conn.Create(&sub).Error)

	subChecklist := models.Checklist{
		WorkspaceID: sub.ID,
		TemplateID:  fix.Template.ID,
		ProducerID:  fix.Producer.ID,
		Status:      models.CHECKLIST_STATUS_PENDING_REVIEW,
		Type:        models.CHECKLIST_TYPE_ORIGINAL,
		PublicToken: "token-filial",
	}
	require.NoError(t, conn.Create(&subChecklist).Error)

	r := newTestRouter(conn, &fix.User)
	r.GET("/api/checklists/:id", GetChecklistByID)

	w := doJSON(t, r, http.MethodGet,
		fmt.Sprintf("/api/checklists/%d", subChecklist.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
