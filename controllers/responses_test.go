package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"safra/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateResponse_ApproveClearsRejectionAndStampsReview(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PENDING_REVIEW)

	resp := models.Response{
		ChecklistID:     fix.Checklist.ID,
		ItemID:          fix.ItemText.ID,
		Answer:          "segue anexo",
		Status:          models.RESPONSE_STATUS_REJECTED,
		RejectionReason: "faltou assinatura",
	}
	require.NoError(t, conn.Create(&resp).Error)

	r := newTestRouter(conn, &fix.User)
	r.PUT("/api/checklists/:id/responses", UpdateResponse)

	w := doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/api/checklists/%d/responses", fix.Checklist.ID),
		ResponseReviewRequest{
			ItemID: fix.ItemText.ID,
			Status: models.RESPONSE_STATUS_APPROVED,
		})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Response
	require.NoError(t, conn.First(&got, resp.ID).Error)
	assert.Equal(t, models.RESPONSE_STATUS_APPROVED, got.Status)
	assert.Empty(t, got.RejectionReason)
	require.NotNil(t, got.ReviewedAt)
}

func TestUpdateResponse_RejectStoresReason(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PENDING_REVIEW)

	resp := models.Response{
		ChecklistID: fix.Checklist.ID,
		ItemID:      fix.ItemText.ID,
		Answer:      "foto borrada",
		Status:      models.RESPONSE_STATUS_PENDING_VERIFICATION,
	}
	require.NoError(t, conn.Create(&resp).Error)

	r := newTestRouter(conn, &fix.User)
	r.PUT("/api/checklists/:id/responses", UpdateResponse)

	w := doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/api/checklists/%d/responses", fix.Checklist.ID),
		ResponseReviewRequest{
			ItemID:          fix.ItemText.ID,
			Status:          models.RESPONSE_STATUS_REJECTED,
			RejectionReason: "imagem ilegível, reenviar",
		})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Response
	require.NoError(t, conn.First(&got, resp.ID).Error)
	assert.Equal(t, models.RESPONSE_STATUS_REJECTED, got.Status)
	assert.Equal(t, "imagem ilegível, reenviar", got.RejectionReason)
	require.NotNil(t, got.ReviewedAt)
}

func TestUpdateResponse_InvalidStatusIsBadRequest(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PENDING_REVIEW)

	r := newTestRouter(conn, &fix.User)
	r.PUT("/api/checklists/:id/responses", UpdateResponse)

	w := doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/api/checklists/%d/responses", fix.Checklist.ID),
		ResponseReviewRequest{
			ItemID: fix.ItemText.ID,
			Status: "maybe",
		})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status inválido", errBody(t, w))
}

func TestUpdateResponse_InternalFillDefaultsToPending(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PENDING_REVIEW)

	r := newTestRouter(conn, &fix.User)
	r.PUT("/api/checklists/:id/responses", UpdateResponse)

	w := doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/api/checklists/%d/responses", fix.Checklist.ID),
		ResponseReviewRequest{
			ItemID:       fix.ItemText.ID,
			InternalFill: true,
			Answer:       "preenchido no escritório",
		})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Response
	require.NoError(t, conn.Where("checklist_id = ? AND item_id = ?",
		fix.Checklist.ID, fix.ItemText.ID).First(&got).Error)
	assert.Equal(t, models.RESPONSE_STATUS_PENDING_VERIFICATION, got.Status)
	assert.True(t, got.IsInternal)
	assert.Equal(t, "preenchido no escritório", got.Answer)
}

func TestUpdateResponse_ApproveSetsValidUntilWhenControlled(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PENDING_REVIEW)

	require.NoError(t, conn.Model(&models.Item{}).
		Where("id = ?", fix.ItemText.ID).
		Update("validity_control", 30).Error)

	resp := models.Response{
		ChecklistID: fix.Checklist.ID,
		ItemID:      fix.ItemText.ID,
		Answer:      "licença 2026",
		Status:      models.RESPONSE_STATUS_PENDING_VERIFICATION,
	}
	require.NoError(t, conn.Create(&resp).Error)

	r := newTestRouter(conn, &fix.User)
	r.PUT("/api/checklists/:id/responses", UpdateResponse)

	w := doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/api/checklists/%d/responses", fix.Checklist.ID),
		ResponseReviewRequest{
			ItemID: fix.ItemText.ID,
			Status: models.RESPONSE_STATUS_APPROVED,
		})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Response
	require.NoError(t, conn.First(&got, resp.ID).Error)
	require.NotNil(t, got.ValidUntil)
	assert.True(t, got.ValidUntil.After(*got.ReviewedAt))
}

func TestUpdateResponse_WritesAuditLog(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PENDING_REVIEW)

	resp := models.Response{
		ChecklistID: fix.Checklist.ID,
		ItemID:      fix.ItemText.ID,
		Answer:      "ok",
		Status:      models.RESPONSE_STATUS_PENDING_VERIFICATION,
	}
	require.NoError(t, conn.Create(&resp).Error)

	r := newTestRouter(conn, &fix.User)
	r.PUT("/api/checklists/:id/responses", UpdateResponse)

	w := doJSON(t, r, http.MethodPut,
		fmt.Sprintf("/api/checklists/%d/responses", fix.Checklist.ID),
		ResponseReviewRequest{
			ItemID: fix.ItemText.ID,
			Status: models.RESPONSE_STATUS_APPROVED,
		})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var entry models.AuditLog
	require.NoError(t, conn.Where("checklist_id = ? AND action = ?",
		fix.Checklist.ID, models.AUDIT_ACTION_RESPONSE_REVIEWED).First(&entry).Error)
	assert.Equal(t, fix.User.ID, entry.UserID)
	assert.Equal(t, models.RESPONSE_STATUS_PENDING_VERIFICATION, entry.OldStatus)
	assert.Equal(t, models.RESPONSE_STATUS_APPROVED, entry.NewStatus)
}
