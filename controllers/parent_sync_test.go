package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"safra/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncChildIntoParent_OnlyFinalizedStatusesAreCopied(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PARTIALLY_FINALIZED)

	child := models.Checklist{
		WorkspaceID: fix.Workspace.ID,
		TemplateID:  fix.Template.ID,
		ProducerID:  fix.Producer.ID,
		Status:      models.CHECKLIST_STATUS_PENDING_REVIEW,
		Type:        models.CHECKLIST_TYPE_CORRECTION,
		ParentID:    fix.Checklist.ID,
		PublicToken: "token-filho-sync",
	}
	require.NoError(t, conn.Create(&child).Error)

	// aprovada, rejeitada e pendente no filho
	statuses := []struct {
		itemID int64
		status string
	}{
		{fix.ItemText.ID, models.RESPONSE_STATUS_APPROVED},
		{fix.ItemMap.ID, models.RESPONSE_STATUS_REJECTED},
	}
	for _, s := range statuses {
		require.NoError(t, conn.Create(&models.Response{
			ChecklistID: child.ID,
			ItemID:      s.itemID,
			Answer:      "resposta do filho",
			Status:      s.status,
		}).Error)
	}
	pendingItem := models.Item{SectionID: fix.Section.ID, Label: "Nota fiscal", Type: models.ITEM_TYPE_FILE}
	require.NoError(t, conn.Create(&pendingItem).Error)
	require.NoError(t, conn.Create(&models.Response{
		ChecklistID: child.ID,
		ItemID:      pendingItem.ID,
		Answer:      "ainda pendente",
		Status:      models.RESPONSE_STATUS_PENDING_VERIFICATION,
	}).Error)

	n, err := SyncChildIntoParent(conn, child)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// só approved/rejected chegaram no pai
	assert.Equal(t, 2, countResponses(t, conn, fix.Checklist.ID))

	var pendingOnParent models.Response
	err = conn.Where("checklist_id = ? AND item_id = ?",
		fix.Checklist.ID, pendingItem.ID).First(&pendingOnParent).Error
	assert.Error(t, err)
}

func TestSyncChildIntoParent_OverwritesParentValue(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PARTIALLY_FINALIZED)

	parentResp := models.Response{
		ChecklistID:     fix.Checklist.ID,
		ItemID:          fix.ItemText.ID,
		Answer:          "resposta antiga",
		Status:          models.RESPONSE_STATUS_REJECTED,
		RejectionReason: "vencida",
	}
	require.NoError(t, conn.Create(&parentResp).Error)

	child := models.Checklist{
		WorkspaceID: fix.Workspace.ID,
		TemplateID:  fix.Template.ID,
		ProducerID:  fix.Producer.ID,
		Status:      models.CHECKLIST_STATUS_PENDING_REVIEW,
		Type:        models.CHECKLIST_TYPE_CORRECTION,
		ParentID:    fix.Checklist.ID,
		PublicToken: "token-filho-overwrite",
	}
	require.NoError(t, conn.Create(&child).Error)
	require.NoError(t, conn.Create(&models.Response{
		ChecklistID: child.ID,
		ItemID:      fix.ItemText.ID,
		Answer:      "resposta corrigida",
		Status:      models.RESPONSE_STATUS_APPROVED,
	}).Error)

	n, err := SyncChildIntoParent(conn, child)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got models.Response
	require.NoError(t, conn.First(&got, parentResp.ID).Error)
	assert.Equal(t, "resposta corrigida", got.Answer)
	assert.Equal(t, models.RESPONSE_STATUS_APPROVED, got.Status)
	assert.Empty(t, got.RejectionReason)
	assert.Equal(t, 1, countResponses(t, conn, fix.Checklist.ID))
}

func TestSyncChildIntoParent_ChecklistWithoutParentFails(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PENDING_REVIEW)

	_, err := SyncChildIntoParent(conn, fix.Checklist)
	assert.Error(t, err)
}

func TestFinalizeChecklist_ChildTriggersParentSync(t *testing.T) {
	conn := newTestDB(t)
	fix := seedChecklist(t, conn, models.CHECKLIST_STATUS_PARTIALLY_FINALIZED)

	child := models.Checklist{
		WorkspaceID: fix.Workspace.ID,
		TemplateID:  fix.Template.ID,
		ProducerID:  fix.Producer.ID,
		Status:      models.CHECKLIST_STATUS_APPROVED,
		Type:        models.CHECKLIST_TYPE_CORRECTION,
		ParentID:    fix.Checklist.ID,
		PublicToken: "token-filho-finalize",
	}
	require.NoError(t, conn.Create(&child).Error)
	require.NoError(t, conn.Create(&models.Response{
		ChecklistID: child.ID,
		ItemID:      fix.ItemText.ID,
		Answer:      "corrigido",
		Status:      models.RESPONSE_STATUS_APPROVED,
	}).Error)

	r := newTestRouter(conn, &fix.User)
	r.POST("/api/checklists/:id/finalize", FinalizeChecklist)

	w := doJSON(t, r, http.MethodPost,
		fmt.Sprintf("/api/checklists/%d/finalize", child.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var gotChild models.Checklist
	require.NoError(t, conn.First(&gotChild, child.ID).Error)
	assert.Equal(t, models.CHECKLIST_STATUS_FINALIZED, gotChild.Status)
	require.NotNil(t, gotChild.FinalizedAt)

	assert.Equal(t, 1, countResponses(t, conn, fix.Checklist.ID))
	var synced models.Response
	require.NoError(t, conn.Where("checklist_id = ? AND item_id = ?",
		fix.Checklist.ID, fix.ItemText.ID).First(&synced).Error)
	assert.Equal(t, "corrigido", synced.Answer)
}
