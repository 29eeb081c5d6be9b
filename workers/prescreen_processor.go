package workers

import (
	"context"
	"log"
	"time"

	"safra/models"
	"safra/tools"

	"github.com/jinzhu/gorm"
)

// StartPrescreenProcessor starts a loop that pre-screens queued responses
// with the AI classifier.
func StartPrescreenProcessor(db *gorm.DB) {
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			processQueuedResponses(db)
		}
	}()
}

func processQueuedResponses(db *gorm.DB) {
	var responses []models.Response
	if err := db.
		Where("prescreen_status = ?", models.PRESCREEN_STATUS_QUEUED).
		Order("id asc").
		Limit(20).
		Find(&responses).Error; err != nil {
		log.Printf("prescreen worker: query error: %v", err)
		return
	}

	for _, resp := range responses {
		// lock otimista: só processa se conseguir mudar o prescreen_status
		res := db.Model(&models.Response{}).
			Where("id = ? AND prescreen_status = ?", resp.ID, models.PRESCREEN_STATUS_QUEUED).
			Update("prescreen_status", models.PRESCREEN_STATUS_DONE)
		if res.Error != nil || res.RowsAffected == 0 {
			continue
		}

		go prescreenResponse(db, resp.ID)
	}
}

func prescreenResponse(db *gorm.DB, responseID int64) {
	var resp models.Response
	if err := db.First(&resp, responseID).Error; err != nil {
		return
	}
	// o revisor pode ter decidido enquanto a linha esperava na fila
	if resp.Status != models.RESPONSE_STATUS_PENDING_VERIFICATION {
		return
	}

	var item models.Item
	if err := db.First(&item, resp.ItemID).Error; err != nil {
		log.Printf("prescreen worker: item %d not found: %v", resp.ItemID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	verdict, err := tools.PrescreenResponse(ctx, item.Label, resp.Answer)
	if err != nil {
		// sem retry: fica sem veredito e segue pra revisão humana
		log.Printf("prescreen worker: openai error (response=%d): %v", resp.ID, err)
		return
	}

	updates := map[string]any{
		"prescreen_verdict": verdict,
	}
	// approve/reject viram status da resposta; reviewed_at fica nulo porque
	// a revisão humana no nível do checklist ainda vai acontecer
	switch verdict {
	case tools.PRESCREEN_VERDICT_APPROVED:
		updates["status"] = models.RESPONSE_STATUS_APPROVED
	case tools.PRESCREEN_VERDICT_REJECTED:
		updates["status"] = models.RESPONSE_STATUS_REJECTED
		updates["rejection_reason"] = "reprovado na pré-triagem automática"
	}

	if err := db.Model(&models.Response{}).
		Where("id = ? AND status = ?", resp.ID, models.RESPONSE_STATUS_PENDING_VERIFICATION).
		Updates(updates).Error; err != nil {
		log.Printf("prescreen worker: update error (response=%d): %v", resp.ID, err)
	}
}
