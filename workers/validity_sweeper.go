package workers

import (
	"log"
	"time"

	"safra/models"

	"github.com/jinzhu/gorm"
	"github.com/robfig/cron/v3"
)

// StartValiditySweeper agenda a varredura diária de validade: resposta
// aprovada com valid_until vencido vira MISSING, pro próximo ciclo de
// complementação recolher de novo.
func StartValiditySweeper(db *gorm.DB) *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc("0 3 * * *", func() { SweepExpiredResponses(db) }); err != nil {
		log.Printf("validity sweeper: schedule error: %v", err)
		return c
	}
	c.Start()
	return c
}

func SweepExpiredResponses(db *gorm.DB) {
	now := time.Now()

	var expired []models.Response
	if err := db.
		Where("status = ?", models.RESPONSE_STATUS_APPROVED).
		Where("valid_until IS NOT NULL AND valid_until < ?", now).
		Find(&expired).Error; err != nil {
		log.Printf("validity sweeper: query error: %v", err)
		return
	}

	for _, resp := range expired {
		res := db.Model(&models.Response{}).
			Where("id = ? AND status = ?", resp.ID, models.RESPONSE_STATUS_APPROVED).
			Updates(map[string]any{
				"status":      models.RESPONSE_STATUS_MISSING,
				"valid_until": nil,
			})
		if res.Error != nil || res.RowsAffected == 0 {
			continue
		}

		audit := models.AuditLog{
			ChecklistID: resp.ChecklistID,
			ItemID:      resp.ItemID,
			FieldID:     resp.FieldID,
			Action:      models.AUDIT_ACTION_RESPONSE_EXPIRED,
			OldStatus:   models.RESPONSE_STATUS_APPROVED,
			NewStatus:   models.RESPONSE_STATUS_MISSING,
			Detail:      "validade da resposta expirou",
		}
		if err := db.Create(&audit).Error; err != nil {
			log.Printf("validity sweeper: audit write failed (response=%d): %v", resp.ID, err)
		}
	}

	if len(expired) > 0 {
		log.Printf("validity sweeper: %d respostas expiradas", len(expired))
	}
}
