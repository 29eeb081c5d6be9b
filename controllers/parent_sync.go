package controllers

import (
	"fmt"

	"safra/models"

	"github.com/jinzhu/gorm"
)

// SyncChildIntoParent copia as respostas finalizadas de um checklist filho
// (correção/complementação) pro conjunto de respostas do pai, chaveado por
// (parent_id, item_id, field_id). Regras:
//   - só respostas APPROVED ou REJECTED entram; PENDING_VERIFICATION e MISSING
//     do filho nunca alteram o pai
//   - last write wins: o valor anterior do pai pra aquele item é sobrescrito
//
// Roda dentro da transação do finalize. Devolve quantas linhas sincronizou.
func SyncChildIntoParent(tx *gorm.DB, child models.Checklist) (int, error) {
	if child.ParentID <= 0 {
		return 0, fmt.Errorf("checklist %d não tem pai", child.ID)
	}

	var parent models.Checklist
	if err := tx.First(&parent, child.ParentID).Error; err != nil {
		return 0, fmt.Errorf("checklist pai %d não encontrado", child.ParentID)
	}

	var finalized []models.Response
	if err := tx.Where("checklist_id = ? AND status IN (?)", child.ID,
		[]string{models.RESPONSE_STATUS_APPROVED, models.RESPONSE_STATUS_REJECTED}).
		Order("item_id asc, field_id asc").
		Find(&finalized).Error; err != nil {
		return 0, err
	}

	synced := 0
	for _, src := range finalized {
		var dst models.Response
		err := tx.Where("checklist_id = ? AND item_id = ? AND field_id = ?",
			parent.ID, src.ItemID, src.FieldID).First(&dst).Error

		if err != nil {
			dst = models.Response{
				ChecklistID: parent.ID,
				ItemID:      src.ItemID,
				FieldID:     src.FieldID,
			}
		}

		dst.Answer = src.Answer
		dst.Quantity = src.Quantity
		dst.Observation = src.Observation
		dst.FileURL = src.FileURL
		dst.AreaHectares = src.AreaHectares
		dst.Status = src.Status
		dst.RejectionReason = src.RejectionReason
		dst.ReviewedAt = src.ReviewedAt
		dst.IsInternal = src.IsInternal
		dst.ValidUntil = src.ValidUntil

		if dst.ID == 0 {
			if err := tx.Create(&dst).Error; err != nil {
				return synced, err
			}
		} else {
			if err := tx.Save(&dst).Error; err != nil {
				return synced, err
			}
		}
		synced++
	}

	return synced, nil
}
