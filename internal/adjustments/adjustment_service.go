package adjustments

import (
	"fmt"

	"matdepot/internal/repository"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var validReasons = map[string]bool{
	models.AdjustmentReasonDamage:     true,
	models.AdjustmentReasonLoss:       true,
	models.AdjustmentReasonTheft:      true,
	models.AdjustmentReasonExpiry:     true,
	models.AdjustmentReasonFoundStock: true,
	models.AdjustmentReasonCorrection: true,
}

type AdjustmentRepository interface {
	Insert(tx *goqu.TxDatabase, adjustment *models.StockAdjustment) error
}

type StockLedger interface {
	ApplyDelta(tx *goqu.TxDatabase, productID, delta int) (int, error)
}

type AuditRecorder interface {
	Record(tx *goqu.TxDatabase, actor models.Actor, action, resourceType string, resourceID int, description string, photoURL *string, data map[string]interface{}) error
}

type AdjustmentService struct {
	tx          repository.TxRunner
	adjustments AdjustmentRepository
	ledger      StockLedger
	audit       AuditRecorder
}

func NewService(tx repository.TxRunner, adjustments AdjustmentRepository, ledger StockLedger, audit AuditRecorder) *AdjustmentService {
	return &AdjustmentService{
		tx:          tx,
		adjustments: adjustments,
		ledger:      ledger,
		audit:       audit,
	}
}

type RecordAdjustmentRequest struct {
	ProductID      int    `json:"product_id" binding:"required"`
	QuantityChange int    `json:"quantity_change"`
	Reason         string `json:"reason" binding:"required"`
}

// Record writes the adjustment row and applies its delta to stock in one
// transaction. The adjustment history is append-only.
func (s *AdjustmentService) Record(actor models.Actor, req RecordAdjustmentRequest) (*models.StockAdjustment, []models.Warning, error) {
	if req.QuantityChange == 0 {
		return nil, nil, custom_error.NewValidation("quantity_change", "adjustment delta must not be zero")
	}
	if !validReasons[req.Reason] {
		return nil, nil, custom_error.NewValidation("reason", fmt.Sprintf("unknown adjustment reason %q", req.Reason))
	}

	adjustment := &models.StockAdjustment{
		ProductID:      req.ProductID,
		QuantityChange: req.QuantityChange,
		Reason:         req.Reason,
		AdminID:        actor.ID,
		AdminName:      actor.Username,
	}

	var warnings []models.Warning

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		newLevel, err := s.ledger.ApplyDelta(tx, req.ProductID, req.QuantityChange)
		if err != nil {
			return err
		}
		if newLevel < 0 {
			warnings = append(warnings, models.Warning{
				Code:      models.WarningStockShortfall,
				Message:   fmt.Sprintf("stock level for product %d is %d after adjustment", req.ProductID, newLevel),
				ProductID: req.ProductID,
			})
		}

		if err := s.adjustments.Insert(tx, adjustment); err != nil {
			return err
		}

		return s.audit.Record(tx, actor, models.ActionStockAdjusted, "inventory_item", req.ProductID,
			fmt.Sprintf("Stock adjusted by %d (%s)", req.QuantityChange, req.Reason),
			nil,
			map[string]interface{}{
				"adjustment_id":   adjustment.ID,
				"quantity_change": req.QuantityChange,
				"reason":          req.Reason,
				"new_level":       newLevel,
			})
	})
	if err != nil {
		return nil, nil, err
	}

	return adjustment, warnings, nil
}
