package returns

import (
	"fmt"

	"matdepot/internal/repository"
	"matdepot/internal/sequence"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

type ReturnRepository interface {
	Insert(tx *goqu.TxDatabase, ret *models.Return) error
	GetReturn(id int) (*models.Return, error)
	GetReturnForUpdate(tx *goqu.TxDatabase, id int) (*models.Return, error)
	UpdateStatus(tx *goqu.TxDatabase, id int, from, to models.ReturnStatus, approvedByID *int) (bool, error)
}

type StockLedger interface {
	IncreaseStock(tx *goqu.TxDatabase, productID, quantity int) error
}

type MaterialCounter interface {
	DecreaseClaimedClamped(tx *goqu.TxDatabase, projectID, productID, quantity int) (int, bool, error)
}

type AuditRecorder interface {
	Record(tx *goqu.TxDatabase, actor models.Actor, action, resourceType string, resourceID int, description string, photoURL *string, data map[string]interface{}) error
}

type ReturnService struct {
	tx        repository.TxRunner
	returns   ReturnRepository
	ledger    StockLedger
	materials MaterialCounter
	audit     AuditRecorder
	numbers   sequence.NumberGenerator
	log       *zap.Logger
}

func NewService(tx repository.TxRunner, returns ReturnRepository, ledger StockLedger, materials MaterialCounter, audit AuditRecorder, numbers sequence.NumberGenerator, log *zap.Logger) *ReturnService {
	return &ReturnService{
		tx:        tx,
		returns:   returns,
		ledger:    ledger,
		materials: materials,
		audit:     audit,
		numbers:   numbers,
		log:       log,
	}
}

type SubmitReturnItem struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

type SubmitReturnRequest struct {
	ProjectID int                `json:"project_id" binding:"required"`
	ClaimID   *int               `json:"claim_id"`
	Notes     string             `json:"notes"`
	Items     []SubmitReturnItem `json:"items"`
}

func (s *ReturnService) Submit(actor models.Actor, req SubmitReturnRequest) (*models.Return, error) {
	if len(req.Items) == 0 {
		return nil, custom_error.NewValidation("items", "return requires at least one item")
	}
	for _, item := range req.Items {
		if item.ProductID <= 0 {
			return nil, custom_error.NewValidation("items", "item requires a valid product reference")
		}
		if item.Quantity < 1 {
			return nil, custom_error.NewValidation("items", "item quantity must be at least 1")
		}
	}

	number, err := s.numbers.Next(sequence.KindReturn)
	if err != nil {
		return nil, fmt.Errorf("failed to generate return number: %w", err)
	}

	ret := &models.Return{
		ReturnNumber:  number,
		ProjectID:     req.ProjectID,
		ClaimID:       req.ClaimID,
		Status:        models.ReturnStatusPending,
		RequestedByID: actor.ID,
		Notes:         req.Notes,
	}
	for _, item := range req.Items {
		ret.Items = append(ret.Items, models.ReturnItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	err = s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.returns.Insert(tx, ret); err != nil {
			return err
		}

		return s.audit.Record(tx, actor, models.ActionReturnSubmitted, "return", ret.ID,
			fmt.Sprintf("Return %s submitted for project %d", ret.ReturnNumber, ret.ProjectID),
			nil,
			map[string]interface{}{
				"project_id": ret.ProjectID,
				"claim_id":   ret.ClaimID,
				"item_count": len(ret.Items),
			})
	})
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// Approve inverts a claim: stock goes back up and the project claimed
// counters roll down, clamped at zero. Clamping is logged and surfaced as a
// warning, never swallowed.
func (s *ReturnService) Approve(returnID int, actor models.Actor) (*models.Return, []models.Warning, error) {
	var ret *models.Return
	var warnings []models.Warning

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		ret, err = s.returns.GetReturnForUpdate(tx, returnID)
		if err != nil {
			return err
		}

		approvedBy := actor.ID
		updated, err := s.returns.UpdateStatus(tx, returnID, models.ReturnStatusPending, models.ReturnStatusApproved, &approvedBy)
		if err != nil {
			return err
		}
		if !updated {
			return custom_error.NewInvalidTransition("return", returnID, string(ret.Status))
		}

		for _, item := range ret.Items {
			if err := s.ledger.IncreaseStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}

			clamped, found, err := s.materials.DecreaseClaimedClamped(tx, ret.ProjectID, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !found {
				warnings = append(warnings, models.Warning{
					Code:      models.WarningBOMDrift,
					Message:   fmt.Sprintf("no project material row for product %d in project %d", item.ProductID, ret.ProjectID),
					ProductID: item.ProductID,
				})
				continue
			}
			if clamped > 0 {
				s.log.Warn("return clamped claimed quantity at zero",
					zap.Int("return_id", returnID),
					zap.Int("product_id", item.ProductID),
					zap.Int("clamped_units", clamped),
				)
				warnings = append(warnings, models.Warning{
					Code:      models.WarningClaimedClamped,
					Message:   fmt.Sprintf("claimed counter for product %d clamped at 0 (%d units over)", item.ProductID, clamped),
					ProductID: item.ProductID,
				})
			}
		}

		return s.audit.Record(tx, actor, models.ActionReturnApproved, "return", returnID,
			fmt.Sprintf("Return %s approved", ret.ReturnNumber),
			nil,
			map[string]interface{}{
				"project_id": ret.ProjectID,
				"item_count": len(ret.Items),
				"warnings":   warnings,
			})
	})
	if err != nil {
		return nil, nil, err
	}

	ret.Status = models.ReturnStatusApproved
	return ret, warnings, nil
}
