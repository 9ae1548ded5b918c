package purchaseorders

import (
	"fmt"

	"matdepot/internal/repository"
	"matdepot/internal/sequence"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type PORepository interface {
	Insert(tx *goqu.TxDatabase, po *models.PurchaseOrder) error
	GetPurchaseOrder(id int) (*models.PurchaseOrder, error)
	GetForUpdate(tx *goqu.TxDatabase, id int) (*models.PurchaseOrder, error)
	IncreaseReceived(tx *goqu.TxDatabase, itemID, quantity int) (int, error)
	SetReceivedTo(tx *goqu.TxDatabase, itemID, quantity int) error
	UpdateStatus(tx *goqu.TxDatabase, id int, from, to models.POStatus) (bool, error)
	SetStatus(tx *goqu.TxDatabase, id int, to models.POStatus) error
}

type StockLedger interface {
	IncreaseStock(tx *goqu.TxDatabase, productID, quantity int) error
	DecreaseStock(tx *goqu.TxDatabase, productID, quantity int) (int, error)
}

type AuditRecorder interface {
	Record(tx *goqu.TxDatabase, actor models.Actor, action, resourceType string, resourceID int, description string, photoURL *string, data map[string]interface{}) error
}

type POService struct {
	tx      repository.TxRunner
	pos     PORepository
	ledger  StockLedger
	audit   AuditRecorder
	numbers sequence.NumberGenerator
}

func NewService(tx repository.TxRunner, pos PORepository, ledger StockLedger, audit AuditRecorder, numbers sequence.NumberGenerator) *POService {
	return &POService{
		tx:      tx,
		pos:     pos,
		ledger:  ledger,
		audit:   audit,
		numbers: numbers,
	}
}

// DeriveStatus computes the receiving status purely from quantity totals.
// Anything other than the two documented thresholds leaves the status alone.
func DeriveStatus(current models.POStatus, totalOrdered, totalReceived int) models.POStatus {
	if totalOrdered > 0 && totalReceived >= totalOrdered {
		return models.POStatusReceived
	}
	if totalReceived > 0 && totalReceived < totalOrdered {
		return models.POStatusPartial
	}
	return current
}

type CreatePOItem struct {
	ProductID       int     `json:"product_id" binding:"required"`
	QuantityOrdered int     `json:"quantity_ordered" binding:"required"`
	UnitCost        float64 `json:"unit_cost"`
}

type CreatePORequest struct {
	Supplier string         `json:"supplier"`
	Notes    string         `json:"notes"`
	Items    []CreatePOItem `json:"items"`
}

func (s *POService) Create(actor models.Actor, req CreatePORequest) (*models.PurchaseOrder, error) {
	if len(req.Items) == 0 {
		return nil, custom_error.NewValidation("items", "purchase order requires at least one item")
	}
	for _, item := range req.Items {
		if item.ProductID <= 0 {
			return nil, custom_error.NewValidation("items", "item requires a valid product reference")
		}
		if item.QuantityOrdered < 1 {
			return nil, custom_error.NewValidation("items", "ordered quantity must be at least 1")
		}
	}

	number, err := s.numbers.Next(sequence.KindPurchaseOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to generate purchase order number: %w", err)
	}

	po := &models.PurchaseOrder{
		PONumber:    number,
		Supplier:    req.Supplier,
		Status:      models.POStatusDraft,
		Notes:       req.Notes,
		CreatedByID: actor.ID,
	}
	for _, item := range req.Items {
		po.Items = append(po.Items, models.PurchaseOrderItem{
			ProductID:       item.ProductID,
			QuantityOrdered: item.QuantityOrdered,
			UnitCost:        item.UnitCost,
		})
	}

	err = s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.pos.Insert(tx, po); err != nil {
			return err
		}

		return s.audit.Record(tx, actor, models.ActionPOCreated, "purchase_order", po.ID,
			fmt.Sprintf("Purchase order %s created", po.PONumber),
			nil,
			map[string]interface{}{
				"supplier":   po.Supplier,
				"item_count": len(po.Items),
			})
	})
	if err != nil {
		return nil, err
	}

	return po, nil
}

// Transition performs an explicit status change, rejected centrally against
// the allowed-transition table.
func (s *POService) Transition(poID int, actor models.Actor, to models.POStatus) (*models.PurchaseOrder, error) {
	var po *models.PurchaseOrder

	action := map[models.POStatus]string{
		models.POStatusSent:      models.ActionPOSent,
		models.POStatusInTransit: models.ActionPOInTransit,
		models.POStatusCancelled: models.ActionPOCancelled,
	}[to]
	if action == "" {
		return nil, custom_error.NewValidation("status", fmt.Sprintf("status %q cannot be set directly", to))
	}

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		po, err = s.pos.GetForUpdate(tx, poID)
		if err != nil {
			return err
		}

		if !po.Status.CanTransition(to) {
			return custom_error.NewInvalidTransition("purchase order", poID, string(po.Status))
		}

		updated, err := s.pos.UpdateStatus(tx, poID, po.Status, to)
		if err != nil {
			return err
		}
		if !updated {
			return custom_error.NewInvalidTransition("purchase order", poID, string(po.Status))
		}

		return s.audit.Record(tx, actor, action, "purchase_order", poID,
			fmt.Sprintf("Purchase order %s moved to %s", po.PONumber, to),
			nil, nil)
	})
	if err != nil {
		return nil, err
	}

	po.Status = to
	return po, nil
}

type ReceiveLine struct {
	ItemID   int `json:"item_id" binding:"required"`
	Quantity int `json:"quantity" binding:"required"`
}

// Receive applies delivery lines as one all-or-nothing transaction: received
// counters, stock increments and the derived status either all commit or none
// do. Over-delivery is permitted and reported as a warning.
func (s *POService) Receive(poID int, actor models.Actor, lines []ReceiveLine) (*models.PurchaseOrder, []models.Warning, error) {
	if len(lines) == 0 {
		return nil, nil, custom_error.NewValidation("lines", "receiving requires at least one line")
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, nil, custom_error.NewValidation("lines", "received quantity must be at least 1")
		}
	}

	var po *models.PurchaseOrder
	var warnings []models.Warning

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		po, err = s.pos.GetForUpdate(tx, poID)
		if err != nil {
			return err
		}

		// Draft orders have not been placed; cancelled orders are dead.
		if po.Status == models.POStatusDraft || po.Status == models.POStatusCancelled {
			return custom_error.NewInvalidTransition("purchase order", poID, string(po.Status))
		}

		itemsByID := make(map[int]*models.PurchaseOrderItem, len(po.Items))
		for i := range po.Items {
			itemsByID[po.Items[i].ID] = &po.Items[i]
		}

		for _, line := range lines {
			item, ok := itemsByID[line.ItemID]
			if !ok {
				return custom_error.NewNotFound("purchase order item", line.ItemID)
			}

			newReceived, err := s.pos.IncreaseReceived(tx, line.ItemID, line.Quantity)
			if err != nil {
				return err
			}
			item.QuantityReceived = newReceived

			if err := s.ledger.IncreaseStock(tx, item.ProductID, line.Quantity); err != nil {
				return err
			}

			if newReceived > item.QuantityOrdered {
				warnings = append(warnings, models.Warning{
					Code:      models.WarningOverDelivery,
					Message:   fmt.Sprintf("item %d received %d of %d ordered", line.ItemID, newReceived, item.QuantityOrdered),
					ProductID: item.ProductID,
				})
			}
		}

		newStatus := DeriveStatus(po.Status, po.TotalOrdered(), po.TotalReceived())
		if newStatus != po.Status {
			if err := s.pos.SetStatus(tx, poID, newStatus); err != nil {
				return err
			}
			po.Status = newStatus
		}

		return s.audit.Record(tx, actor, models.ActionPOReceived, "purchase_order", poID,
			fmt.Sprintf("Delivery recorded against purchase order %s", po.PONumber),
			nil,
			map[string]interface{}{
				"lines":    lines,
				"status":   po.Status,
				"warnings": warnings,
			})
	})
	if err != nil {
		return nil, nil, err
	}

	return po, warnings, nil
}

// CompleteQA settles an order through the inspection path: the good/bad split
// must account for every ordered unit, and only good units end up in stock.
// Lines stocked by earlier plain receipts are reconciled against their good
// allocation, so the ledger never counts a unit twice.
func (s *POService) CompleteQA(poID int, actor models.Actor, goodQty, badQty int, photoRef string) (*models.PurchaseOrder, error) {
	if photoRef == "" {
		return nil, custom_error.NewValidation("photo_url", "photo evidence is required for QA completion")
	}
	if goodQty < 0 || badQty < 0 {
		return nil, custom_error.NewValidation("quantities", "good and bad quantities must not be negative")
	}

	var po *models.PurchaseOrder

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		po, err = s.pos.GetForUpdate(tx, poID)
		if err != nil {
			return err
		}

		if po.Status.IsTerminal() || po.Status == models.POStatusDraft {
			return custom_error.NewInvalidTransition("purchase order", poID, string(po.Status))
		}

		totalOrdered := po.TotalOrdered()
		if goodQty+badQty != totalOrdered {
			return custom_error.NewValidation("quantities",
				fmt.Sprintf("good %d + bad %d must equal ordered total %d", goodQty, badQty, totalOrdered))
		}

		// Good units are allocated to lines in item order; the remainder of
		// the pool runs out on whichever lines the bad units landed on. Each
		// line settles its stock contribution at exactly its good allocation:
		// prior receipts already credited QuantityReceived, so only the
		// difference moves, in either direction.
		goodRemaining := goodQty
		for i := range po.Items {
			item := &po.Items[i]

			goodForLine := item.QuantityOrdered
			if goodForLine > goodRemaining {
				goodForLine = goodRemaining
			}
			goodRemaining -= goodForLine

			stockDelta := goodForLine - item.QuantityReceived

			if err := s.pos.SetReceivedTo(tx, item.ID, item.QuantityOrdered); err != nil {
				return err
			}
			if item.QuantityReceived < item.QuantityOrdered {
				item.QuantityReceived = item.QuantityOrdered
			}

			if stockDelta > 0 {
				if err := s.ledger.IncreaseStock(tx, item.ProductID, stockDelta); err != nil {
					return err
				}
			} else if stockDelta < 0 {
				if _, err := s.ledger.DecreaseStock(tx, item.ProductID, -stockDelta); err != nil {
					return err
				}
			}
		}

		if err := s.pos.SetStatus(tx, poID, models.POStatusReceived); err != nil {
			return err
		}
		po.Status = models.POStatusReceived

		photo := photoRef
		return s.audit.Record(tx, actor, models.ActionPOQACompleted, "purchase_order", poID,
			fmt.Sprintf("QA completed for purchase order %s", po.PONumber),
			&photo,
			map[string]interface{}{
				"good_quantity": goodQty,
				"bad_quantity":  badQty,
			})
	})
	if err != nil {
		return nil, err
	}

	return po, nil
}
