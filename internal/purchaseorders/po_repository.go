package purchaseorders

import (
	"fmt"

	"matdepot/internal/repository"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type PORepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *PORepositoryImpl {
	return &PORepositoryImpl{repository: r}
}

func (r *PORepositoryImpl) Insert(tx *goqu.TxDatabase, po *models.PurchaseOrder) error {
	query := tx.Insert("purchase_orders").
		Rows(goqu.Record{
			"po_number":     po.PONumber,
			"supplier":      po.Supplier,
			"status":        po.Status,
			"notes":         po.Notes,
			"created_by_id": po.CreatedByID,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&po.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("purchase order insert failed", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert purchase order record: %w", err)
	}

	rows := make([]interface{}, 0, len(po.Items))
	for i := range po.Items {
		po.Items[i].PurchaseOrderID = po.ID
		rows = append(rows, goqu.Record{
			"purchase_order_id": po.ID,
			"product_id":        po.Items[i].ProductID,
			"quantity_ordered":  po.Items[i].QuantityOrdered,
			"quantity_received": 0,
			"unit_cost":         po.Items[i].UnitCost,
		})
	}

	if _, err := tx.Insert("purchase_order_items").Rows(rows...).Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapRefError("product referenced by purchase order item", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert purchase order items: %w", err)
	}

	return nil
}

func (r *PORepositoryImpl) GetPurchaseOrder(id int) (*models.PurchaseOrder, error) {
	return r.getPurchaseOrder(r.repository.GoquDBWrapper.From("purchase_orders"), r.repository.GoquDBWrapper.From("purchase_order_items"), id, false)
}

// GetForUpdate locks the header and line rows so concurrent receipts against
// the same order serialize.
func (r *PORepositoryImpl) GetForUpdate(tx *goqu.TxDatabase, id int) (*models.PurchaseOrder, error) {
	return r.getPurchaseOrder(tx.From("purchase_orders"), tx.From("purchase_order_items"), id, true)
}

func (r *PORepositoryImpl) getPurchaseOrder(header *goqu.SelectDataset, items *goqu.SelectDataset, id int, lock bool) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder

	headerQuery := header.Where(goqu.Ex{"id": id})
	itemsQuery := items.Where(goqu.Ex{"purchase_order_id": id}).Order(goqu.I("id").Asc())
	if lock {
		headerQuery = headerQuery.ForUpdate(goqu.Wait)
		itemsQuery = itemsQuery.ForUpdate(goqu.Wait)
	}

	found, err := headerQuery.Executor().ScanStruct(&po)
	if err != nil {
		return nil, fmt.Errorf("unable to select purchase order: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("purchase order", id)
	}

	if err := itemsQuery.Executor().ScanStructs(&po.Items); err != nil {
		return nil, fmt.Errorf("unable to select purchase order items: %w", err)
	}

	return &po, nil
}

// IncreaseReceived applies the monotonic received increment and returns the
// new value. quantity_received is never written outside this method.
func (r *PORepositoryImpl) IncreaseReceived(tx *goqu.TxDatabase, itemID, quantity int) (int, error) {
	var newReceived int

	query := tx.Update("purchase_order_items").
		Set(goqu.Record{
			"quantity_received": goqu.L("quantity_received + ?", quantity),
		}).
		Where(goqu.Ex{"id": itemID}).
		Returning("quantity_received")

	found, err := query.Executor().ScanVal(&newReceived)
	if err != nil {
		return 0, fmt.Errorf("failed to increase received quantity for item %d: %w", itemID, err)
	}
	if !found {
		return 0, custom_error.NewNotFound("purchase order item", itemID)
	}

	return newReceived, nil
}

// SetReceivedTo raises quantity_received to the given value. Used by the QA
// path, which settles all lines at their ordered quantity. GREATEST keeps the
// column monotonic even if a plain receipt landed first.
func (r *PORepositoryImpl) SetReceivedTo(tx *goqu.TxDatabase, itemID, quantity int) error {
	_, err := tx.Update("purchase_order_items").
		Set(goqu.Record{
			"quantity_received": goqu.L("GREATEST(quantity_received, ?)", quantity),
		}).
		Where(goqu.Ex{"id": itemID}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to settle received quantity for item %d: %w", itemID, err)
	}

	return nil
}

func (r *PORepositoryImpl) UpdateStatus(tx *goqu.TxDatabase, id int, from, to models.POStatus) (bool, error) {
	result, err := tx.Update("purchase_orders").
		Set(goqu.Record{
			"status":     to,
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{
			"id":     id,
			"status": from,
		}).
		Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to update purchase order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// SetStatus writes the totals-derived status without a source-state guard;
// the caller holds the row lock.
func (r *PORepositoryImpl) SetStatus(tx *goqu.TxDatabase, id int, to models.POStatus) error {
	_, err := tx.Update("purchase_orders").
		Set(goqu.Record{
			"status":     to,
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to set purchase order status: %w", err)
	}

	return nil
}

func (r *PORepositoryImpl) GetPurchaseOrders(conditions repository.QueryBuilder) ([]models.PurchaseOrder, error) {
	aliases := map[string]string{
		"status":   "status",
		"supplier": "supplier",
	}

	var orders []models.PurchaseOrder
	query := r.repository.GoquDBWrapper.
		From("purchase_orders").
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("id").Desc())

	if err := query.Executor().ScanStructs(&orders); err != nil {
		return nil, fmt.Errorf("unable to select purchase orders: %w", err)
	}

	return orders, nil
}
