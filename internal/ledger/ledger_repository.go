package ledger

import (
	"fmt"

	"matdepot/internal/repository"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// LedgerRepository is the single ownership boundary for the shared quantity
// fields. Every workflow mutates stock through these atomic operations
// instead of touching the columns directly.
type LedgerRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *LedgerRepository {
	return &LedgerRepository{repository: r}
}

func (r *LedgerRepository) GetItem(id int) (*models.InventoryItem, error) {
	var item models.InventoryItem

	query := r.repository.GoquDBWrapper.
		From("inventory_items").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("unable to select inventory item: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("inventory item", id)
	}

	return &item, nil
}

func (r *LedgerRepository) GetItems() ([]models.InventoryItem, error) {
	var items []models.InventoryItem

	query := r.repository.GoquDBWrapper.
		From("inventory_items").
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to select inventory items: %w", err)
	}

	return items, nil
}

func (r *LedgerRepository) GetItemsBy(conditions repository.QueryBuilder) ([]models.InventoryItem, error) {
	aliases := map[string]string{
		"sku": "sku",
	}

	var items []models.InventoryItem
	query := r.repository.GoquDBWrapper.
		From("inventory_items").
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to select inventory items: %w", err)
	}

	return items, nil
}

// GetCriticalItems returns rows where the critical-stock signal fires:
// negative stock, over-allocation, or level at/below safety stock.
func (r *LedgerRepository) GetCriticalItems() ([]models.InventoryItem, error) {
	var items []models.InventoryItem

	query := r.repository.GoquDBWrapper.
		From("inventory_items").
		Where(goqu.Or(
			goqu.C("in_stock").Lt(0),
			goqu.C("allocated").Gt(goqu.C("in_stock")),
			goqu.C("in_stock").Lte(goqu.C("safety_stock")),
		)).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("unable to select critical inventory items: %w", err)
	}

	return items, nil
}

func (r *LedgerRepository) IncreaseStock(tx *goqu.TxDatabase, productID, quantity int) error {
	result, err := tx.Update("inventory_items").
		Set(goqu.Record{
			"in_stock":   goqu.L("in_stock + ?", quantity),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": productID}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to increase stock for product %d: %w", productID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for product %d: %w", productID, err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("inventory item", productID)
	}

	return nil
}

// DecreaseStock applies the decrement and returns the new level. The level
// may go negative when the requested quantity exceeded actual stock; callers
// surface that as a shortfall warning rather than rejecting.
func (r *LedgerRepository) DecreaseStock(tx *goqu.TxDatabase, productID, quantity int) (int, error) {
	var newLevel int

	query := tx.Update("inventory_items").
		Set(goqu.Record{
			"in_stock":   goqu.L("in_stock - ?", quantity),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": productID}).
		Returning("in_stock")

	found, err := query.Executor().ScanVal(&newLevel)
	if err != nil {
		return 0, fmt.Errorf("failed to decrease stock for product %d: %w", productID, err)
	}
	if !found {
		return 0, custom_error.NewNotFound("inventory item", productID)
	}

	return newLevel, nil
}

// ApplyDelta is the adjustment path: signed delta in one statement.
func (r *LedgerRepository) ApplyDelta(tx *goqu.TxDatabase, productID, delta int) (int, error) {
	var newLevel int

	query := tx.Update("inventory_items").
		Set(goqu.Record{
			"in_stock":   goqu.L("in_stock + ?", delta),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": productID}).
		Returning("in_stock")

	found, err := query.Executor().ScanVal(&newLevel)
	if err != nil {
		return 0, fmt.Errorf("failed to apply stock delta for product %d: %w", productID, err)
	}
	if !found {
		return 0, custom_error.NewNotFound("inventory item", productID)
	}

	return newLevel, nil
}
