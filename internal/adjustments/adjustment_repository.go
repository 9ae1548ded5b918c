package adjustments

import (
	"fmt"

	"matdepot/internal/repository"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type AdjustmentRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AdjustmentRepositoryImpl {
	return &AdjustmentRepositoryImpl{repository: r}
}

func (r *AdjustmentRepositoryImpl) Insert(tx *goqu.TxDatabase, adjustment *models.StockAdjustment) error {
	query := tx.Insert("stock_adjustments").
		Rows(goqu.Record{
			"product_id":      adjustment.ProductID,
			"quantity_change": adjustment.QuantityChange,
			"reason":          adjustment.Reason,
			"admin_id":        adjustment.AdminID,
			"admin_name":      adjustment.AdminName,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&adjustment.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapRefError("product referenced by adjustment", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert stock adjustment: %w", err)
	}

	return nil
}

func (r *AdjustmentRepositoryImpl) GetAdjustments(conditions repository.QueryBuilder) ([]models.StockAdjustment, error) {
	aliases := map[string]string{
		"product_id": "product_id",
		"reason":     "reason",
	}

	var adjustments []models.StockAdjustment
	query := r.repository.GoquDBWrapper.
		From("stock_adjustments").
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc())

	if err := query.Executor().ScanStructs(&adjustments); err != nil {
		return nil, fmt.Errorf("unable to select stock adjustments: %w", err)
	}

	return adjustments, nil
}

// SystemLeakage sums the cost of stock written off for leakage reasons.
// Negative deltas are flipped so the figure reads as money lost.
func (r *AdjustmentRepositoryImpl) SystemLeakage() (float64, error) {
	var total float64

	query := r.repository.GoquDBWrapper.
		From(goqu.T("stock_adjustments").As("sa")).
		Join(
			goqu.T("inventory_items").As("ii"),
			goqu.On(goqu.Ex{"ii.id": goqu.I("sa.product_id")}),
		).
		Select(goqu.L("COALESCE(SUM(-sa.quantity_change * ii.unit_cost), 0)")).
		Where(
			goqu.I("sa.reason").In(models.LeakageReasons),
			goqu.I("sa.quantity_change").Lt(0),
		)

	if _, err := query.Executor().ScanVal(&total); err != nil {
		return 0, fmt.Errorf("unable to compute system leakage: %w", err)
	}

	return total, nil
}
