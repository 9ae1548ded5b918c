package projects

import (
	"fmt"

	"matdepot/internal/repository"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type MaterialRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *MaterialRepository {
	return &MaterialRepository{repository: r}
}

// materialRow is the locked working set for counter updates. A project can
// hold several rows per product, one per phase.
type materialRow struct {
	ID       int `db:"id"`
	Required int `db:"required_quantity"`
	Claimed  int `db:"claimed_quantity"`
}

// spreadIncrease distributes claimed units over phase rows in row order,
// filling each row's remaining requirement first. Units beyond the total
// requirement land on the last row so nothing is lost.
func spreadIncrease(rows []materialRow, quantity int) []int {
	takes := make([]int, len(rows))
	remaining := quantity

	for i, row := range rows {
		take := row.Required - row.Claimed
		if take < 0 {
			take = 0
		}
		if take > remaining {
			take = remaining
		}
		if i == len(rows)-1 {
			take = remaining
		}
		takes[i] = take
		remaining -= take
	}

	return takes
}

// spreadDecrease removes claimed units from phase rows in row order, never
// driving any row below zero. Returns per-row takes and the units that could
// not be absorbed.
func spreadDecrease(rows []materialRow, quantity int) ([]int, int) {
	takes := make([]int, len(rows))
	remaining := quantity

	for i, row := range rows {
		take := row.Claimed
		if take > remaining {
			take = remaining
		}
		takes[i] = take
		remaining -= take
	}

	return takes, remaining
}

func (r *MaterialRepository) lockRows(tx *goqu.TxDatabase, projectID, productID int) ([]materialRow, error) {
	var rows []materialRow

	query := tx.From("project_materials").
		Select("id", "required_quantity", "claimed_quantity").
		Where(goqu.Ex{
			"project_id": projectID,
			"product_id": productID,
		}).
		Order(goqu.I("id").Asc()).
		ForUpdate(goqu.Wait)

	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("failed to lock material rows for project %d product %d: %w", projectID, productID, err)
	}

	return rows, nil
}

func (r *MaterialRepository) applyTake(tx *goqu.TxDatabase, rowID, take int) error {
	_, err := tx.Update("project_materials").
		Set(goqu.Record{
			"claimed_quantity": goqu.L("claimed_quantity + ?", take),
		}).
		Where(goqu.Ex{"id": rowID}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update claimed quantity on material row %d: %w", rowID, err)
	}
	return nil
}

// IncreaseClaimed bumps the claimed counters for the matching material rows.
// Returns false when no row matches the project/product pair (BOM drift);
// the caller decides how to surface that.
func (r *MaterialRepository) IncreaseClaimed(tx *goqu.TxDatabase, projectID, productID, quantity int) (bool, error) {
	rows, err := r.lockRows(tx, projectID, productID)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}

	for i, take := range spreadIncrease(rows, quantity) {
		if take == 0 {
			continue
		}
		if err := r.applyTake(tx, rows[i].ID, take); err != nil {
			return false, err
		}
	}

	return true, nil
}

// DecreaseClaimedClamped rolls the claimed counters back, clamping every row
// at zero. Returns how many units were clamped off (0 when the full quantity
// fit) and whether a matching row existed at all.
func (r *MaterialRepository) DecreaseClaimedClamped(tx *goqu.TxDatabase, projectID, productID, quantity int) (int, bool, error) {
	rows, err := r.lockRows(tx, projectID, productID)
	if err != nil {
		return 0, false, err
	}
	if len(rows) == 0 {
		return 0, false, nil
	}

	takes, clamped := spreadDecrease(rows, quantity)
	for i, take := range takes {
		if take == 0 {
			continue
		}
		if err := r.applyTake(tx, rows[i].ID, -take); err != nil {
			return 0, true, err
		}
	}

	return clamped, true, nil
}

func (r *MaterialRepository) GetMaterials(projectID int) ([]models.ProjectMaterial, error) {
	var materials []models.ProjectMaterial

	query := r.repository.GoquDBWrapper.
		From("project_materials").
		Where(goqu.Ex{"project_id": projectID}).
		Order(goqu.I("product_id").Asc())

	if err := query.Executor().ScanStructs(&materials); err != nil {
		return nil, fmt.Errorf("unable to select project materials: %w", err)
	}

	return materials, nil
}
