package returns

import (
	"fmt"

	"matdepot/internal/repository"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type ReturnRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ReturnRepositoryImpl {
	return &ReturnRepositoryImpl{repository: r}
}

func (r *ReturnRepositoryImpl) Insert(tx *goqu.TxDatabase, ret *models.Return) error {
	query := tx.Insert("returns").
		Rows(goqu.Record{
			"return_number":   ret.ReturnNumber,
			"project_id":      ret.ProjectID,
			"claim_id":        ret.ClaimID,
			"status":          ret.Status,
			"requested_by_id": ret.RequestedByID,
			"notes":           ret.Notes,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&ret.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("return insert failed", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert return record: %w", err)
	}

	rows := make([]interface{}, 0, len(ret.Items))
	for i := range ret.Items {
		ret.Items[i].ReturnID = ret.ID
		rows = append(rows, goqu.Record{
			"return_id":  ret.ID,
			"product_id": ret.Items[i].ProductID,
			"quantity":   ret.Items[i].Quantity,
		})
	}

	if _, err := tx.Insert("return_items").Rows(rows...).Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapRefError("product referenced by return item", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert return items: %w", err)
	}

	return nil
}

func (r *ReturnRepositoryImpl) GetReturn(id int) (*models.Return, error) {
	var ret models.Return

	query := r.repository.GoquDBWrapper.
		From("returns").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&ret)
	if err != nil {
		return nil, fmt.Errorf("unable to select return: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("return", id)
	}

	itemsQuery := r.repository.GoquDBWrapper.
		From("return_items").
		Where(goqu.Ex{"return_id": id}).
		Order(goqu.I("id").Asc())

	if err := itemsQuery.Executor().ScanStructs(&ret.Items); err != nil {
		return nil, fmt.Errorf("unable to select return items: %w", err)
	}

	return &ret, nil
}

func (r *ReturnRepositoryImpl) GetReturnForUpdate(tx *goqu.TxDatabase, id int) (*models.Return, error) {
	var ret models.Return

	query := tx.From("returns").
		Where(goqu.Ex{"id": id}).
		ForUpdate(goqu.Wait)

	found, err := query.Executor().ScanStruct(&ret)
	if err != nil {
		return nil, fmt.Errorf("unable to select return for update: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("return", id)
	}

	itemsQuery := tx.From("return_items").
		Where(goqu.Ex{"return_id": id}).
		Order(goqu.I("id").Asc())

	if err := itemsQuery.Executor().ScanStructs(&ret.Items); err != nil {
		return nil, fmt.Errorf("unable to select return items: %w", err)
	}

	return &ret, nil
}

func (r *ReturnRepositoryImpl) UpdateStatus(tx *goqu.TxDatabase, id int, from, to models.ReturnStatus, approvedByID *int) (bool, error) {
	record := goqu.Record{
		"status":     to,
		"updated_at": goqu.L("now()"),
	}
	if approvedByID != nil {
		record["approved_by_id"] = *approvedByID
	}

	result, err := tx.Update("returns").
		Set(record).
		Where(goqu.Ex{
			"id":     id,
			"status": from,
		}).
		Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to update return status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
