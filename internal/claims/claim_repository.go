package claims

import (
	"fmt"

	"matdepot/internal/repository"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type ClaimRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ClaimRepositoryImpl {
	return &ClaimRepositoryImpl{repository: r}
}

func (r *ClaimRepositoryImpl) Insert(tx *goqu.TxDatabase, claim *models.Claim) error {
	query := tx.Insert("claims").
		Rows(goqu.Record{
			"claim_number":    claim.ClaimNumber,
			"project_id":      claim.ProjectID,
			"claim_type":      claim.ClaimType,
			"status":          claim.Status,
			"requested_by_id": claim.RequestedByID,
			"photo_url":       claim.PhotoURL,
			"notes":           claim.Notes,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&claim.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("claim insert failed", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert claim record: %w", err)
	}

	rows := make([]interface{}, 0, len(claim.Items))
	for i := range claim.Items {
		claim.Items[i].ClaimID = claim.ID
		rows = append(rows, goqu.Record{
			"claim_id":   claim.ID,
			"product_id": claim.Items[i].ProductID,
			"quantity":   claim.Items[i].Quantity,
		})
	}

	if _, err := tx.Insert("claim_items").Rows(rows...).Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapRefError("product referenced by claim item", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert claim items: %w", err)
	}

	return nil
}

func (r *ClaimRepositoryImpl) GetClaim(id int) (*models.Claim, error) {
	var claim models.Claim

	query := r.repository.GoquDBWrapper.
		From("claims").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&claim)
	if err != nil {
		return nil, fmt.Errorf("unable to select claim: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("claim", id)
	}

	itemsQuery := r.repository.GoquDBWrapper.
		From("claim_items").
		Where(goqu.Ex{"claim_id": id}).
		Order(goqu.I("id").Asc())

	if err := itemsQuery.Executor().ScanStructs(&claim.Items); err != nil {
		return nil, fmt.Errorf("unable to select claim items: %w", err)
	}

	return &claim, nil
}

// GetClaimForUpdate locks the claim row so racing approvals serialize.
func (r *ClaimRepositoryImpl) GetClaimForUpdate(tx *goqu.TxDatabase, id int) (*models.Claim, error) {
	var claim models.Claim

	query := tx.From("claims").
		Where(goqu.Ex{"id": id}).
		ForUpdate(goqu.Wait)

	found, err := query.Executor().ScanStruct(&claim)
	if err != nil {
		return nil, fmt.Errorf("unable to select claim for update: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("claim", id)
	}

	itemsQuery := tx.From("claim_items").
		Where(goqu.Ex{"claim_id": id}).
		Order(goqu.I("id").Asc())

	if err := itemsQuery.Executor().ScanStructs(&claim.Items); err != nil {
		return nil, fmt.Errorf("unable to select claim items: %w", err)
	}

	return &claim, nil
}

// UpdateStatus flips the status only when the row is still in the expected
// source state. The conditional WHERE is the at-most-once guarantee: of two
// racing approvals exactly one sees rows affected.
func (r *ClaimRepositoryImpl) UpdateStatus(tx *goqu.TxDatabase, id int, from, to models.ClaimStatus, approvedByID *int) (bool, error) {
	record := goqu.Record{
		"status":     to,
		"updated_at": goqu.L("now()"),
	}
	if approvedByID != nil {
		record["approved_by_id"] = *approvedByID
	}

	result, err := tx.Update("claims").
		Set(record).
		Where(goqu.Ex{
			"id":     id,
			"status": from,
		}).
		Executor().Exec()
	if err != nil {
		return false, fmt.Errorf("failed to update claim status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// AppendNote adds text to the claim notes; terminal claims stay otherwise
// immutable.
func (r *ClaimRepositoryImpl) AppendNote(tx *goqu.TxDatabase, id int, note string) error {
	_, err := tx.Update("claims").
		Set(goqu.Record{
			"notes":      goqu.L("trim(both E'\\n' from notes || ?)", "\n"+note),
			"updated_at": goqu.L("now()"),
		}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to append claim note: %w", err)
	}

	return nil
}

func (r *ClaimRepositoryImpl) GetClaims(conditions repository.QueryBuilder) ([]models.Claim, error) {
	aliases := map[string]string{
		"status":     "status",
		"project_id": "project_id",
	}

	var claims []models.Claim
	query := r.repository.GoquDBWrapper.
		From("claims").
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("id").Desc())

	if err := query.Executor().ScanStructs(&claims); err != nil {
		return nil, fmt.Errorf("unable to select claims: %w", err)
	}

	return claims, nil
}
