package claims

import (
	"fmt"

	"matdepot/internal/repository"
	"matdepot/internal/sequence"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"
	"matdepot/pkg/roles"

	"github.com/doug-martin/goqu/v9"
)

type ClaimRepository interface {
	Insert(tx *goqu.TxDatabase, claim *models.Claim) error
	GetClaim(id int) (*models.Claim, error)
	GetClaimForUpdate(tx *goqu.TxDatabase, id int) (*models.Claim, error)
	UpdateStatus(tx *goqu.TxDatabase, id int, from, to models.ClaimStatus, approvedByID *int) (bool, error)
	AppendNote(tx *goqu.TxDatabase, id int, note string) error
}

type StockLedger interface {
	DecreaseStock(tx *goqu.TxDatabase, productID, quantity int) (int, error)
}

type MaterialCounter interface {
	IncreaseClaimed(tx *goqu.TxDatabase, projectID, productID, quantity int) (bool, error)
}

type AuditRecorder interface {
	Record(tx *goqu.TxDatabase, actor models.Actor, action, resourceType string, resourceID int, description string, photoURL *string, data map[string]interface{}) error
}

type NotificationOutbox interface {
	InsertForRole(tx *goqu.TxDatabase, role, message string, claimID *int) error
}

type ClaimService struct {
	tx        repository.TxRunner
	claims    ClaimRepository
	ledger    StockLedger
	materials MaterialCounter
	audit     AuditRecorder
	outbox    NotificationOutbox
	numbers   sequence.NumberGenerator
}

func NewService(tx repository.TxRunner, claims ClaimRepository, ledger StockLedger, materials MaterialCounter, audit AuditRecorder, outbox NotificationOutbox, numbers sequence.NumberGenerator) *ClaimService {
	return &ClaimService{
		tx:        tx,
		claims:    claims,
		ledger:    ledger,
		materials: materials,
		audit:     audit,
		outbox:    outbox,
		numbers:   numbers,
	}
}

type SubmitClaimItem struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

type SubmitClaimRequest struct {
	ProjectID int               `json:"project_id" binding:"required"`
	ClaimType string            `json:"claim_type"`
	PhotoURL  string            `json:"photo_url"`
	Notes     string            `json:"notes"`
	Items     []SubmitClaimItem `json:"items"`
}

// Submit creates a pending claim. The photo reference is an audit policy
// requirement enforced here, not just UI validation.
func (s *ClaimService) Submit(actor models.Actor, req SubmitClaimRequest) (*models.Claim, error) {
	if len(req.Items) == 0 {
		return nil, custom_error.NewValidation("items", "claim requires at least one item")
	}
	for _, item := range req.Items {
		if item.ProductID <= 0 {
			return nil, custom_error.NewValidation("items", "item requires a valid product reference")
		}
		if item.Quantity < 1 {
			return nil, custom_error.NewValidation("items", "item quantity must be at least 1")
		}
	}
	if req.PhotoURL == "" {
		return nil, custom_error.NewValidation("photo_url", "photo evidence is required for claims")
	}

	claimType := req.ClaimType
	if claimType == "" {
		claimType = models.ClaimTypeStandard
	}
	if claimType != models.ClaimTypeStandard && claimType != models.ClaimTypeEmergency {
		return nil, custom_error.NewValidation("claim_type", "claim type must be standard or emergency")
	}

	number, err := s.numbers.Next(sequence.KindClaim)
	if err != nil {
		return nil, fmt.Errorf("failed to generate claim number: %w", err)
	}

	claim := &models.Claim{
		ClaimNumber:   number,
		ProjectID:     req.ProjectID,
		ClaimType:     claimType,
		Status:        models.ClaimStatusPending,
		RequestedByID: actor.ID,
		PhotoURL:      req.PhotoURL,
		Notes:         req.Notes,
	}
	for _, item := range req.Items {
		claim.Items = append(claim.Items, models.ClaimItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	err = s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.claims.Insert(tx, claim); err != nil {
			return err
		}

		photo := claim.PhotoURL
		return s.audit.Record(tx, actor, models.ActionClaimInitiated, "claim", claim.ID,
			fmt.Sprintf("Claim %s submitted for project %d", claim.ClaimNumber, claim.ProjectID),
			&photo,
			map[string]interface{}{
				"project_id": claim.ProjectID,
				"claim_type": claim.ClaimType,
				"item_count": len(claim.Items),
			})
	})
	if err != nil {
		return nil, err
	}

	return claim, nil
}

// Approve flips the claim to approved and applies all line items as one
// atomic unit: stock decrements, project claimed counters, audit entry and
// admin notifications all commit or roll back together.
func (s *ClaimService) Approve(claimID int, actor models.Actor) (*models.Claim, []models.Warning, error) {
	var claim *models.Claim
	var warnings []models.Warning

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		claim, err = s.claims.GetClaimForUpdate(tx, claimID)
		if err != nil {
			return err
		}

		approvedBy := actor.ID
		updated, err := s.claims.UpdateStatus(tx, claimID, models.ClaimStatusPending, models.ClaimStatusApproved, &approvedBy)
		if err != nil {
			return err
		}
		if !updated {
			return custom_error.NewInvalidTransition("claim", claimID, string(claim.Status))
		}

		for _, item := range claim.Items {
			newLevel, err := s.ledger.DecreaseStock(tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if newLevel < 0 {
				// Stock shortfall is tolerated; the negative level is the
				// critical-stock signal surfaced to the caller.
				warnings = append(warnings, models.Warning{
					Code:      models.WarningStockShortfall,
					Message:   fmt.Sprintf("stock for product %d went to %d", item.ProductID, newLevel),
					ProductID: item.ProductID,
				})
			}

			matched, err := s.materials.IncreaseClaimed(tx, claim.ProjectID, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !matched {
				// BOM drift: claimed product with no material row. The stock
				// decrement still applies; only the counter is skipped.
				warnings = append(warnings, models.Warning{
					Code:      models.WarningBOMDrift,
					Message:   fmt.Sprintf("no project material row for product %d in project %d", item.ProductID, claim.ProjectID),
					ProductID: item.ProductID,
				})
			}
		}

		if err := s.audit.Record(tx, actor, models.ActionClaimApproved, "claim", claimID,
			fmt.Sprintf("Claim %s approved", claim.ClaimNumber),
			nil,
			map[string]interface{}{
				"project_id": claim.ProjectID,
				"item_count": len(claim.Items),
				"warnings":   warnings,
			}); err != nil {
			return err
		}

		id := claimID
		message := fmt.Sprintf("Claim %s approved by %s", claim.ClaimNumber, actor.Username)
		return s.outbox.InsertForRole(tx, roles.Admin.String(), message, &id)
	})
	if err != nil {
		return nil, nil, err
	}

	claim.Status = models.ClaimStatusApproved
	return claim, warnings, nil
}

// Deny rejects a pending claim. No ledger mutation happens; the reason is
// appended to the claim notes.
func (s *ClaimService) Deny(claimID int, actor models.Actor, reason string) (*models.Claim, error) {
	var claim *models.Claim

	err := s.tx.WithTransaction(func(tx *goqu.TxDatabase) error {
		var err error
		claim, err = s.claims.GetClaimForUpdate(tx, claimID)
		if err != nil {
			return err
		}

		deniedBy := actor.ID
		updated, err := s.claims.UpdateStatus(tx, claimID, models.ClaimStatusPending, models.ClaimStatusDenied, &deniedBy)
		if err != nil {
			return err
		}
		if !updated {
			return custom_error.NewInvalidTransition("claim", claimID, string(claim.Status))
		}

		if reason != "" {
			if err := s.claims.AppendNote(tx, claimID, "Denied: "+reason); err != nil {
				return err
			}
		}

		if err := s.audit.Record(tx, actor, models.ActionClaimDenied, "claim", claimID,
			fmt.Sprintf("Claim %s denied", claim.ClaimNumber),
			nil,
			map[string]interface{}{
				"project_id": claim.ProjectID,
				"reason":     reason,
			}); err != nil {
			return err
		}

		id := claimID
		message := fmt.Sprintf("Claim %s denied by %s", claim.ClaimNumber, actor.Username)
		return s.outbox.InsertForRole(tx, roles.Admin.String(), message, &id)
	})
	if err != nil {
		return nil, err
	}

	claim.Status = models.ClaimStatusDenied
	return claim, nil
}
