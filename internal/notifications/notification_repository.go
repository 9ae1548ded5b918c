package notifications

import (
	"fmt"

	"matdepot/internal/repository"
	custom_error "matdepot/pkg/errors"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type NotificationRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *NotificationRepository {
	return &NotificationRepository{repository: r}
}

// InsertForRole fans one message out to every user holding the given role,
// inside the caller's transaction.
func (r *NotificationRepository) InsertForRole(tx *goqu.TxDatabase, role, message string, claimID *int) error {
	query := `
		INSERT INTO notifications (user_id, message, claim_id)
		SELECT id, $2, $3
		FROM users
		WHERE role = $1;
	`
	if _, err := tx.Exec(query, role, message, claimID); err != nil {
		return fmt.Errorf("failed to insert notifications for role %s: %w", role, err)
	}

	return nil
}

func (r *NotificationRepository) GetForUser(userID int) ([]models.Notification, error) {
	var notifications []models.Notification

	query := r.repository.GoquDBWrapper.
		From("notifications").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc()).
		Limit(100)

	if err := query.Executor().ScanStructs(&notifications); err != nil {
		return nil, fmt.Errorf("unable to select notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead flips is_read, the only post-creation mutation allowed.
func (r *NotificationRepository) MarkRead(notificationID, userID int) error {
	result, err := r.repository.GoquDBWrapper.
		Update("notifications").
		Set(goqu.Record{"is_read": true}).
		Where(goqu.Ex{
			"id":      notificationID,
			"user_id": userID,
		}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("notification", notificationID)
	}

	return nil
}
