package auditlog

import (
	"encoding/json"
	"fmt"

	"matdepot/internal/repository"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type AuditLogRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AuditLogRepository {
	return &AuditLogRepository{repository: r}
}

// PersistTx appends an entry inside the caller's transaction so the audit
// record commits or rolls back together with the mutation it describes.
func (r *AuditLogRepository) PersistTx(tx *goqu.TxDatabase, entry models.AuditLog, data interface{}) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal audit log data: %w", err)
	}

	query := tx.Insert("audit_logs").
		Rows(goqu.Record{
			"resource_id":   entry.ResourceID,
			"resource_type": entry.ResourceType,
			"action":        entry.Action,
			"description":   entry.Description,
			"photo_url":     entry.PhotoURL,
			"data":          dataJSON,
			"actor_id":      entry.ActorID,
			"actor_name":    entry.ActorName,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *AuditLogRepository) GetLogs(resourceType string, resourceID int) ([]models.AuditLog, error) {
	conditions := goqu.Ex{}
	if resourceType != "" {
		conditions["resource_type"] = resourceType
	}
	if resourceID != 0 {
		conditions["resource_id"] = resourceID
	}

	var logs []models.AuditLog
	query := r.repository.GoquDBWrapper.
		From("audit_logs").
		Where(conditions).
		Order(goqu.I("created_at").Desc()).
		Limit(200)

	if err := query.Executor().ScanStructs(&logs); err != nil {
		return nil, fmt.Errorf("unable to select audit logs: %w", err)
	}

	for i := range logs {
		logs[i].LoadFromDB()
	}

	return logs, nil
}
