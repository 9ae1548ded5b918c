package auditlog

import (
	auditlogRepo "matdepot/internal/auditlog"
	"matdepot/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type Auditlog struct {
	r *auditlogRepo.AuditLogRepository
}

func NewAuditLog(repository *auditlogRepo.AuditLogRepository) *Auditlog {
	return &Auditlog{r: repository}
}

// Record appends one audit entry within the workflow transaction. Every state
// transition writes exactly one entry.
func (a *Auditlog) Record(tx *goqu.TxDatabase, actor models.Actor, action, resourceType string, resourceID int, description string, photoURL *string, data map[string]interface{}) error {
	actorID := actor.ID

	entry := models.AuditLog{
		ResourceID:   resourceID,
		ResourceType: resourceType,
		Action:       action,
		Description:  description,
		PhotoURL:     photoURL,
		ActorID:      &actorID,
		ActorName:    actor.Username,
	}

	return a.r.PersistTx(tx, entry, data)
}
