package container

import (
	"database/sql"

	"matdepot/internal/adjustments"
	auditLogRepo "matdepot/internal/auditlog"
	"matdepot/internal/claims"
	"matdepot/internal/ledger"
	"matdepot/internal/logger"
	"matdepot/internal/notifications"
	"matdepot/internal/projects"
	"matdepot/internal/purchaseorders"
	"matdepot/internal/repository"
	"matdepot/internal/returns"
	"matdepot/internal/sequence"
	"matdepot/internal/users"
	"matdepot/pkg/auditlog"
)

type Container struct {
	Repository          *repository.Repository
	AuditLog            *auditlog.Auditlog
	LedgerHandler       *ledger.LedgerHandler
	ClaimHandler        *claims.ClaimHandler
	POHandler           *purchaseorders.POHandler
	ReturnHandler       *returns.ReturnHandler
	AdjustmentHandler   *adjustments.AdjustmentHandler
	MaterialHandler     *projects.MaterialHandler
	NotificationHandler *notifications.NotificationHandler
	AuditLogHandler     *auditLogRepo.AuditLogHandler
	UserHandler         *users.UsersHandler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)
	log := logger.NewLogger()

	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo)
	numbers := sequence.NewGenerator(repo)

	ledgerRepo := ledger.NewRepository(repo)
	materialRepo := projects.NewRepository(repo)
	notificationRepo := notifications.NewRepository(repo)
	userRepo := users.NewRepository(repo)

	claimRepo := claims.NewRepository(repo)
	claimService := claims.NewService(repo, claimRepo, ledgerRepo, materialRepo, auditLog, notificationRepo, numbers)

	poRepo := purchaseorders.NewRepository(repo)
	poService := purchaseorders.NewService(repo, poRepo, ledgerRepo, auditLog, numbers)

	returnRepo := returns.NewRepository(repo)
	returnService := returns.NewService(repo, returnRepo, ledgerRepo, materialRepo, auditLog, numbers, log)

	adjustmentRepo := adjustments.NewRepository(repo)
	adjustmentService := adjustments.NewService(repo, adjustmentRepo, ledgerRepo, auditLog)

	return &Container{
		Repository:          repo,
		AuditLog:            auditLog,
		LedgerHandler:       ledger.NewHandler(ledgerRepo),
		ClaimHandler:        claims.NewHandler(claimService, claimRepo),
		POHandler:           purchaseorders.NewHandler(poService, poRepo),
		ReturnHandler:       returns.NewHandler(returnService, returnRepo),
		AdjustmentHandler:   adjustments.NewHandler(adjustmentService, adjustmentRepo),
		MaterialHandler:     projects.NewHandler(materialRepo),
		NotificationHandler: notifications.NewHandler(notificationRepo),
		AuditLogHandler:     auditLogRepo.NewHandler(auditRepo),
		UserHandler:         users.NewHandler(userRepo),
	}
}
