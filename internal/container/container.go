package container

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/tohidahmed666-design/AssetMGMT/internal/assets"
	"github.com/tohidahmed666-design/AssetMGMT/internal/auditlog"
	"github.com/tohidahmed666-design/AssetMGMT/internal/auth"
	"github.com/tohidahmed666-design/AssetMGMT/internal/config"
	"github.com/tohidahmed666-design/AssetMGMT/internal/contact"
	"github.com/tohidahmed666-design/AssetMGMT/internal/issuance"
	"github.com/tohidahmed666-design/AssetMGMT/internal/mailer"
	"github.com/tohidahmed666-design/AssetMGMT/internal/repository"
	"github.com/tohidahmed666-design/AssetMGMT/internal/uploads"
	"github.com/tohidahmed666-design/AssetMGMT/internal/users"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/security"
)

// Container wires every repository, service and handler once at boot.
// All clients are explicitly constructed and passed in; nothing global.
type Container struct {
	Repository     *repository.Repository
	Tokens         *security.TokenManager
	Uploads        *uploads.Store
	AuditLog       *auditlog.Auditlog
	AssetHandler   *assets.Handler
	AuthHandler    *auth.Handler
	UserHandler    *users.UsersHandler
	ContactHandler *contact.Handler
	LogHandler     *auditlog.Handler
}

func NewAppContainer(db *sql.DB, cfg *config.Config, log *zap.Logger) (*Container, error) {
	repo := repository.NewRepository(db)
	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	uploadStore, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init upload store: %w", err)
	}

	mail := mailer.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, log)

	auditLogRepo := auditlog.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditLogRepo, log)

	assetsRepo := assets.NewRepository(repo)
	ledger := issuance.NewLedger(repo)
	assetService := assets.NewService(assetsRepo, ledger, repo, mail, auditLog, uploadStore, log)
	assetHandler := assets.NewHandler(assetService, tokens, log)

	authRepo := auth.NewRepository(repo)
	authService := auth.NewService(authRepo, tokens, mail, cfg.OtpExpiry, cfg.OtpRequestLimit, log)
	authHandler := auth.NewHandler(authService, log)

	userRepo := users.NewRepository(repo)
	userHandler := users.NewHandler(userRepo)

	contactRepo := contact.NewRepository(repo)
	contactHandler := contact.NewHandler(contactRepo, mail, uploadStore, cfg.DevEmail, log)

	logHandler := auditlog.NewHandler(auditLogRepo)

	return &Container{
		Repository:     repo,
		Tokens:         tokens,
		Uploads:        uploadStore,
		AuditLog:       auditLog,
		AssetHandler:   assetHandler,
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		ContactHandler: contactHandler,
		LogHandler:     logHandler,
	}, nil
}
