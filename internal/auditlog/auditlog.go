package auditlog

import (
	"go.uber.org/zap"

	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
)

// Auditable is implemented by every resource that can appear in the
// audit trail.
type Auditable interface {
	CreateLogView() models.AuditLog
}

// Auditlog appends administrative actions to the audit trail. Writes are
// best-effort: a failure is logged and swallowed so it can never block
// or fail the primary operation.
type Auditlog struct {
	r   *AuditLogRepository
	log *zap.Logger
}

func NewAuditLog(r *AuditLogRepository, log *zap.Logger) *Auditlog {
	return &Auditlog{r: r, log: log}
}

func (a *Auditlog) Log(action string, data map[string]any, item Auditable) {
	a.LogAs(action, data, item, nil)
}

// LogAs records an action attributed to a specific user.
func (a *Auditlog) LogAs(action string, data map[string]any, item Auditable, userID *int) {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	auditLog.UserID = userID

	if err := a.r.PersistLog(auditLog, data); err != nil {
		a.log.Warn("Unable to create audit log entry",
			zap.Int("resource_id", auditLog.ResourceID),
			zap.String("resource_type", auditLog.ResourceType),
			zap.String("action", action),
			zap.Error(err),
		)
		return
	}

	a.log.Debug("Created audit log entry",
		zap.Int("resource_id", auditLog.ResourceID),
		zap.String("action", action),
	)
}
