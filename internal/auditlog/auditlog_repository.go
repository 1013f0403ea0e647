package auditlog

import (
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/tohidahmed666-design/AssetMGMT/internal/repository"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
)

type AuditLogRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AuditLogRepository {
	return &AuditLogRepository{repository: r}
}

func (r *AuditLogRepository) PersistLog(auditlog models.AuditLog, data map[string]any) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal audit log data: %w", err)
	}

	record := goqu.Record{
		"resource_id":   auditlog.ResourceID,
		"resource_type": auditlog.ResourceType,
		"action":        auditlog.Action,
		"data":          dataJSON,
	}
	if auditlog.UserID != nil {
		record["user_id"] = *auditlog.UserID
	}

	query := r.repository.GoquDBWrapper.Insert("audit_logs").Rows(record)

	_, err = query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *AuditLogRepository) GetLogs(limit int) ([]models.AuditLog, error) {
	query := r.logQuery().Order(goqu.I("a.created_at").Desc())
	if limit > 0 {
		query = query.Limit(uint(limit))
	}

	return r.scanLogs(query)
}

func (r *AuditLogRepository) GetResourceLog(id int, resourceType string) ([]models.AuditLog, error) {
	query := r.logQuery().
		Where(goqu.Ex{
			"a.resource_id":   id,
			"a.resource_type": resourceType,
		}).
		Order(goqu.I("a.created_at").Desc())

	return r.scanLogs(query)
}

func (r *AuditLogRepository) logQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("audit_logs").As("a")).
		Select(
			goqu.I("a.id").As("id"),
			goqu.I("a.resource_id").As("resource_id"),
			goqu.I("a.resource_type").As("resource_type"),
			goqu.I("a.action").As("action"),
			goqu.I("a.data").As("data"),
			goqu.I("a.user_id").As("user_id"),
			goqu.I("a.created_at").As("created_at"),
		)
}

func (r *AuditLogRepository) scanLogs(query *goqu.SelectDataset) ([]models.AuditLog, error) {
	var auditLogs []models.AuditLog
	if err := query.Executor().ScanStructs(&auditLogs); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	for i := range auditLogs {
		auditLogs[i].LoadFromDB()
	}

	return auditLogs, nil
}
