package issuance

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/tohidahmed666-design/AssetMGMT/internal/repository"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
)

var ledgerColumns = []any{
	"id", "asset_number", "issuer_name", "issuer_email", "issued_to",
	"receiver_email", "issued_at", "return_at", "received_by", "status",
	"notes",
}

// Ledger is the append/update log of issue and return events. Entries
// are created on issue, closed in place on return, and never deleted.
type Ledger interface {
	OpenIssue(tx *goqu.TxDatabase, entry *models.IssuedAsset) (*models.IssuedAsset, error)
	CloseIssue(tx *goqu.TxDatabase, assetNumber, receiver string, notes *string) (*models.IssuedAsset, error)
	GetOpen(assetNumber string) (*models.IssuedAsset, error)
	GetOpenTx(tx *goqu.TxDatabase, assetNumber string) (*models.IssuedAsset, error)
	ListOpen() ([]models.IssuedAsset, error)
	ListClosed() ([]models.IssuedAsset, error)
}

type ledgerRepository struct {
	repository *repository.Repository
}

func NewLedger(r *repository.Repository) Ledger {
	return &ledgerRepository{repository: r}
}

func (r *ledgerRepository) OpenIssue(tx *goqu.TxDatabase, entry *models.IssuedAsset) (*models.IssuedAsset, error) {
	var id int
	query := tx.Insert("issued_assets").
		Rows(goqu.Record{
			"asset_number":   entry.AssetNumber,
			"issuer_name":    entry.IssuerName,
			"issuer_email":   entry.IssuerEmail,
			"issued_to":      entry.IssuedTo,
			"receiver_email": entry.ReceiverEmail,
			"issued_at":      entry.IssuedAt,
			"status":         models.IssueStatusIssued,
			"notes":          entry.Notes,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&id); err != nil {
		return nil, fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	entry.ID = id
	entry.Status = models.IssueStatusIssued
	return entry, nil
}

// CloseIssue transitions the single open entry for the asset to
// returned. The update is status-guarded, so a concurrent close loses
// and gets a nil entry back.
func (r *ledgerRepository) CloseIssue(tx *goqu.TxDatabase, assetNumber, receiver string, notes *string) (*models.IssuedAsset, error) {
	record := goqu.Record{
		"status":      models.IssueStatusReturned,
		"return_at":   time.Now(),
		"received_by": receiver,
	}
	if notes != nil && *notes != "" {
		record["notes"] = *notes
	}

	var entry models.IssuedAsset
	query := tx.Update("issued_assets").
		Set(record).
		Where(goqu.Ex{
			"asset_number": assetNumber,
			"status":       models.IssueStatusIssued,
		}).
		Returning(ledgerColumns...)

	found, err := query.Executor().ScanStruct(&entry)
	if err != nil {
		return nil, fmt.Errorf("failed to close ledger entry: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &entry, nil
}

func (r *ledgerRepository) GetOpen(assetNumber string) (*models.IssuedAsset, error) {
	query := r.repository.GoquDBWrapper.
		Select(ledgerColumns...).
		From("issued_assets").
		Where(goqu.Ex{
			"asset_number": assetNumber,
			"status":       models.IssueStatusIssued,
		})

	return scanEntry(query)
}

func (r *ledgerRepository) GetOpenTx(tx *goqu.TxDatabase, assetNumber string) (*models.IssuedAsset, error) {
	query := tx.
		Select(ledgerColumns...).
		From("issued_assets").
		Where(goqu.Ex{
			"asset_number": assetNumber,
			"status":       models.IssueStatusIssued,
		})

	return scanEntry(query)
}

func (r *ledgerRepository) ListOpen() ([]models.IssuedAsset, error) {
	return r.listByStatus(models.IssueStatusIssued)
}

func (r *ledgerRepository) ListClosed() ([]models.IssuedAsset, error) {
	return r.listByStatus(models.IssueStatusReturned)
}

func (r *ledgerRepository) listByStatus(status string) ([]models.IssuedAsset, error) {
	var entries []models.IssuedAsset
	query := r.repository.GoquDBWrapper.
		Select(ledgerColumns...).
		From("issued_assets").
		Where(goqu.Ex{"status": status}).
		Order(goqu.I("issued_at").Desc())

	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("unable to select ledger entries: %w", err)
	}

	return entries, nil
}

func scanEntry(query *goqu.SelectDataset) (*models.IssuedAsset, error) {
	var entry models.IssuedAsset
	found, err := query.Executor().ScanStruct(&entry)
	if err != nil {
		return nil, fmt.Errorf("unable to select ledger entry: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &entry, nil
}
