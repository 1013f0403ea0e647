package assets

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/tohidahmed666-design/AssetMGMT/internal/repository"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/apperrors"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
)

var assetColumns = []any{
	"id", "asset_number", "category", "sub_category", "type", "brand",
	"model", "serial_number", "location", "assigned_officer", "notes",
	"status", "warranty", "barcode", "created_by", "year_of_purchase",
	"purchase_price", "supplier", "depreciation", "property_register_sl_no",
	"pr_page_no", "pr_date", "install_date", "image_url", "remarks",
	"quantity", "fields", "created_at", "updated_at",
}

// Repository stores asset records. The uniqueness of asset_number is
// backed by a DB constraint and surfaces as UniqueViolationError.
type Repository interface {
	GetByNumber(assetNumber string) (*models.Asset, error)
	GetByNumberTx(tx *goqu.TxDatabase, assetNumber string) (*models.Asset, error)
	List() ([]models.Asset, error)
	ListByStatus(status string) ([]models.Asset, error)
	Exists(assetNumber string) (bool, error)
	Insert(asset *models.Asset) (*models.Asset, error)
	Update(assetNumber string, record goqu.Record) error
	UpdateStatusGuarded(tx *goqu.TxDatabase, assetNumber, fromStatus, toStatus string) (bool, error)
}

type assetsRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) Repository {
	return &assetsRepository{repository: r}
}

func (r *assetsRepository) GetByNumber(assetNumber string) (*models.Asset, error) {
	query := r.repository.GoquDBWrapper.
		Select(assetColumns...).
		From("assets").
		Where(goqu.Ex{"asset_number": assetNumber})

	return scanAsset(query)
}

func (r *assetsRepository) GetByNumberTx(tx *goqu.TxDatabase, assetNumber string) (*models.Asset, error) {
	query := tx.
		Select(assetColumns...).
		From("assets").
		Where(goqu.Ex{"asset_number": assetNumber})

	return scanAsset(query)
}

func (r *assetsRepository) List() ([]models.Asset, error) {
	query := r.repository.GoquDBWrapper.
		Select(assetColumns...).
		From("assets").
		Where(goqu.C("status").Neq(models.StatusDeleted)).
		Order(goqu.I("id").Asc())

	return scanAssets(query)
}

func (r *assetsRepository) ListByStatus(status string) ([]models.Asset, error) {
	query := r.repository.GoquDBWrapper.
		Select(assetColumns...).
		From("assets").
		Where(goqu.Ex{"status": status}).
		Order(goqu.I("id").Asc())

	return scanAssets(query)
}

func (r *assetsRepository) Exists(assetNumber string) (bool, error) {
	var id int
	query := r.repository.GoquDBWrapper.
		Select("id").
		From("assets").
		Where(goqu.Ex{"asset_number": assetNumber})

	found, err := query.Executor().ScanVal(&id)
	if err != nil {
		return false, fmt.Errorf("unable to check asset existence: %w", err)
	}

	return found, nil
}

func (r *assetsRepository) Insert(asset *models.Asset) (*models.Asset, error) {
	asset.PackFields()

	record := goqu.Record{
		"asset_number":            asset.AssetNumber,
		"category":                asset.Category,
		"sub_category":            asset.SubCategory,
		"type":                    asset.Type,
		"brand":                   asset.Brand,
		"model":                   asset.Model,
		"serial_number":           asset.SerialNumber,
		"location":                asset.Location,
		"assigned_officer":        asset.AssignedOfficer,
		"notes":                   asset.Notes,
		"status":                  asset.Status,
		"warranty":                asset.Warranty,
		"barcode":                 asset.Barcode,
		"created_by":              asset.CreatedBy,
		"year_of_purchase":        asset.YearOfPurchase,
		"purchase_price":          asset.PurchasePrice,
		"supplier":                asset.Supplier,
		"depreciation":            asset.Depreciation,
		"property_register_sl_no": asset.PropertyRegisterSlNo,
		"pr_page_no":              asset.PrPageNo,
		"pr_date":                 asset.PrDate,
		"install_date":            asset.InstallDate,
		"image_url":               asset.ImageURL,
		"remarks":                 asset.Remarks,
		"quantity":                asset.Quantity,
		"fields":                  asset.FieldsRaw,
	}

	var id int
	query := r.repository.GoquDBWrapper.Insert("assets").
		Rows(record).
		Returning("id")

	if _, err := query.Executor().ScanVal(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, apperrors.WrapDBError("Duplicate asset number", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert asset record: %w", err)
	}

	return r.GetByNumber(asset.AssetNumber)
}

func (r *assetsRepository) Update(assetNumber string, record goqu.Record) error {
	record["updated_at"] = goqu.L("NOW()")

	query := r.repository.GoquDBWrapper.
		Update("assets").
		Set(record).
		Where(goqu.Ex{"asset_number": assetNumber})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("no asset found with number: %s", assetNumber)
	}

	return nil
}

// UpdateStatusGuarded flips the status only when the current value still
// matches fromStatus. Two racing transitions are serialized by the store
// and the loser sees false.
func (r *assetsRepository) UpdateStatusGuarded(tx *goqu.TxDatabase, assetNumber, fromStatus, toStatus string) (bool, error) {
	result, err := tx.Update("assets").
		Set(goqu.Record{
			"status":     toStatus,
			"updated_at": goqu.L("NOW()"),
		}).
		Where(goqu.Ex{
			"asset_number": assetNumber,
			"status":       fromStatus,
		}).
		Executor().
		Exec()

	if err != nil {
		return false, fmt.Errorf("failed to update asset status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

func scanAsset(query *goqu.SelectDataset) (*models.Asset, error) {
	var asset models.Asset
	found, err := query.Executor().ScanStruct(&asset)
	if err != nil {
		return nil, fmt.Errorf("unable to select asset from database: %w", err)
	}
	if !found {
		return nil, nil
	}

	asset.LoadFields()
	return &asset, nil
}

func scanAssets(query *goqu.SelectDataset) ([]models.Asset, error) {
	var assets []models.Asset
	if err := query.Executor().ScanStructs(&assets); err != nil {
		return nil, fmt.Errorf("unable to select assets from database: %w", err)
	}

	for i := range assets {
		assets[i].LoadFields()
	}

	return assets, nil
}
