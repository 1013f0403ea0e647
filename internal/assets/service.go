package assets

import (
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"github.com/tohidahmed666-design/AssetMGMT/internal/auditlog"
	"github.com/tohidahmed666-design/AssetMGMT/internal/issuance"
	"github.com/tohidahmed666-design/AssetMGMT/internal/repository"
	"github.com/tohidahmed666-design/AssetMGMT/internal/uploads"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/apperrors"
	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
)

// Notifier sends best-effort notices after a lifecycle transition has
// committed. Implementations must never return; failures are theirs to
// log and swallow.
type Notifier interface {
	SendIssueNotice(asset *models.Asset, issued *models.IssuedAsset)
	SendReceiveNotice(asset *models.Asset, issued *models.IssuedAsset, notifyEmail string)
}

// Auditor appends to the audit trail without ever failing the caller.
type Auditor interface {
	LogAs(action string, data map[string]any, item auditlog.Auditable, userID *int)
}

type txRunner func(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) error

// Service is the lifecycle engine. Every transition performs its
// read-check-write inside one transaction; notification and audit side
// effects run after commit and cannot unwind it.
type Service struct {
	assets Repository
	ledger issuance.Ledger
	repo   *repository.Repository
	notify Notifier
	audit  Auditor
	images *uploads.Store
	log    *zap.Logger
	runTx  txRunner
}

func NewService(assets Repository, ledger issuance.Ledger, repo *repository.Repository, notify Notifier, audit Auditor, images *uploads.Store, log *zap.Logger) *Service {
	return &Service{
		assets: assets,
		ledger: ledger,
		repo:   repo,
		notify: notify,
		audit:  audit,
		images: images,
		log:    log,
		runTx:  repository.WithTransaction,
	}
}

func (s *Service) Create(req models.CreateAssetRequest, createdBy *string, userID *int) (*models.Asset, error) {
	assetNumber := strings.TrimSpace(req.AssetNumber)
	category := strings.TrimSpace(req.Category)
	if assetNumber == "" || category == "" {
		return nil, apperrors.NewValidationError("Asset Number and Category are required")
	}

	// asset_number stays unique across soft-deleted rows too.
	exists, err := s.assets.Exists(assetNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("Asset number already registered", "")
	}

	asset := &models.Asset{
		AssetNumber:          assetNumber,
		Category:             category,
		SubCategory:          trimmed(req.SubCategory),
		Type:                 trimmed(req.Type),
		Brand:                trimmed(req.Brand),
		Model:                trimmed(req.Model),
		SerialNumber:         trimmed(req.SerialNumber),
		Location:             trimmed(req.Location),
		AssignedOfficer:      req.AssignedOfficer,
		Notes:                trimmed(req.Notes),
		Status:               models.StatusAvailable,
		Warranty:             trimmed(req.Warranty),
		Barcode:              trimmed(req.Barcode),
		CreatedBy:            createdBy,
		YearOfPurchase:       safeDate(req.YearOfPurchase),
		PurchasePrice:        floatOrZero(req.PurchasePrice),
		Supplier:             trimmed(req.Supplier),
		Depreciation:         floatOrZero(req.Depreciation),
		PropertyRegisterSlNo: trimmed(req.PropertyRegisterSlNo),
		PrPageNo:             trimmed(req.PrPageNo),
		PrDate:               safeDate(req.PrDate),
		InstallDate:          safeDate(req.InstallDate),
		Remarks:              trimmed(req.Remarks),
		Quantity:             quantityOrOne(req.Quantity),
	}

	if req.ImageData != nil && *req.ImageData != "" {
		imagePath, err := s.images.SaveBase64(*req.ImageData)
		if err != nil {
			s.log.Warn("Failed to store asset image", zap.Error(err))
		} else {
			asset.ImageURL = &imagePath
		}
	}

	asset.Fields = DeriveExtensionFields(asset)

	created, err := s.assets.Insert(asset)
	if err != nil {
		var unique *apperrors.UniqueViolationError
		if errors.As(err, &unique) {
			return nil, apperrors.NewConflictError("Asset number already registered", "")
		}
		return nil, err
	}

	go s.audit.LogAs("create", map[string]any{
		"asset_number": created.AssetNumber,
		"category":     created.Category,
		"msg":          "Asset added successfully",
	}, created, userID)

	return created, nil
}

func (s *Service) Get(assetNumber string) (*models.Asset, error) {
	asset, err := s.assets.GetByNumber(assetNumber)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, apperrors.NewNotFoundError("Asset not found")
	}

	return asset, nil
}

func (s *Service) List() ([]models.Asset, error) {
	return s.assets.List()
}

func (s *Service) ListDeleted() ([]models.Asset, error) {
	return s.assets.ListByStatus(models.StatusDeleted)
}

func (s *Service) Exists(assetNumber string) (bool, error) {
	return s.assets.Exists(assetNumber)
}

func (s *Service) ListIssued() ([]models.IssuedAsset, error) {
	return s.ledger.ListOpen()
}

func (s *Service) ListReceived() ([]models.IssuedAsset, error) {
	return s.ledger.ListClosed()
}

func (s *Service) Update(assetNumber string, req models.UpdateAssetRequest, userID *int) (*models.Asset, error) {
	asset, err := s.Get(assetNumber)
	if err != nil {
		return nil, err
	}

	applyString := func(dst **string, src *string) {
		if src != nil {
			*dst = trimmed(src)
		}
	}

	if req.Category != nil && strings.TrimSpace(*req.Category) != "" {
		asset.Category = strings.TrimSpace(*req.Category)
	}
	applyString(&asset.SubCategory, req.SubCategory)
	applyString(&asset.Type, req.Type)
	applyString(&asset.Brand, req.Brand)
	applyString(&asset.Model, req.Model)
	applyString(&asset.SerialNumber, req.SerialNumber)
	applyString(&asset.Location, req.Location)
	applyString(&asset.Notes, req.Notes)
	applyString(&asset.Warranty, req.Warranty)
	applyString(&asset.Barcode, req.Barcode)
	applyString(&asset.Supplier, req.Supplier)
	applyString(&asset.PropertyRegisterSlNo, req.PropertyRegisterSlNo)
	applyString(&asset.PrPageNo, req.PrPageNo)
	applyString(&asset.Remarks, req.Remarks)

	if req.AssignedOfficer != nil {
		asset.AssignedOfficer = req.AssignedOfficer
	}
	if req.PurchasePrice != nil {
		asset.PurchasePrice = *req.PurchasePrice
	}
	if req.Depreciation != nil {
		asset.Depreciation = *req.Depreciation
	}
	if req.Quantity != nil && *req.Quantity >= 0 {
		asset.Quantity = *req.Quantity
	}
	if d := safeDate(req.YearOfPurchase); d != nil {
		asset.YearOfPurchase = d
	}
	if d := safeDate(req.PrDate); d != nil {
		asset.PrDate = d
	}
	if d := safeDate(req.InstallDate); d != nil {
		asset.InstallDate = d
	}

	if req.ImageData != nil && *req.ImageData != "" {
		imagePath, err := s.images.SaveBase64(*req.ImageData)
		if err != nil {
			s.log.Warn("Failed to store asset image", zap.Error(err))
		} else {
			if asset.ImageURL != nil {
				if err := s.images.Remove(*asset.ImageURL); err != nil {
					s.log.Warn("Failed to remove old asset image", zap.Error(err))
				}
			}
			asset.ImageURL = &imagePath
		}
	}

	// Fixed columns are the source of truth; the bag is recomputed on
	// every mutation.
	asset.Fields = DeriveExtensionFields(asset)
	asset.PackFields()

	record := goqu.Record{
		"category":                asset.Category,
		"sub_category":            asset.SubCategory,
		"type":                    asset.Type,
		"brand":                   asset.Brand,
		"model":                   asset.Model,
		"serial_number":           asset.SerialNumber,
		"location":                asset.Location,
		"assigned_officer":        asset.AssignedOfficer,
		"notes":                   asset.Notes,
		"warranty":                asset.Warranty,
		"barcode":                 asset.Barcode,
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

	if err := s.assets.Update(assetNumber, record); err != nil {
		return nil, err
	}

	go s.audit.LogAs("update", map[string]any{
		"asset_number": asset.AssetNumber,
		"msg":          "Asset updated successfully",
	}, asset, userID)

	return asset, nil
}

// Issue transitions an available asset to issued and opens a ledger
// entry, all in one transaction. The status-guarded update serializes
// concurrent issues: exactly one caller wins, the other gets a conflict
// naming the asset's current status.
func (s *Service) Issue(req models.IssueAssetRequest, userID *int) (*models.Asset, *models.IssuedAsset, error) {
	var asset *models.Asset
	var issued *models.IssuedAsset

	err := s.runTx(s.repo.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		asset, err = s.assets.GetByNumberTx(tx, req.AssetNumber)
		if err != nil {
			return err
		}
		if asset == nil {
			return apperrors.NewNotFoundError("Asset not found")
		}

		// At most one open ledger entry per asset. The asset status alone
		// is not enough: delete and recover reset it to available without
		// touching the ledger, so the open entry is checked directly.
		open, err := s.ledger.GetOpenTx(tx, req.AssetNumber)
		if err != nil {
			return err
		}
		if open != nil {
			return apperrors.NewConflictError("Asset already has an open issue record", asset.Status)
		}

		ok, err := s.assets.UpdateStatusGuarded(tx, req.AssetNumber, models.StatusAvailable, models.StatusIssued)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewConflictError("Asset is not available for issue", asset.Status)
		}
		asset.Status = models.StatusIssued

		issued, err = s.ledger.OpenIssue(tx, &models.IssuedAsset{
			AssetNumber:   req.AssetNumber,
			IssuerName:    req.IssuerName,
			IssuerEmail:   req.IssuerEmail,
			IssuedTo:      req.IssuedTo,
			ReceiverEmail: req.ReceiverEmail,
			IssuedAt:      time.Now(),
			Notes:         req.Notes,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	go s.notify.SendIssueNotice(asset, issued)
	go s.audit.LogAs("issue", map[string]any{
		"asset_number": asset.AssetNumber,
		"issued_to":    issued.IssuedTo,
		"msg":          "Asset issued successfully",
	}, asset, userID)

	return asset, issued, nil
}

// Receive closes the open ledger entry and puts the asset back to
// available. A concurrent receive loses on the status-guarded ledger
// update and reports not-found.
func (s *Service) Receive(req models.ReceiveAssetRequest, userID *int) (*models.Asset, *models.IssuedAsset, error) {
	var asset *models.Asset
	var entry *models.IssuedAsset

	err := s.runTx(s.repo.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var err error
		entry, err = s.ledger.CloseIssue(tx, req.AssetNumber, req.Receiver, req.Notes)
		if err != nil {
			return err
		}
		if entry == nil {
			return apperrors.NewNotFoundError("Issued asset record not found")
		}

		// The asset may have been force-deleted while out; closing the
		// ledger entry still stands on its own then.
		if _, err := s.assets.UpdateStatusGuarded(tx, req.AssetNumber, models.StatusIssued, models.StatusAvailable); err != nil {
			return err
		}

		asset, err = s.assets.GetByNumberTx(tx, req.AssetNumber)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if asset != nil && req.NotifyEmail != nil && *req.NotifyEmail != "" {
		go s.notify.SendReceiveNotice(asset, entry, *req.NotifyEmail)
	}
	go s.audit.LogAs("receive", map[string]any{
		"asset_number": entry.AssetNumber,
		"received_by":  req.Receiver,
		"msg":          "Asset received successfully",
	}, entry, userID)

	return asset, entry, nil
}

// Delete soft-deletes the asset. The row survives so the asset number
// stays reserved; only the stored image file is removed.
func (s *Service) Delete(assetNumber string, userID *int) error {
	asset, err := s.Get(assetNumber)
	if err != nil {
		return err
	}
	if asset.Status == models.StatusDeleted {
		return apperrors.NewConflictError("Asset already deleted", asset.Status)
	}

	if err := s.assets.Update(assetNumber, goqu.Record{"status": models.StatusDeleted}); err != nil {
		return err
	}

	if asset.ImageURL != nil {
		if err := s.images.Remove(*asset.ImageURL); err != nil {
			s.log.Warn("Failed to remove asset image", zap.Error(err))
		}
	}

	go s.audit.LogAs("delete", map[string]any{
		"asset_number": asset.AssetNumber,
		"msg":          "Asset deleted successfully",
	}, asset, userID)

	return nil
}

func (s *Service) Recover(assetNumber string, userID *int) error {
	asset, err := s.Get(assetNumber)
	if err != nil {
		return err
	}
	if asset.Status != models.StatusDeleted {
		return apperrors.NewConflictError("Asset is not deleted", asset.Status)
	}

	if err := s.assets.Update(assetNumber, goqu.Record{"status": models.StatusAvailable}); err != nil {
		return err
	}

	go s.audit.LogAs("recover", map[string]any{
		"asset_number": asset.AssetNumber,
		"msg":          "Asset recovered successfully",
	}, asset, userID)

	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || v == "-" {
		return nil
	}
	return &v
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func quantityOrOne(q *int) int {
	if q == nil || *q < 0 {
		return 1
	}
	return *q
}

// safeDate accepts the date shapes the frontend sends: bare dates,
// RFC3339 timestamps, and the "-" placeholder.
func safeDate(input *string) *time.Time {
	if input == nil {
		return nil
	}
	v := strings.TrimSpace(*input)
	if v == "" || v == "-" {
		return nil
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}

	return nil
}
