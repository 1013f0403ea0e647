package models

import (
	"encoding/json"
	"time"
)

// Asset statuses. A returned asset goes back to StatusAvailable; the
// "returned" state lives on the ledger entry only.
const (
	StatusAvailable = "available"
	StatusIssued    = "issued"
	StatusDeleted   = "deleted"
)

type Asset struct {
	ID                   int               `json:"id" db:"id"`
	AssetNumber          string            `json:"asset_number" db:"asset_number"`
	Category             string            `json:"category" db:"category"`
	SubCategory          *string           `json:"sub_category" db:"sub_category"`
	Type                 *string           `json:"type" db:"type"`
	Brand                *string           `json:"brand" db:"brand"`
	Model                *string           `json:"model" db:"model"`
	SerialNumber         *string           `json:"serial_number" db:"serial_number"`
	Location             *string           `json:"location" db:"location"`
	AssignedOfficer      *int              `json:"assigned_officer" db:"assigned_officer"`
	Notes                *string           `json:"notes" db:"notes"`
	Status               string            `json:"status" db:"status"`
	Warranty             *string           `json:"warranty" db:"warranty"`
	Barcode              *string           `json:"barcode" db:"barcode"`
	CreatedBy            *string           `json:"created_by" db:"created_by"`
	YearOfPurchase       *time.Time        `json:"year_of_purchase" db:"year_of_purchase"`
	PurchasePrice        float64           `json:"purchase_price" db:"purchase_price"`
	Supplier             *string           `json:"supplier" db:"supplier"`
	Depreciation         float64           `json:"depreciation" db:"depreciation"`
	PropertyRegisterSlNo *string           `json:"property_register_sl_no" db:"property_register_sl_no"`
	PrPageNo             *string           `json:"pr_page_no" db:"pr_page_no"`
	PrDate               *time.Time        `json:"pr_date" db:"pr_date"`
	InstallDate          *time.Time        `json:"install_date" db:"install_date"`
	ImageURL             *string           `json:"image_url" db:"image_url"`
	Remarks              *string           `json:"remarks" db:"remarks"`
	Quantity             int               `json:"quantity" db:"quantity"`
	Fields               map[string]string `json:"fields" db:"-"`
	FieldsRaw            string            `json:"-" db:"fields"`
	CreatedAt            time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at" db:"updated_at"`
}

// LoadFields unpacks the stored extension bag after a DB read.
func (a *Asset) LoadFields() {
	a.Fields = map[string]string{}
	if a.FieldsRaw != "" {
		_ = json.Unmarshal([]byte(a.FieldsRaw), &a.Fields)
	}
}

// PackFields serializes the extension bag for persistence.
func (a *Asset) PackFields() {
	raw, err := json.Marshal(a.Fields)
	if err != nil {
		a.FieldsRaw = "{}"
		return
	}
	a.FieldsRaw = string(raw)
}

func (a *Asset) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   a.ID,
		ResourceType: "asset",
	}
}

type CreateAssetRequest struct {
	AssetNumber          string   `json:"asset_number" binding:"required"`
	Category             string   `json:"category" binding:"required"`
	SubCategory          *string  `json:"sub_category"`
	Type                 *string  `json:"type"`
	Brand                *string  `json:"brand"`
	Model                *string  `json:"model"`
	SerialNumber         *string  `json:"serial_number"`
	Location             *string  `json:"location"`
	AssignedOfficer      *int     `json:"assigned_officer"`
	Notes                *string  `json:"notes"`
	Warranty             *string  `json:"warranty"`
	Barcode              *string  `json:"barcode"`
	YearOfPurchase       *string  `json:"year_of_purchase"`
	PurchasePrice        *float64 `json:"purchase_price"`
	Supplier             *string  `json:"supplier"`
	Depreciation         *float64 `json:"depreciation"`
	PropertyRegisterSlNo *string  `json:"property_register_sl_no"`
	PrPageNo             *string  `json:"pr_page_no"`
	PrDate               *string  `json:"pr_date"`
	InstallDate          *string  `json:"install_date"`
	ImageData            *string  `json:"image_url"`
	Remarks              *string  `json:"remarks"`
	Quantity             *int     `json:"quantity"`
}

type UpdateAssetRequest struct {
	Category             *string  `json:"category"`
	SubCategory          *string  `json:"sub_category"`
	Type                 *string  `json:"type"`
	Brand                *string  `json:"brand"`
	Model                *string  `json:"model"`
	SerialNumber         *string  `json:"serial_number"`
	Location             *string  `json:"location"`
	AssignedOfficer      *int     `json:"assigned_officer"`
	Notes                *string  `json:"notes"`
	Warranty             *string  `json:"warranty"`
	Barcode              *string  `json:"barcode"`
	YearOfPurchase       *string  `json:"year_of_purchase"`
	PurchasePrice        *float64 `json:"purchase_price"`
	Supplier             *string  `json:"supplier"`
	Depreciation         *float64 `json:"depreciation"`
	PropertyRegisterSlNo *string  `json:"property_register_sl_no"`
	PrPageNo             *string  `json:"pr_page_no"`
	PrDate               *string  `json:"pr_date"`
	InstallDate          *string  `json:"install_date"`
	ImageData            *string  `json:"image_url"`
	Remarks              *string  `json:"remarks"`
	Quantity             *int     `json:"quantity"`
}
