package assets

import (
	"strconv"
	"time"

	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
)

// DeriveExtensionFields rebuilds the free-form extension bag from the
// asset's fixed columns. The derivation is pure and idempotent: the
// fixed column always wins over whatever was stored in the bag before,
// so repeated updates cannot drift.
func DeriveExtensionFields(a *models.Asset) map[string]string {
	fields := map[string]string{
		"ASSET_SLNO":              orDash(a.AssetNumber),
		"CATEGORY":                orDash(a.Category),
		"ASSET_TYPE":              firstOf(a.SubCategory, a.Type),
		"BRAND_NAME":              strOrDash(a.Brand),
		"MODEL_NO":                strOrDash(a.Model),
		"SERIAL_NUMBER":           strOrDash(a.SerialNumber),
		"LOCATION":                strOrDash(a.Location),
		"WARRANTY":                strOrDash(a.Warranty),
		"SUPPLIED BY":             strOrDash(a.Supplier),
		"PROPERTY REGISTER SL NO": strOrDash(a.PropertyRegisterSlNo),
		"PR PAGE NO":              strOrDash(a.PrPageNo),
		"PR DATE":                 dateOrDash(a.PrDate),
		"INSTALL DATE":            dateOrDash(a.InstallDate),
		"REMARKS":                 strOrDash(a.Remarks),
		"QUANTITY":                strconv.Itoa(a.Quantity),
		"PURCHASE_PRICE":          strconv.FormatFloat(a.PurchasePrice, 'f', -1, 64),
		"DEPRECIATION":            strconv.FormatFloat(a.Depreciation, 'f', -1, 64),
	}

	// The barcode falls back to the asset number so labels can always
	// be printed.
	if a.Barcode != nil && *a.Barcode != "" {
		fields["BARCODE"] = *a.Barcode
	} else {
		fields["BARCODE"] = a.AssetNumber
	}

	return fields
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func firstOf(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return "-"
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
