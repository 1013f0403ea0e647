package assets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tohidahmed666-design/AssetMGMT/pkg/models"
)

func TestDeriveExtensionFields(t *testing.T) {
	brand := "Dell"
	subCategory := "Laptop"
	installDate := time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC)

	asset := &models.Asset{
		AssetNumber:   "IT-001",
		Category:      "Electronics",
		SubCategory:   &subCategory,
		Brand:         &brand,
		InstallDate:   &installDate,
		Quantity:      2,
		PurchasePrice: 45000.50,
	}

	fields := DeriveExtensionFields(asset)

	assert.Equal(t, "IT-001", fields["ASSET_SLNO"])
	assert.Equal(t, "Electronics", fields["CATEGORY"])
	assert.Equal(t, "Laptop", fields["ASSET_TYPE"])
	assert.Equal(t, "Dell", fields["BRAND_NAME"])
	assert.Equal(t, "2023-04-15", fields["INSTALL DATE"])
	assert.Equal(t, "2", fields["QUANTITY"])
	assert.Equal(t, "45000.5", fields["PURCHASE_PRICE"])
	assert.Equal(t, "-", fields["MODEL_NO"])
	assert.Equal(t, "-", fields["LOCATION"])
}

func TestDeriveExtensionFieldsIsIdempotent(t *testing.T) {
	model := "XPS 13"
	asset := &models.Asset{
		AssetNumber: "IT-002",
		Category:    "Electronics",
		Model:       &model,
		Quantity:    1,
	}

	first := DeriveExtensionFields(asset)
	asset.Fields = first
	second := DeriveExtensionFields(asset)

	assert.Equal(t, first, second)
}

func TestDeriveExtensionFieldsFixedColumnWins(t *testing.T) {
	location := "Server Room"
	asset := &models.Asset{
		AssetNumber: "IT-003",
		Category:    "Electronics",
		Location:    &location,
		Quantity:    1,
		// Stale bag values from a previous edit must not survive.
		Fields: map[string]string{
			"LOCATION":   "Old Office",
			"ASSET_SLNO": "WRONG-999",
		},
	}

	fields := DeriveExtensionFields(asset)

	assert.Equal(t, "Server Room", fields["LOCATION"])
	assert.Equal(t, "IT-003", fields["ASSET_SLNO"])
}

func TestDeriveExtensionFieldsBarcodeFallback(t *testing.T) {
	asset := &models.Asset{
		AssetNumber: "IT-004",
		Category:    "Furniture",
		Quantity:    1,
	}

	fields := DeriveExtensionFields(asset)
	assert.Equal(t, "IT-004", fields["BARCODE"])

	barcode := "BC-778899"
	asset.Barcode = &barcode
	fields = DeriveExtensionFields(asset)
	assert.Equal(t, "BC-778899", fields["BARCODE"])
}

func TestDeriveExtensionFieldsTypeFallback(t *testing.T) {
	assetType := "Projector"
	asset := &models.Asset{
		AssetNumber: "IT-005",
		Category:    "Electronics",
		Type:        &assetType,
		Quantity:    1,
	}

	fields := DeriveExtensionFields(asset)
	assert.Equal(t, "Projector", fields["ASSET_TYPE"])

	subCategory := "AV Equipment"
	asset.SubCategory = &subCategory
	fields = DeriveExtensionFields(asset)
	assert.Equal(t, "AV Equipment", fields["ASSET_TYPE"])
}
