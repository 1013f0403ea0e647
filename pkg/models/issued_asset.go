package models

import "time"

// Ledger entry statuses.
const (
	IssueStatusIssued   = "issued"
	IssueStatusReturned = "returned"
)

// IssuedAsset is one issue/return cycle for an asset. The relation to the
// asset is by asset_number and is informational, not a cascading FK.
type IssuedAsset struct {
	ID            int        `json:"id" db:"id"`
	AssetNumber   string     `json:"asset_number" db:"asset_number"`
	IssuerName    *string    `json:"issuer_name" db:"issuer_name"`
	IssuerEmail   *string    `json:"issuer_email" db:"issuer_email"`
	IssuedTo      string     `json:"issued_to" db:"issued_to"`
	ReceiverEmail string     `json:"receiver_email" db:"receiver_email"`
	IssuedAt      time.Time  `json:"issued_at" db:"issued_at"`
	ReturnAt      *time.Time `json:"return_at" db:"return_at"`
	ReceivedBy    *string    `json:"received_by" db:"received_by"`
	Status        string     `json:"status" db:"status"`
	Notes         *string    `json:"notes" db:"notes"`
}

func (i *IssuedAsset) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   i.ID,
		ResourceType: "issued_asset",
	}
}

type IssueAssetRequest struct {
	AssetNumber   string  `json:"asset_number" binding:"required"`
	IssuedTo      string  `json:"issued_to" binding:"required"`
	ReceiverEmail string  `json:"receiver_email" binding:"required,email"`
	IssuerName    *string `json:"issuer_name"`
	IssuerEmail   *string `json:"issuer_email"`
	Notes         *string `json:"notes"`
}

type ReceiveAssetRequest struct {
	AssetNumber string  `json:"asset_number" binding:"required"`
	Receiver    string  `json:"receiver" binding:"required"`
	NotifyEmail *string `json:"notify_email"`
	Notes       *string `json:"notes"`
}
