package domain

import (
	"errors"
	"strings"
	"time"
)

// AssetType classifies a financial asset.
type AssetType string

const (
	AssetTypeSavings    AssetType = "SAVINGS"
	AssetTypeFD         AssetType = "FD"
	AssetTypeRD         AssetType = "RD"
	AssetTypePPF        AssetType = "PPF"  // Public Provident Fund
	AssetTypeSCSS       AssetType = "SCSS" // Senior Citizen Savings Scheme
	AssetTypeFlexiRD    AssetType = "FLEXI_RD"
	AssetTypeEquity     AssetType = "EQUITY"
	AssetTypeMutualFund AssetType = "MUTUAL_FUND"
)

// Valid reports whether t is a known asset type.
func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeSavings, AssetTypeFD, AssetTypeRD, AssetTypePPF,
		AssetTypeSCSS, AssetTypeFlexiRD, AssetTypeEquity, AssetTypeMutualFund:
		return true
	}
	return false
}

// Asset is one financial holding owned by a user. Details holds flexible
// leftovers (account numbers, ISIN, folio numbers); it is encrypted at the
// storage layer before it reaches the database.
type Asset struct {
	ID              string
	UserID          int64
	Name            string // user-friendly nickname like "Main Savings"
	InstitutionName string // bank, exchange, or wallet name
	Type            AssetType
	Currency        string
	Purpose         string
	// InterestRate is decimal text (e.g. "7.50"); the numeric(5,2) column
	// enforces range and scale. Empty when not applicable.
	InterestRate string
	IsActive     bool
	Details      map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate validates the asset for persistence. Returns an error describing the first validation failure.
func (a *Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(a.InstitutionName) == "" {
		return errors.New("institution name is required")
	}
	if !a.Type.Valid() {
		return errors.New("invalid asset type")
	}
	if a.UserID <= 0 {
		return errors.New("user id is required")
	}
	return nil
}
