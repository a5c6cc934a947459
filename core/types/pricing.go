// Package types - Pricing lookup keys and quotes
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceKey is the composite lookup key for a compute hourly rate
type PriceKey struct {
	// InstanceType is the compute instance type, e.g. "m5.xlarge"
	InstanceType string `json:"instance_type"`

	// Region is the target region, e.g. "ap-southeast-1"
	Region string `json:"region"`

	// Model is the commercial pricing model
	Model PricingModel `json:"model"`
}

// String returns a canonical representation for caching and dedup
func (k PriceKey) String() string {
	return k.InstanceType + "/" + k.Region + "/" + k.Model.String()
}

// StoragePriceKey is the lookup key for a per-GB-month storage rate
type StoragePriceKey struct {
	// VolumeClass is the storage volume class, e.g. "gp3"
	VolumeClass string `json:"volume_class"`

	// Region is the target region
	Region string `json:"region"`
}

// String returns a canonical representation for caching and dedup
func (k StoragePriceKey) String() string {
	return "storage/" + k.VolumeClass + "/" + k.Region
}

// PriceQuote is an immutable resolved price. Quotes are safe to share
// across concurrent lookups once produced.
type PriceQuote struct {
	// Rate is the effective hourly rate, never negative
	Rate decimal.Decimal `json:"rate"`

	// Tier records which source satisfied the lookup
	Tier SourceTier `json:"tier"`

	// RetrievedAt is when the quote was obtained
	RetrievedAt time.Time `json:"retrieved_at"`
}

// NewQuote builds a quote stamped with the current time
func NewQuote(rate decimal.Decimal, tier SourceTier) PriceQuote {
	return PriceQuote{Rate: rate, Tier: tier, RetrievedAt: time.Now().UTC()}
}
