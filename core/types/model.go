// Package types - Pricing model variant
package types

import (
	"fmt"

	"fleet-cost/internal/errors"
)

// ModelKind discriminates the pricing model variant
type ModelKind string

const (
	ModelOnDemand    ModelKind = "on_demand"
	ModelReserved    ModelKind = "reserved"
	ModelSavingsPlan ModelKind = "savings_plan"
	ModelSpot        ModelKind = "spot"
)

// String returns the string representation
func (k ModelKind) String() string {
	return string(k)
}

// PricingModel is a closed tagged variant describing how a price is
// computed. Construct values through OnDemand, Reserved, SavingsPlan or
// Spot; a zero PricingModel is invalid.
type PricingModel struct {
	// Kind selects the variant
	Kind ModelKind `json:"kind"`

	// Term applies to Reserved and SavingsPlan
	Term CommitmentTerm `json:"term,omitempty"`

	// Payment applies to Reserved and SavingsPlan
	Payment PaymentOption `json:"payment,omitempty"`

	// OfferingClass applies to Reserved only
	OfferingClass OfferingClass `json:"offering_class,omitempty"`

	// Scope applies to SavingsPlan only
	Scope PlanScope `json:"scope,omitempty"`
}

// OnDemand builds an on-demand pricing model
func OnDemand() PricingModel {
	return PricingModel{Kind: ModelOnDemand}
}

// Reserved builds a reserved-instance pricing model
func Reserved(term CommitmentTerm, payment PaymentOption, class OfferingClass) PricingModel {
	return PricingModel{Kind: ModelReserved, Term: term, Payment: payment, OfferingClass: class}
}

// SavingsPlan builds a savings-plan pricing model
func SavingsPlan(scope PlanScope, term CommitmentTerm, payment PaymentOption) PricingModel {
	return PricingModel{Kind: ModelSavingsPlan, Scope: scope, Term: term, Payment: payment}
}

// Spot builds a spot pricing model
func Spot() PricingModel {
	return PricingModel{Kind: ModelSpot}
}

// Validate checks the variant is well-formed. The switch is exhaustive
// over ModelKind; an unknown kind is a configuration error.
func (m PricingModel) Validate() error {
	switch m.Kind {
	case ModelOnDemand, ModelSpot:
		if m.Term != "" || m.Payment != "" || m.OfferingClass != "" || m.Scope != "" {
			return errors.Newf(errors.TypeConfig, "pricing model %s takes no commitment attributes", m.Kind)
		}
		return nil
	case ModelReserved:
		if !m.Term.Valid() {
			return errors.Newf(errors.TypeConfig, "reserved model has invalid term %q", m.Term)
		}
		if !m.Payment.Valid() {
			return errors.Newf(errors.TypeConfig, "reserved model has invalid payment %q", m.Payment)
		}
		if !m.OfferingClass.Valid() {
			return errors.Newf(errors.TypeConfig, "reserved model has invalid offering class %q", m.OfferingClass)
		}
		if m.Scope != "" {
			return errors.New(errors.TypeConfig, "reserved model does not take a plan scope")
		}
		return nil
	case ModelSavingsPlan:
		if !m.Scope.Valid() {
			return errors.Newf(errors.TypeConfig, "savings plan has invalid scope %q", m.Scope)
		}
		if !m.Term.Valid() {
			return errors.Newf(errors.TypeConfig, "savings plan has invalid term %q", m.Term)
		}
		if !m.Payment.Valid() {
			return errors.Newf(errors.TypeConfig, "savings plan has invalid payment %q", m.Payment)
		}
		if m.OfferingClass != "" {
			return errors.New(errors.TypeConfig, "savings plan does not take an offering class")
		}
		return nil
	default:
		return errors.Newf(errors.TypeConfig, "unknown pricing model kind %q", m.Kind)
	}
}

// IsCommitment reports whether the model carries a term commitment
func (m PricingModel) IsCommitment() bool {
	return m.Kind == ModelReserved || m.Kind == ModelSavingsPlan
}

// WithTerm returns a copy of the model with a different commitment term.
// Only meaningful for commitment models.
func (m PricingModel) WithTerm(term CommitmentTerm) PricingModel {
	m.Term = term
	return m
}

// String returns a canonical representation used in cache keys. The
// layout is stable; changing it invalidates persisted caches.
func (m PricingModel) String() string {
	switch m.Kind {
	case ModelReserved:
		return fmt.Sprintf("%s/%s/%s/%s", m.Kind, m.Term, m.Payment, m.OfferingClass)
	case ModelSavingsPlan:
		return fmt.Sprintf("%s/%s/%s/%s", m.Kind, m.Scope, m.Term, m.Payment)
	default:
		return string(m.Kind)
	}
}

// Label returns a short human-readable label for reports
func (m PricingModel) Label() string {
	switch m.Kind {
	case ModelOnDemand:
		return "On-Demand"
	case ModelReserved:
		return fmt.Sprintf("Reserved %s %s", m.Term, m.Payment)
	case ModelSavingsPlan:
		return fmt.Sprintf("Savings Plan %s %s %s", m.Scope, m.Term, m.Payment)
	case ModelSpot:
		return "Spot"
	default:
		return string(m.Kind)
	}
}
