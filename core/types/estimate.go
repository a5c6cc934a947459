// Package types - Cost estimates and batch results
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoursPerMonth is the fixed hours-in-month constant applied to every
// compute estimate. Not calendar-accurate; all estimates share one
// comparable basis.
var HoursPerMonth = decimal.NewFromFloat(730.0)

// CostEstimate is the per-workload output of an aggregation run. It is
// created once and never mutated; re-running aggregation produces a new
// estimate.
type CostEstimate struct {
	// WorkloadID identifies the source workload
	WorkloadID string `json:"workload_id"`

	// InstanceType is the resolved instance type. May differ from the
	// initially recommended type after regional substitution.
	InstanceType string `json:"instance_type"`

	// Model is the pricing model actually applied, including any term
	// downgrade performed during resolution
	Model PricingModel `json:"model"`

	// Classification is carried from the workload for grouping
	Classification Classification `json:"classification"`

	// Region the estimate was priced for
	Region string `json:"region"`

	// ComputeCost is the monthly compute cost, never negative
	ComputeCost decimal.Decimal `json:"compute_cost"`

	// StorageCost is the monthly storage cost, never negative
	StorageCost decimal.Decimal `json:"storage_cost"`

	// TotalCost equals ComputeCost + StorageCost
	TotalCost decimal.Decimal `json:"total_cost"`

	// Tier records the pricing source tier of the compute rate
	Tier SourceTier `json:"tier"`

	// Substituted is set when a regional substitute replaced the
	// recommended instance type
	Substituted bool `json:"substituted"`

	// Degraded is set when no equal-or-better substitute existed or the
	// recommendation exceeded the over-provisioning bound
	Degraded bool `json:"degraded"`

	// Fallback is set when the compute rate is a static approximation
	Fallback bool `json:"fallback"`

	// Unresolved is set when no rate could be found at any tier; the
	// estimate carries zero costs and is excluded from the fleet total
	Unresolved bool `json:"unresolved"`
}

// GroupKey identifies the consistency group of the estimate: any two
// estimates with equal group keys must have identical compute cost.
func (e CostEstimate) GroupKey() string {
	return e.InstanceType + "/" + e.Region + "/" + e.Model.String() + "/" + e.Classification.String()
}

// BatchSummary reports batch-wide counts for the export collaborator
type BatchSummary struct {
	// TotalWorkloads is the number of workloads in the batch
	TotalWorkloads int `json:"total_workloads"`

	// Substituted counts estimates with a regional substitution
	Substituted int `json:"substituted"`

	// Degraded counts estimates flagged degraded
	Degraded int `json:"degraded"`

	// FallbackPriced counts estimates priced from the fallback tier
	FallbackPriced int `json:"fallback_priced"`

	// Unresolved counts workloads excluded from the fleet total
	Unresolved int `json:"unresolved"`

	// FleetTotal is the sum of resolved estimate totals
	FleetTotal decimal.Decimal `json:"fleet_total"`
}

// RunMetadata stamps a batch result with its execution context
type RunMetadata struct {
	// RunID uniquely identifies the aggregation run
	RunID string `json:"run_id"`

	// Region is the configured target region
	Region string `json:"region"`

	// ConfigDigest fingerprints the configuration the batch ran with
	ConfigDigest string `json:"config_digest"`

	// StartedAt is when the batch began
	StartedAt time.Time `json:"started_at"`

	// Duration is how long the batch took
	Duration time.Duration `json:"duration"`
}

// BatchResult is the ordered output of one aggregation run. Estimate
// order matches workload input order.
type BatchResult struct {
	// Estimates holds one entry per input workload, in input order
	Estimates []CostEstimate `json:"estimates"`

	// Summary aggregates batch-wide counts and the fleet total
	Summary BatchSummary `json:"summary"`

	// Warnings carries batch-level consistency warnings
	Warnings []string `json:"warnings,omitempty"`

	// Metadata stamps the run
	Metadata RunMetadata `json:"metadata"`
}

// Summarize recomputes the summary from the estimates
func (r *BatchResult) Summarize() {
	s := BatchSummary{TotalWorkloads: len(r.Estimates), FleetTotal: decimal.Zero}
	for _, e := range r.Estimates {
		if e.Substituted {
			s.Substituted++
		}
		if e.Degraded {
			s.Degraded++
		}
		if e.Fallback {
			s.FallbackPriced++
		}
		if e.Unresolved {
			s.Unresolved++
			continue
		}
		s.FleetTotal = s.FleetTotal.Add(e.TotalCost)
	}
	r.Summary = s
}
