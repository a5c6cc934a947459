// Package validate enforces the output invariants of cost estimation:
// non-negative costs, total equal to compute plus storage, and identical
// compute cost within a consistency group.
package validate

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"fleet-cost/core/types"
	"fleet-cost/internal/metrics"
)

// Validator repairs and cross-checks cost estimates
type Validator struct {
	log *zap.Logger
}

// NewValidator creates a validator
func NewValidator(log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{log: log}
}

// CheckEstimate repairs a single estimate before it is emitted. A
// negative intermediate value is a programming error upstream; it is
// clamped to its absolute value and logged with enough context to
// reproduce, never emitted to a consumer.
func (v *Validator) CheckEstimate(e types.CostEstimate) types.CostEstimate {
	if e.ComputeCost.IsNegative() {
		metrics.NegativeCostAnomalies.Inc()
		v.log.Error("negative compute cost clamped",
			zap.String("workload_id", e.WorkloadID),
			zap.String("instance_type", e.InstanceType),
			zap.String("model", e.Model.Label()),
			zap.String("raw_compute_cost", e.ComputeCost.String()))
		e.ComputeCost = e.ComputeCost.Abs()
	}
	if e.StorageCost.IsNegative() {
		metrics.NegativeCostAnomalies.Inc()
		v.log.Error("negative storage cost clamped",
			zap.String("workload_id", e.WorkloadID),
			zap.String("instance_type", e.InstanceType),
			zap.String("model", e.Model.Label()),
			zap.String("raw_storage_cost", e.StorageCost.String()))
		e.StorageCost = e.StorageCost.Abs()
	}

	// Total is derived, never trusted.
	e.TotalCost = e.ComputeCost.Add(e.StorageCost)
	return e
}

// CheckBatch groups estimates by (instance type, model, region,
// classification) and verifies each group bills an identical compute
// cost. A violation indicates a resolution-layer bug and is surfaced as
// a batch warning, never silently accepted.
func (v *Validator) CheckBatch(estimates []types.CostEstimate) []string {
	groups := make(map[string][]types.CostEstimate)
	for _, e := range estimates {
		if e.Unresolved {
			continue
		}
		key := e.GroupKey()
		groups[key] = append(groups[key], e)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var warnings []string
	for _, key := range keys {
		group := groups[key]
		first := group[0]
		for _, other := range group[1:] {
			if !other.ComputeCost.Equal(first.ComputeCost) {
				warning := fmt.Sprintf(
					"inconsistent compute cost in group %s: workload %s billed %s, workload %s billed %s",
					key, first.WorkloadID, first.ComputeCost.String(),
					other.WorkloadID, other.ComputeCost.String())
				warnings = append(warnings, warning)
				v.log.Warn("group consistency violation",
					zap.String("group", key),
					zap.String("workload_a", first.WorkloadID),
					zap.String("cost_a", first.ComputeCost.String()),
					zap.String("workload_b", other.WorkloadID),
					zap.String("cost_b", other.ComputeCost.String()))
				break
			}
		}
	}
	return warnings
}
