package validate

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"fleet-cost/core/types"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCheckEstimateClampsNegativeCompute(t *testing.T) {
	v := NewValidator(nil)
	e := v.CheckEstimate(types.CostEstimate{
		WorkloadID:  "w-1",
		ComputeCost: dec("-102.20"),
		StorageCost: dec("8.00"),
	})

	if !e.ComputeCost.Equal(dec("102.20")) {
		t.Errorf("compute = %s, want clamped 102.20", e.ComputeCost)
	}
	if !e.TotalCost.Equal(dec("110.20")) {
		t.Errorf("total = %s, want 110.20", e.TotalCost)
	}
}

func TestCheckEstimateClampsNegativeStorage(t *testing.T) {
	v := NewValidator(nil)
	e := v.CheckEstimate(types.CostEstimate{
		WorkloadID:  "w-1",
		ComputeCost: dec("50.00"),
		StorageCost: dec("-8.00"),
	})

	if !e.StorageCost.Equal(dec("8.00")) {
		t.Errorf("storage = %s, want clamped 8.00", e.StorageCost)
	}
	if !e.TotalCost.Equal(dec("58.00")) {
		t.Errorf("total = %s, want 58.00", e.TotalCost)
	}
}

func TestCheckEstimateRederivesTotal(t *testing.T) {
	v := NewValidator(nil)
	e := v.CheckEstimate(types.CostEstimate{
		WorkloadID:  "w-1",
		ComputeCost: dec("100.00"),
		StorageCost: dec("10.00"),
		TotalCost:   dec("9999.99"), // stale input total must be ignored
	})

	if !e.TotalCost.Equal(dec("110.00")) {
		t.Errorf("total = %s, want rederived 110.00", e.TotalCost)
	}
}

func groupEstimate(id, cost string) types.CostEstimate {
	return types.CostEstimate{
		WorkloadID:     id,
		InstanceType:   "m5.xlarge",
		Region:         "us-east-1",
		Model:          types.OnDemand(),
		Classification: types.ClassNonProduction,
		ComputeCost:    dec(cost),
	}
}

func TestCheckBatchConsistentGroup(t *testing.T) {
	v := NewValidator(nil)
	warnings := v.CheckBatch([]types.CostEstimate{
		groupEstimate("a", "70.08"),
		groupEstimate("b", "70.08"),
	})
	if len(warnings) != 0 {
		t.Errorf("expected no warnings for an identical pair, got %v", warnings)
	}
}

func TestCheckBatchFlagsMismatch(t *testing.T) {
	v := NewValidator(nil)
	warnings := v.CheckBatch([]types.CostEstimate{
		groupEstimate("a", "70.08"),
		groupEstimate("b", "70.09"),
	})
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "a") || !strings.Contains(warnings[0], "b") {
		t.Errorf("warning should name both workloads: %s", warnings[0])
	}
}

func TestCheckBatchDifferentGroupsMayDiffer(t *testing.T) {
	v := NewValidator(nil)
	prod := groupEstimate("a", "140.16")
	prod.Classification = types.ClassProduction

	warnings := v.CheckBatch([]types.CostEstimate{
		prod,
		groupEstimate("b", "70.08"),
	})
	if len(warnings) != 0 {
		t.Errorf("different classifications are different groups, got %v", warnings)
	}
}

func TestCheckBatchSkipsUnresolved(t *testing.T) {
	v := NewValidator(nil)
	unresolved := groupEstimate("u", "0")
	unresolved.Unresolved = true

	warnings := v.CheckBatch([]types.CostEstimate{
		groupEstimate("a", "70.08"),
		unresolved,
	})
	if len(warnings) != 0 {
		t.Errorf("unresolved estimates must not join consistency groups, got %v", warnings)
	}
}

func TestCheckBatchWarningOrderIsStable(t *testing.T) {
	v := NewValidator(nil)

	other := groupEstimate("c", "10.00")
	other.InstanceType = "c5.large"
	otherBad := groupEstimate("d", "11.00")
	otherBad.InstanceType = "c5.large"

	batch := []types.CostEstimate{
		groupEstimate("a", "70.08"),
		groupEstimate("b", "70.09"),
		other,
		otherBad,
	}

	first := v.CheckBatch(batch)
	second := v.CheckBatch(batch)
	if len(first) != 2 {
		t.Fatalf("expected two warnings, got %v", first)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("warning order differs between runs at %d", i)
		}
	}
	if !strings.HasPrefix(first[0], "inconsistent compute cost in group c5.large") {
		t.Errorf("warnings should be sorted by group key, got %q first", first[0])
	}
}
