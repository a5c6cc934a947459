package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSummarizeExcludesUnresolved(t *testing.T) {
	r := &BatchResult{
		Estimates: []CostEstimate{
			{WorkloadID: "a", TotalCost: decimal.RequireFromString("100.00")},
			{WorkloadID: "b", TotalCost: decimal.RequireFromString("50.50"), Fallback: true},
			{WorkloadID: "c", Unresolved: true, Degraded: true},
			{WorkloadID: "d", TotalCost: decimal.RequireFromString("10.00"), Substituted: true},
		},
	}
	r.Summarize()

	s := r.Summary
	if s.TotalWorkloads != 4 {
		t.Errorf("TotalWorkloads = %d, want 4", s.TotalWorkloads)
	}
	if s.Unresolved != 1 || s.Degraded != 1 || s.FallbackPriced != 1 || s.Substituted != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	want := decimal.RequireFromString("160.50")
	if !s.FleetTotal.Equal(want) {
		t.Errorf("FleetTotal = %s, want %s (unresolved must not contribute)", s.FleetTotal, want)
	}
}

func TestGroupKeyDistinguishesModelAndClassification(t *testing.T) {
	base := CostEstimate{
		InstanceType:   "m5.xlarge",
		Region:         "us-east-1",
		Model:          OnDemand(),
		Classification: ClassProduction,
	}

	same := base
	if base.GroupKey() != same.GroupKey() {
		t.Error("identical estimates must share a group key")
	}

	diffModel := base
	diffModel.Model = Reserved(Term1Year, PaymentNoUpfront, OfferingStandard)
	if base.GroupKey() == diffModel.GroupKey() {
		t.Error("different pricing models must not share a group key")
	}

	diffClass := base
	diffClass.Classification = ClassNonProduction
	if base.GroupKey() == diffClass.GroupKey() {
		t.Error("different classifications must not share a group key")
	}
}

func TestWorkloadSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    WorkloadSpec
		wantErr bool
	}{
		{
			name: "valid production workload",
			spec: WorkloadSpec{ID: "web-1", VCPU: 4, MemoryGB: 16, StorageGB: 100, OS: OSLinux, Classification: ClassProduction},
		},
		{
			name: "zero memory and storage allowed",
			spec: WorkloadSpec{ID: "tiny", VCPU: 1, OS: OSLinux, Classification: ClassNonProduction},
		},
		{
			name:    "missing id",
			spec:    WorkloadSpec{VCPU: 2, OS: OSLinux, Classification: ClassProduction},
			wantErr: true,
		},
		{
			name:    "zero vcpu",
			spec:    WorkloadSpec{ID: "bad", VCPU: 0, OS: OSLinux, Classification: ClassProduction},
			wantErr: true,
		},
		{
			name:    "negative memory",
			spec:    WorkloadSpec{ID: "bad", VCPU: 1, MemoryGB: -0.5, OS: OSLinux, Classification: ClassProduction},
			wantErr: true,
		},
		{
			name:    "unknown classification",
			spec:    WorkloadSpec{ID: "bad", VCPU: 1, OS: OSLinux, Classification: "staging"},
			wantErr: true,
		},
		{
			name:    "unknown os",
			spec:    WorkloadSpec{ID: "bad", VCPU: 1, OS: "beos", Classification: ClassProduction},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
