package resolve

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"fleet-cost/core/pricing"
	"fleet-cost/core/types"
)

// fixedDiscounts is a DiscountTable backed by a literal map
type fixedDiscounts map[string]decimal.Decimal

func (d fixedDiscounts) DiscountFor(m types.PricingModel) (decimal.Decimal, bool) {
	f, ok := d[m.String()]
	return f, ok
}

func rsv3yr() types.PricingModel {
	return types.Reserved(types.Term3Year, types.PaymentNoUpfront, types.OfferingStandard)
}

func rsv1yr() types.PricingModel {
	return types.Reserved(types.Term1Year, types.PaymentNoUpfront, types.OfferingStandard)
}

func seededService(seed map[types.PriceKey]string, discounts fixedDiscounts) *Service {
	store := pricing.NewStore(nil, nil, nil)
	for key, rate := range seed {
		store.Seed(key, decimal.RequireFromString(rate))
	}
	return NewService(store, discounts, nil)
}

func key(instanceType, region string, model types.PricingModel) types.PriceKey {
	return types.PriceKey{InstanceType: instanceType, Region: region, Model: model}
}

func TestResolveExactHit(t *testing.T) {
	svc := seededService(map[types.PriceKey]string{
		key("m5.xlarge", "ap-southeast-1", rsv3yr()): "0.140",
	}, nil)

	res := svc.ResolveRate(context.Background(), "m5.xlarge", "ap-southeast-1", rsv3yr())
	if !res.Found {
		t.Fatal("expected a found result")
	}
	if !res.Rate.Equal(decimal.RequireFromString("0.140")) {
		t.Errorf("rate = %s, want 0.140", res.Rate)
	}
	if res.Tier != types.TierLocalCache {
		t.Errorf("tier = %s, want %s", res.Tier, types.TierLocalCache)
	}
	if res.Model != rsv3yr() {
		t.Errorf("model = %s, want the requested model", res.Model)
	}

	// The spec'd monthly math for this rate at full utilization.
	monthly := res.Rate.Mul(types.HoursPerMonth)
	if !monthly.Equal(decimal.RequireFromString("102.20")) {
		t.Errorf("monthly = %s, want 102.20", monthly)
	}
}

func TestResolveTermDowngradeBeforeFallback(t *testing.T) {
	// A 1yr reservation quote exists, on-demand exists too; the downgrade
	// must win over the discounted on-demand approximation.
	svc := seededService(map[types.PriceKey]string{
		key("m5.xlarge", "us-east-1", rsv1yr()):         "0.120",
		key("m5.xlarge", "us-east-1", types.OnDemand()): "0.192",
	}, fixedDiscounts{rsv3yr().String(): decimal.RequireFromString("0.40")})

	res := svc.ResolveRate(context.Background(), "m5.xlarge", "us-east-1", rsv3yr())
	if !res.Found {
		t.Fatal("expected a found result")
	}
	if !res.Rate.Equal(decimal.RequireFromString("0.120")) {
		t.Errorf("rate = %s, want the 1yr quote 0.120", res.Rate)
	}
	if res.Model.Term != types.Term1Year {
		t.Errorf("applied term = %s, want 1yr", res.Model.Term)
	}
	if res.Model.Kind != types.ModelReserved || res.Model.Payment != types.PaymentNoUpfront {
		t.Errorf("downgrade must stay within the commitment family, got %s", res.Model)
	}
	if res.Tier == types.TierFallback {
		t.Error("a term downgrade is not a fallback resolution")
	}
}

func TestResolveNoDowngradeFor1yrRequest(t *testing.T) {
	// A 1yr request must not be satisfied by some other term; with only
	// on-demand data it goes straight to fallback.
	svc := seededService(map[types.PriceKey]string{
		key("m5.xlarge", "us-east-1", types.OnDemand()): "0.200",
	}, fixedDiscounts{rsv1yr().String(): decimal.RequireFromString("0.25")})

	res := svc.ResolveRate(context.Background(), "m5.xlarge", "us-east-1", rsv1yr())
	if !res.Found {
		t.Fatal("expected a fallback result")
	}
	if res.Tier != types.TierFallback {
		t.Errorf("tier = %s, want %s", res.Tier, types.TierFallback)
	}
	// 0.200 * (1 - 0.25) = 0.15
	if !res.Rate.Equal(decimal.RequireFromString("0.15")) {
		t.Errorf("rate = %s, want 0.15", res.Rate)
	}
}

func TestResolveFallbackDiscountMath(t *testing.T) {
	tests := []struct {
		name   string
		model  types.PricingModel
		factor string
		want   string
	}{
		{"reserved 3yr", rsv3yr(), "0.40", "0.1152"},
		{"savings compute", types.SavingsPlan(types.ScopeCompute, types.Term1Year, types.PaymentNoUpfront), "0.20", "0.1536"},
		{"spot approximation", types.Spot(), "0.60", "0.0768"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := seededService(map[types.PriceKey]string{
				key("m5.xlarge", "us-east-1", types.OnDemand()): "0.192",
			}, fixedDiscounts{tt.model.String(): decimal.RequireFromString(tt.factor)})

			res := svc.ResolveRate(context.Background(), "m5.xlarge", "us-east-1", tt.model)
			if !res.Found || res.Tier != types.TierFallback {
				t.Fatalf("expected a fallback result, got %+v", res)
			}
			if !res.Rate.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("rate = %s, want %s", res.Rate, tt.want)
			}
			if res.Model != tt.model {
				t.Errorf("fallback must keep the requested model, got %s", res.Model)
			}
		})
	}
}

func TestResolveFallbackWithoutDiscountEntry(t *testing.T) {
	// A commitment model missing from the table falls back to the
	// undiscounted on-demand rate rather than a made-up discount.
	svc := seededService(map[types.PriceKey]string{
		key("m5.xlarge", "us-east-1", types.OnDemand()): "0.192",
	}, fixedDiscounts{})

	res := svc.ResolveRate(context.Background(), "m5.xlarge", "us-east-1", rsv3yr())
	if !res.Found || res.Tier != types.TierFallback {
		t.Fatalf("expected a fallback result, got %+v", res)
	}
	if !res.Rate.Equal(decimal.RequireFromString("0.192")) {
		t.Errorf("rate = %s, want the undiscounted 0.192", res.Rate)
	}
}

func TestResolveOnDemandMissIsNotFound(t *testing.T) {
	svc := seededService(nil, fixedDiscounts{})

	res := svc.ResolveRate(context.Background(), "m5.xlarge", "us-east-1", types.OnDemand())
	if res.Found {
		t.Errorf("expected not found, got %+v", res)
	}
}

func TestResolveCommitmentMissWithoutOnDemandIsNotFound(t *testing.T) {
	// Nothing at any tier: no exact quote, no 1yr quote, no on-demand
	// anchor for the fallback.
	svc := seededService(nil, fixedDiscounts{rsv3yr().String(): decimal.RequireFromString("0.40")})

	res := svc.ResolveRate(context.Background(), "m5.xlarge", "us-east-1", rsv3yr())
	if res.Found {
		t.Errorf("expected not found, got %+v", res)
	}
}

func TestResolveStorageRate(t *testing.T) {
	store := pricing.NewStore(nil, nil, nil)
	store.SeedStorage(types.StoragePriceKey{VolumeClass: "gp3", Region: "us-east-1"}, decimal.RequireFromString("0.08"))
	svc := NewService(store, fixedDiscounts{}, nil)

	rate, tier, ok := svc.ResolveStorageRate(context.Background(), "gp3", "us-east-1")
	if !ok || tier != types.TierLocalCache {
		t.Fatalf("ok=%v tier=%s, want a local hit", ok, tier)
	}
	if !rate.Equal(decimal.RequireFromString("0.08")) {
		t.Errorf("rate = %s, want 0.08", rate)
	}

	if _, _, ok := svc.ResolveStorageRate(context.Background(), "io2", "us-east-1"); ok {
		t.Error("expected a miss for an unseeded volume class")
	}
}
