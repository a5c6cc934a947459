// Package resolve turns (instance type, region, pricing model) into an
// effective hourly rate. It owns the fallback policy: exact quote, then
// commitment term downgrade, then a discounted on-demand approximation.
// The order matters: collapsing term downgrade and model downgrade into
// one step changes which commitment quote a workload is billed at.
package resolve

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fleet-cost/core/pricing"
	"fleet-cost/core/types"
	"fleet-cost/internal/metrics"
)

// DiscountTable supplies fractional fallback discounts off the
// on-demand rate per commitment model. Injected configuration, never
// compiled constants.
type DiscountTable interface {
	DiscountFor(m types.PricingModel) (decimal.Decimal, bool)
}

// RateResult is the tagged outcome of a resolution attempt. A NotFound
// result requires the caller to attempt regional substitution before
// retrying.
type RateResult struct {
	// Found discriminates the variant
	Found bool

	// Rate is the effective hourly rate when Found
	Rate decimal.Decimal

	// Tier records which tier satisfied the request
	Tier types.SourceTier

	// Model is the pricing model actually applied, including any term
	// downgrade
	Model types.PricingModel
}

// NotFound is the empty resolution result
func NotFound() RateResult {
	return RateResult{}
}

// FoundRate builds a successful resolution result
func FoundRate(rate decimal.Decimal, tier types.SourceTier, model types.PricingModel) RateResult {
	return RateResult{Found: true, Rate: rate, Tier: tier, Model: model}
}

// Service is the central pricing resolution authority
type Service struct {
	store     *pricing.Store
	discounts DiscountTable
	log       *zap.Logger
}

// NewService creates a resolution service
func NewService(store *pricing.Store, discounts DiscountTable, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, discounts: discounts, log: log}
}

// ResolveRate resolves the hourly rate for a candidate instance. The
// chain, in strict order:
//
//  1. Exact quote for the requested model.
//  2. For commitment models, a term downgrade (3yr -> 1yr) within the
//     same commitment family.
//  3. On-demand quote with the configured discount factor applied,
//     tagged as Fallback.
//
// When on-demand itself has no data the result is NotFound and the
// caller must attempt regional substitution before retrying.
func (s *Service) ResolveRate(ctx context.Context, instanceType, region string, model types.PricingModel) RateResult {
	exact := types.PriceKey{InstanceType: instanceType, Region: region, Model: model}
	if quote, ok := s.store.Lookup(ctx, exact); ok {
		return FoundRate(quote.Rate, quote.Tier, model)
	}

	if model.IsCommitment() && model.Term == types.Term3Year {
		downgraded := model.WithTerm(types.Term1Year)
		key := types.PriceKey{InstanceType: instanceType, Region: region, Model: downgraded}
		if quote, ok := s.store.Lookup(ctx, key); ok {
			metrics.TermDowngrades.Inc()
			s.log.Info("commitment term downgraded",
				zap.String("instance_type", instanceType),
				zap.String("region", region),
				zap.String("requested", model.String()),
				zap.String("applied", downgraded.String()))
			return FoundRate(quote.Rate, quote.Tier, downgraded)
		}
	}

	if model.Kind == types.ModelOnDemand {
		// The exact lookup above was already the on-demand lookup.
		return NotFound()
	}

	odKey := types.PriceKey{InstanceType: instanceType, Region: region, Model: types.OnDemand()}
	odQuote, ok := s.store.Lookup(ctx, odKey)
	if !ok {
		return NotFound()
	}

	rate := odQuote.Rate
	if factor, ok := s.discounts.DiscountFor(model); ok {
		rate = odQuote.Rate.Mul(decimal.NewFromInt(1).Sub(factor))
	} else if model.IsCommitment() {
		// No table entry: keep the undiscounted on-demand rate. This
		// overestimates rather than inventing a discount.
		s.log.Warn("no fallback discount configured, using on-demand rate",
			zap.String("model", model.String()))
	}

	metrics.FallbackResolutions.Inc()
	s.log.Debug("rate resolved via on-demand fallback",
		zap.String("instance_type", instanceType),
		zap.String("region", region),
		zap.String("model", model.String()),
		zap.String("rate", rate.String()))
	return FoundRate(rate, types.TierFallback, model)
}

// ResolveStorageRate resolves the per-GB-month storage rate
func (s *Service) ResolveStorageRate(ctx context.Context, volumeClass, region string) (decimal.Decimal, types.SourceTier, bool) {
	return s.store.LookupStorage(ctx, types.StoragePriceKey{VolumeClass: volumeClass, Region: region})
}
