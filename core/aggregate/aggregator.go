// Package aggregate produces one cost estimate per workload and the
// batch summary. Pricing lookups for distinct keys run concurrently on
// a bounded worker pool; output order always matches input order.
package aggregate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fleet-cost/core/availability"
	"fleet-cost/core/recommend"
	"fleet-cost/core/resolve"
	"fleet-cost/core/types"
	"fleet-cost/core/validate"
	"fleet-cost/internal/config"
	"fleet-cost/internal/errors"
	"fleet-cost/internal/logging"
)

// Aggregator orchestrates recommendation, availability, resolution and
// validation for a batch of workloads
type Aggregator struct {
	cfg       *config.Config
	engine    *recommend.Engine
	avail     *availability.Resolver
	resolver  *resolve.Service
	validator *validate.Validator
	log       *zap.Logger
}

// NewAggregator wires an aggregator from its collaborators
func NewAggregator(
	cfg *config.Config,
	engine *recommend.Engine,
	avail *availability.Resolver,
	resolver *resolve.Service,
	validator *validate.Validator,
	log *zap.Logger,
) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{
		cfg:       cfg,
		engine:    engine,
		avail:     avail,
		resolver:  resolver,
		validator: validator,
		log:       log,
	}
}

// Run estimates the whole batch. Configuration or input contract errors
// abort before any workload is processed; a single unresolvable
// workload never aborts the batch; it is marked unresolved and
// excluded from the fleet total.
func (a *Aggregator) Run(ctx context.Context, workloads []types.WorkloadSpec) (*types.BatchResult, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(workloads))
	for _, w := range workloads {
		if err := w.Validate(); err != nil {
			return nil, err
		}
		if seen[w.ID] {
			return nil, errors.Newf(errors.TypeInput, "duplicate workload id %q in batch", w.ID)
		}
		seen[w.ID] = true
	}

	runID := uuid.NewString()
	log := logging.WithRun(a.log, runID)

	started := time.Now().UTC()
	runCtx := ctx
	if a.cfg.Batch.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(a.cfg.Batch.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	// One slot per input position keeps output order independent of
	// completion order.
	estimates := make([]types.CostEstimate, len(workloads))

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(a.cfg.Batch.Workers)
	for i, w := range workloads {
		i, w := i, w
		g.Go(func() error {
			estimates[i] = a.estimateOne(gctx, log, w)
			return nil
		})
	}
	// Workers only record estimates; they never return errors.
	_ = g.Wait()

	result := &types.BatchResult{
		Estimates: estimates,
		Metadata: types.RunMetadata{
			RunID:        runID,
			Region:       a.cfg.Region,
			ConfigDigest: configDigest(a.cfg),
			StartedAt:    started,
			Duration:     time.Since(started),
		},
	}
	result.Warnings = a.validator.CheckBatch(estimates)
	result.Summarize()

	log.Info("batch complete",
		zap.Int("workloads", result.Summary.TotalWorkloads),
		zap.Int("substituted", result.Summary.Substituted),
		zap.Int("degraded", result.Summary.Degraded),
		zap.Int("fallback_priced", result.Summary.FallbackPriced),
		zap.Int("unresolved", result.Summary.Unresolved),
		zap.String("fleet_total", result.Summary.FleetTotal.StringFixed(2)))
	return result, nil
}

// estimateOne prices a single workload through the full chain
func (a *Aggregator) estimateOne(ctx context.Context, log *zap.Logger, w types.WorkloadSpec) types.CostEstimate {
	model, err := a.cfg.ModelFor(w.Classification)
	if err != nil {
		// Unreachable after Validate; degrade rather than panic.
		log.Error("no pricing model for classification",
			zap.String("workload_id", w.ID), zap.Error(err))
		return a.unresolved(w, "", types.PricingModel{})
	}

	rec := a.engine.Recommend(w)
	top, ok := rec.Top()
	if !ok {
		log.Warn("no instance candidate fits workload",
			zap.String("workload_id", w.ID),
			zap.Int("vcpu", w.VCPU),
			zap.Float64("memory_gb", w.MemoryGB))
		return a.unresolved(w, "", model)
	}

	degraded := rec.Flagged
	substituted := false

	if !a.avail.IsAvailable(ctx, top, a.cfg.Region) {
		if sub, ok := a.avail.ResolveSubstitute(ctx, top, a.cfg.Region); ok {
			top = sub
			substituted = true
		} else {
			// No equal-or-better substitute: keep the original type,
			// possibly unpriced, and mark the estimate degraded.
			degraded = true
		}
	}

	res := a.resolver.ResolveRate(ctx, top, a.cfg.Region, model)
	if !res.Found && !substituted {
		if sub, ok := a.avail.ResolveSubstitute(ctx, top, a.cfg.Region); ok {
			top = sub
			substituted = true
			res = a.resolver.ResolveRate(ctx, top, a.cfg.Region, model)
		}
	}
	if !res.Found {
		return a.unresolved(w, top, model)
	}

	utilization := a.cfg.UtilizationFor(w.Classification)
	computeCost := res.Rate.Mul(types.HoursPerMonth).Mul(utilization)

	storageCost := decimal.Zero
	if w.StorageGB > 0 {
		rate, _, ok := a.resolver.ResolveStorageRate(ctx, a.cfg.VolumeClass, a.cfg.Region)
		if ok {
			storageCost = rate.Mul(decimal.NewFromFloat(w.StorageGB))
		} else {
			log.Warn("no storage rate, storage cost omitted",
				zap.String("workload_id", w.ID),
				zap.String("volume_class", a.cfg.VolumeClass),
				zap.String("region", a.cfg.Region))
			degraded = true
		}
	}

	estimate := types.CostEstimate{
		WorkloadID:     w.ID,
		InstanceType:   top,
		Model:          res.Model,
		Classification: w.Classification,
		Region:         a.cfg.Region,
		ComputeCost:    computeCost,
		StorageCost:    storageCost,
		TotalCost:      computeCost.Add(storageCost),
		Tier:           res.Tier,
		Substituted:    substituted,
		Degraded:       degraded,
		Fallback:       res.Tier == types.TierFallback,
	}
	return a.validator.CheckEstimate(estimate)
}

// configDigest fingerprints the configuration so a result can be tied
// back to the exact policy it was priced under
func configDigest(cfg *config.Config) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// unresolved builds the excluded-from-total estimate for a workload no
// tier could price
func (a *Aggregator) unresolved(w types.WorkloadSpec, instanceType string, model types.PricingModel) types.CostEstimate {
	return types.CostEstimate{
		WorkloadID:     w.ID,
		InstanceType:   instanceType,
		Model:          model,
		Classification: w.Classification,
		Region:         a.cfg.Region,
		ComputeCost:    decimal.Zero,
		StorageCost:    decimal.Zero,
		TotalCost:      decimal.Zero,
		Degraded:       true,
		Unresolved:     true,
	}
}
