// Package availability decides whether an instance type is purchasable
// in a region and proposes equal-or-better substitutes when it is not.
package availability

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"fleet-cost/core/catalog"
	"fleet-cost/core/pricing"
	"fleet-cost/core/types"
)

// Resolver answers availability questions from a static availability
// table when one is provided for a region, falling back to lazy probes
// of the pricing store. Substitutes come from an equivalence table
// precomputed at construction; the resolver never proposes an instance
// below the original's specifications.
type Resolver struct {
	catalog *catalog.Catalog
	store   *pricing.Store
	log     *zap.Logger

	// equivalents maps an instance type to its equal-or-better
	// alternatives in preference order
	equivalents map[string][]string

	// static holds per-region availability sets; a region present here
	// is authoritative and never probed
	static map[string]map[string]bool

	mu    sync.Mutex
	facts map[string]bool
}

// NewResolver builds a resolver and precomputes the equivalence table
func NewResolver(cat *catalog.Catalog, store *pricing.Store, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		catalog: cat,
		store:   store,
		log:     log,
		static:  make(map[string]map[string]bool),
		facts:   make(map[string]bool),
	}
	r.buildEquivalents()
	return r
}

// SetStaticAvailability declares the full availability set for a region.
// Instance types absent from the set are unavailable in that region.
func (r *Resolver) SetStaticAvailability(region string, instanceTypes []string) {
	set := make(map[string]bool, len(instanceTypes))
	for _, t := range instanceTypes {
		set[t] = true
	}
	r.static[region] = set
}

// IsAvailable reports whether an instance type is purchasable in the
// region. Facts are cached per (type, region) for the resolver lifetime.
func (r *Resolver) IsAvailable(ctx context.Context, instanceType, region string) bool {
	if set, ok := r.static[region]; ok {
		return set[instanceType]
	}

	key := instanceType + "/" + region
	r.mu.Lock()
	fact, ok := r.facts[key]
	r.mu.Unlock()
	if ok {
		return fact
	}

	// Probe: an instance with an on-demand quote in the region is
	// considered purchasable there.
	_, found := r.store.Lookup(ctx, types.PriceKey{
		InstanceType: instanceType,
		Region:       region,
		Model:        types.OnDemand(),
	})

	r.mu.Lock()
	r.facts[key] = found
	r.mu.Unlock()
	return found
}

// ResolveSubstitute returns the first available equal-or-better
// alternative for the instance type in the region, or false when none
// exists. The original type is never returned.
func (r *Resolver) ResolveSubstitute(ctx context.Context, instanceType, region string) (string, bool) {
	for _, alt := range r.equivalents[instanceType] {
		if r.IsAvailable(ctx, alt, region) {
			r.log.Debug("regional substitution",
				zap.String("original", instanceType),
				zap.String("substitute", alt),
				zap.String("region", region))
			return alt, true
		}
	}
	return "", false
}

// buildEquivalents precomputes, for every catalog entry, its ordered
// alternatives: equal-or-better vCPU and memory, preferring the same
// family, then the same generation, then smallest and cheapest.
func (r *Resolver) buildEquivalents() {
	ranked := r.catalog.Ranked()
	r.equivalents = make(map[string][]string, len(ranked))

	for _, orig := range ranked {
		var alts []catalog.InstanceSpec
		for _, cand := range ranked {
			if cand.Name == orig.Name {
				continue
			}
			if cand.FitsRequirement(orig.VCPU, orig.MemoryGB) {
				alts = append(alts, cand)
			}
		}

		orig := orig
		sort.SliceStable(alts, func(i, j int) bool {
			a, b := alts[i], alts[j]
			aFam, bFam := a.Family == orig.Family, b.Family == orig.Family
			if aFam != bFam {
				return aFam
			}
			aGen, bGen := a.Generation == orig.Generation, b.Generation == orig.Generation
			if aGen != bGen {
				return aGen
			}
			// Ranked order already sorted by size, price, name; this
			// stable sort preserves it within each preference class.
			return false
		})

		names := make([]string, len(alts))
		for i, a := range alts {
			names[i] = a.Name
		}
		r.equivalents[orig.Name] = names
	}
}
