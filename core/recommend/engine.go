// Package recommend maps workload resource requirements to ranked
// instance type candidates. The engine is pure and stateless: identical
// workload specs always produce identical rankings.
package recommend

import (
	"fleet-cost/core/catalog"
	"fleet-cost/core/types"
)

// Recommendation is a ranked candidate list for one workload
type Recommendation struct {
	// Candidates holds fitting instance types, best first
	Candidates []string

	// Flagged is set when every fitting candidate exceeds the
	// over-provisioning bound in at least one dimension
	Flagged bool
}

// Top returns the best candidate, or false when nothing fits
func (r Recommendation) Top() (string, bool) {
	if len(r.Candidates) == 0 {
		return "", false
	}
	return r.Candidates[0], true
}

// Engine ranks catalog instances against workload requirements
type Engine struct {
	catalog *catalog.Catalog
	ratio   float64
}

// New creates an engine with the given over-provisioning bound. A
// candidate exceeding required vCPU or memory by more than the ratio is
// deprioritized to avoid systematic over-sizing.
func New(cat *catalog.Catalog, overProvisionRatio float64) *Engine {
	if overProvisionRatio < 1.0 {
		overProvisionRatio = 1.0
	}
	return &Engine{catalog: cat, ratio: overProvisionRatio}
}

// Recommend returns ranked candidates for a workload. Ranking: smallest
// fitting instance first, ties broken by list price, then lexical name;
// candidates within the over-provisioning bound outrank larger ones.
func (e *Engine) Recommend(w types.WorkloadSpec) Recommendation {
	var within, beyond []string

	for _, spec := range e.catalog.Ranked() {
		if !spec.FitsRequirement(w.VCPU, w.MemoryGB) {
			continue
		}
		if e.withinBound(spec, w) {
			within = append(within, spec.Name)
		} else {
			beyond = append(beyond, spec.Name)
		}
	}

	if len(within) == 0 {
		// Everything over-provisions; take the smallest and flag it.
		return Recommendation{Candidates: beyond, Flagged: len(beyond) > 0}
	}
	return Recommendation{Candidates: append(within, beyond...)}
}

// withinBound checks the over-provisioning ratio per dimension. A zero
// requirement exempts its dimension, since any positive capacity would
// exceed an infinite ratio.
func (e *Engine) withinBound(spec catalog.InstanceSpec, w types.WorkloadSpec) bool {
	if w.VCPU > 0 && float64(spec.VCPU) > float64(w.VCPU)*e.ratio {
		return false
	}
	if w.MemoryGB > 0 && spec.MemoryGB > w.MemoryGB*e.ratio {
		return false
	}
	return true
}
