// Package catalog holds the authoritative compute instance catalog.
// This is the source of truth for instance specifications used by
// recommendation and regional substitution.
package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// InstanceSpec describes one purchasable instance type
type InstanceSpec struct {
	// Name is the instance type, e.g. "m5.xlarge"
	Name string

	// Family is the instance family, e.g. "m5"
	Family string

	// Generation is the family generation number, e.g. 5 for m5
	Generation int

	// VCPU is the vCPU count
	VCPU int

	// MemoryGB is the memory in GB
	MemoryGB float64

	// ListPrice is the baseline on-demand hourly list price, used only
	// for deterministic ranking, never for billing
	ListPrice decimal.Decimal
}

// FitsRequirement reports whether the spec satisfies a resource demand
func (s InstanceSpec) FitsRequirement(vcpu int, memoryGB float64) bool {
	return s.VCPU >= vcpu && s.MemoryGB >= memoryGB
}

// Catalog is an immutable-after-construction set of instance specs
type Catalog struct {
	byName map[string]InstanceSpec
	ranked []InstanceSpec
}

// New creates a catalog populated with the built-in instance set
func New() *Catalog {
	c := &Catalog{byName: make(map[string]InstanceSpec)}
	registerDefaults(c)
	c.finalize()
	return c
}

// NewEmpty creates a catalog without built-in entries, for tests and
// custom fleets
func NewEmpty() *Catalog {
	return &Catalog{byName: make(map[string]InstanceSpec)}
}

// Register adds an instance spec. Later registrations for the same name
// replace earlier ones.
func (c *Catalog) Register(spec InstanceSpec) {
	c.byName[spec.Name] = spec
	c.ranked = nil
}

// Finalize sorts the ranked view. New calls this automatically.
func (c *Catalog) Finalize() {
	c.finalize()
}

func (c *Catalog) finalize() {
	c.ranked = make([]InstanceSpec, 0, len(c.byName))
	for _, spec := range c.byName {
		c.ranked = append(c.ranked, spec)
	}
	// Smallest first, then cheapest, then lexical. This ordering is the
	// backbone of deterministic recommendation.
	sort.Slice(c.ranked, func(i, j int) bool {
		a, b := c.ranked[i], c.ranked[j]
		if a.VCPU != b.VCPU {
			return a.VCPU < b.VCPU
		}
		if a.MemoryGB != b.MemoryGB {
			return a.MemoryGB < b.MemoryGB
		}
		if !a.ListPrice.Equal(b.ListPrice) {
			return a.ListPrice.LessThan(b.ListPrice)
		}
		return a.Name < b.Name
	})
}

// Lookup returns the spec for an instance type name
func (c *Catalog) Lookup(name string) (InstanceSpec, bool) {
	spec, ok := c.byName[name]
	return spec, ok
}

// Ranked returns all specs ordered by size, price, then name
func (c *Catalog) Ranked() []InstanceSpec {
	if c.ranked == nil {
		c.finalize()
	}
	out := make([]InstanceSpec, len(c.ranked))
	copy(out, c.ranked)
	return out
}

// Len returns the number of catalog entries
func (c *Catalog) Len() int {
	return len(c.byName)
}

// FamilyOf extracts the family portion of an instance type name
func FamilyOf(name string) string {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}
