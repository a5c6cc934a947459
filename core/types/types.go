// Package types contains the shared data model for fleet cost estimation.
package types

// OSFamily is the operating system family of a workload
type OSFamily string

const (
	OSLinux     OSFamily = "linux"
	OSWindows   OSFamily = "windows"
	OSRHEL      OSFamily = "rhel"
	OSSUSE      OSFamily = "suse"
	OSUbuntuPro OSFamily = "ubuntu_pro"
	OSOther     OSFamily = "other"
)

// String returns the string representation
func (o OSFamily) String() string {
	return string(o)
}

// Valid reports whether the value is a known OS family
func (o OSFamily) Valid() bool {
	switch o {
	case OSLinux, OSWindows, OSRHEL, OSSUSE, OSUbuntuPro, OSOther:
		return true
	}
	return false
}

// Classification separates production from non-production workloads.
// It drives pricing-model and utilization selection; the core never
// infers it from workload attributes.
type Classification string

const (
	ClassProduction    Classification = "production"
	ClassNonProduction Classification = "non_production"
)

// String returns the string representation
func (c Classification) String() string {
	return string(c)
}

// Valid reports whether the value is a known classification
func (c Classification) Valid() bool {
	return c == ClassProduction || c == ClassNonProduction
}

// Classifications lists all classifications in stable order
func Classifications() []Classification {
	return []Classification{ClassProduction, ClassNonProduction}
}

// SourceTier records which tier of the pricing chain satisfied a lookup
type SourceTier string

const (
	// TierLocalCache means the quote came from the in-process or on-disk cache
	TierLocalCache SourceTier = "local_cache"

	// TierRemoteProvider means the quote came from the remote pricing API
	TierRemoteProvider SourceTier = "remote_provider"

	// TierFallback means the quote is a static approximation, not market data
	TierFallback SourceTier = "fallback"
)

// String returns the string representation
func (t SourceTier) String() string {
	return string(t)
}

// CommitmentTerm is the length of a Reserved or Savings Plan commitment
type CommitmentTerm string

const (
	Term1Year CommitmentTerm = "1yr"
	Term3Year CommitmentTerm = "3yr"
)

// String returns the string representation
func (t CommitmentTerm) String() string {
	return string(t)
}

// Valid reports whether the value is a known term
func (t CommitmentTerm) Valid() bool {
	return t == Term1Year || t == Term3Year
}

// PaymentOption is the upfront payment structure of a commitment
type PaymentOption string

const (
	PaymentNoUpfront      PaymentOption = "no_upfront"
	PaymentPartialUpfront PaymentOption = "partial_upfront"
	PaymentAllUpfront     PaymentOption = "all_upfront"
)

// String returns the string representation
func (p PaymentOption) String() string {
	return string(p)
}

// Valid reports whether the value is a known payment option
func (p PaymentOption) Valid() bool {
	switch p {
	case PaymentNoUpfront, PaymentPartialUpfront, PaymentAllUpfront:
		return true
	}
	return false
}

// OfferingClass distinguishes standard from convertible reservations
type OfferingClass string

const (
	OfferingStandard    OfferingClass = "standard"
	OfferingConvertible OfferingClass = "convertible"
)

// String returns the string representation
func (o OfferingClass) String() string {
	return string(o)
}

// Valid reports whether the value is a known offering class
func (o OfferingClass) Valid() bool {
	return o == OfferingStandard || o == OfferingConvertible
}

// PlanScope is the coverage scope of a Savings Plan
type PlanScope string

const (
	ScopeCompute        PlanScope = "compute"
	ScopeInstanceFamily PlanScope = "instance_family"
)

// String returns the string representation
func (s PlanScope) String() string {
	return string(s)
}

// Valid reports whether the value is a known plan scope
func (s PlanScope) Valid() bool {
	return s == ScopeCompute || s == ScopeInstanceFamily
}
