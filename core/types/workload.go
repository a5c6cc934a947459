// Package types - Workload specification
package types

import (
	"fleet-cost/internal/errors"
)

// WorkloadSpec is one virtual machine's normalized resource profile.
// Field normalization (units, OS string classification) is the inventory
// collaborator's responsibility; a spec is immutable once created and
// owned by its batch.
type WorkloadSpec struct {
	// ID is unique within a batch
	ID string `json:"id"`

	// VCPU is the required vCPU count, at least 1
	VCPU int `json:"vcpu"`

	// MemoryGB is the required memory in GB
	MemoryGB float64 `json:"memory_gb"`

	// StorageGB is the provisioned storage in GB
	StorageGB float64 `json:"storage_gb"`

	// OS is the operating system family
	OS OSFamily `json:"os"`

	// Classification is production or non-production
	Classification Classification `json:"classification"`
}

// Validate checks the spec satisfies the input contract
func (w WorkloadSpec) Validate() error {
	if w.ID == "" {
		return errors.New(errors.TypeInput, "workload id must not be empty")
	}
	if w.VCPU < 1 {
		return errors.Newf(errors.TypeInput, "workload %s: vcpu must be >= 1, got %d", w.ID, w.VCPU)
	}
	if w.MemoryGB < 0 {
		return errors.Newf(errors.TypeInput, "workload %s: memory must be >= 0, got %g", w.ID, w.MemoryGB)
	}
	if w.StorageGB < 0 {
		return errors.Newf(errors.TypeInput, "workload %s: storage must be >= 0, got %g", w.ID, w.StorageGB)
	}
	if !w.OS.Valid() {
		return errors.Newf(errors.TypeInput, "workload %s: unknown os family %q", w.ID, w.OS)
	}
	if !w.Classification.Valid() {
		return errors.Newf(errors.TypeInput, "workload %s: unknown classification %q", w.ID, w.Classification)
	}
	return nil
}
