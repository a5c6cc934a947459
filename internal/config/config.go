// Package config provides configuration management for batch runs.
// A Config is built once, validated, and treated as immutable for the
// lifetime of a batch.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/shopspring/decimal"

	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
	"fleet-cost/internal/logging"
)

// ClassPolicy selects pricing model and utilization for one workload
// classification
type ClassPolicy struct {
	// Model is the pricing model kind: on_demand, reserved,
	// savings_plan or spot
	Model string `json:"model" hcl:"model"`

	// Term applies to reserved and savings_plan models
	Term string `json:"term,omitempty" hcl:"term,optional"`

	// Payment applies to reserved and savings_plan models
	Payment string `json:"payment,omitempty" hcl:"payment,optional"`

	// OfferingClass applies to reserved models
	OfferingClass string `json:"offering_class,omitempty" hcl:"offering_class,optional"`

	// Scope applies to savings_plan models
	Scope string `json:"scope,omitempty" hcl:"scope,optional"`

	// Utilization is the fraction of a month the workload runs, 0.0-1.0
	Utilization float64 `json:"utilization" hcl:"utilization"`
}

// PricingModel converts the policy into the closed pricing model variant
func (p ClassPolicy) PricingModel() (types.PricingModel, error) {
	var m types.PricingModel
	switch types.ModelKind(p.Model) {
	case types.ModelOnDemand:
		m = types.OnDemand()
	case types.ModelSpot:
		m = types.Spot()
	case types.ModelReserved:
		class := types.OfferingClass(p.OfferingClass)
		if class == "" {
			class = types.OfferingStandard
		}
		m = types.Reserved(types.CommitmentTerm(p.Term), types.PaymentOption(p.Payment), class)
	case types.ModelSavingsPlan:
		m = types.SavingsPlan(types.PlanScope(p.Scope), types.CommitmentTerm(p.Term), types.PaymentOption(p.Payment))
	default:
		return m, errors.Newf(errors.TypeConfig, "unknown pricing model %q", p.Model)
	}
	if err := m.Validate(); err != nil {
		return m, err
	}
	return m, nil
}

// DiscountRule is one entry of the fallback discount table: a fractional
// discount off the on-demand rate for a commitment/term/payment triple.
// Values are declared approximations, not market pricing.
type DiscountRule struct {
	// Commitment is "reserved", "savings_compute" or
	// "savings_instance_family"
	Commitment string `json:"commitment" hcl:"commitment,label"`

	// Term is "1yr" or "3yr"
	Term string `json:"term" hcl:"term,label"`

	// Payment is the payment option
	Payment string `json:"payment" hcl:"payment,label"`

	// Factor is the fractional discount off on-demand, 0.0 <= f < 1.0
	Factor float64 `json:"factor" hcl:"factor"`
}

// RemoteConfig configures the remote pricing provider client
type RemoteConfig struct {
	// Endpoint is the base URL of the pricing API
	Endpoint string `json:"endpoint" hcl:"endpoint,optional"`

	// TimeoutSeconds bounds a single request
	TimeoutSeconds int `json:"timeout_seconds" hcl:"timeout_seconds,optional"`

	// MaxAttempts bounds retries for transient failures
	MaxAttempts int `json:"max_attempts" hcl:"max_attempts,optional"`

	// BackoffBaseMillis is the base delay for exponential backoff
	BackoffBaseMillis int `json:"backoff_base_millis" hcl:"backoff_base_millis,optional"`
}

// CacheConfig configures the local persistent price cache
type CacheConfig struct {
	// Directory holds the on-disk price cache
	Directory string `json:"directory" hcl:"directory,optional"`
}

// BatchConfig bounds batch execution
type BatchConfig struct {
	// Workers is the worker pool size for concurrent pricing lookups
	Workers int `json:"workers" hcl:"workers,optional"`

	// TimeoutSeconds aborts in-flight remote lookups for the batch
	TimeoutSeconds int `json:"timeout_seconds" hcl:"timeout_seconds,optional"`
}

// Config is the immutable configuration for one batch run
type Config struct {
	// Region is the target region for the whole batch
	Region string `json:"region" hcl:"region,optional"`

	// VolumeClass is the storage volume class for provisioned storage
	VolumeClass string `json:"volume_class" hcl:"volume_class,optional"`

	// OverProvisionRatio bounds recommendation over-sizing per dimension
	OverProvisionRatio float64 `json:"over_provision_ratio" hcl:"over_provision_ratio,optional"`

	// Production is the policy for production workloads
	Production *ClassPolicy `json:"production" hcl:"production,block"`

	// NonProduction is the policy for non-production workloads
	NonProduction *ClassPolicy `json:"non_production" hcl:"non_production,block"`

	// Discounts is the fallback discount table
	Discounts []DiscountRule `json:"discounts" hcl:"discount,block"`

	// Remote configures the pricing provider client
	Remote *RemoteConfig `json:"remote" hcl:"remote,block"`

	// Cache configures the local persistent cache
	Cache *CacheConfig `json:"cache" hcl:"cache,block"`

	// Batch bounds batch execution
	Batch *BatchConfig `json:"batch" hcl:"batch,block"`

	// Logging contains logging configuration
	Logging *logging.Config `json:"logging" hcl:"logging,block"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	cacheDir := filepath.Join(homeDir, ".fleet-cost", "cache")
	logCfg := logging.DefaultConfig()

	return &Config{
		Region:             "us-east-1",
		VolumeClass:        "gp3",
		OverProvisionRatio: 2.0,
		Production: &ClassPolicy{
			Model:         string(types.ModelReserved),
			Term:          string(types.Term3Year),
			Payment:       string(types.PaymentNoUpfront),
			OfferingClass: string(types.OfferingStandard),
			Utilization:   1.0,
		},
		NonProduction: &ClassPolicy{
			Model:       string(types.ModelOnDemand),
			Utilization: 0.5,
		},
		Discounts: DefaultDiscounts(),
		Remote: &RemoteConfig{
			Endpoint:          "https://pricing.us-east-1.amazonaws.com",
			TimeoutSeconds:    30,
			MaxAttempts:       3,
			BackoffBaseMillis: 250,
		},
		Cache: &CacheConfig{Directory: cacheDir},
		Batch: &BatchConfig{Workers: 8, TimeoutSeconds: 300},
		Logging: &logCfg,
	}
}

// DefaultDiscounts returns the built-in fallback discount table. The
// values approximate published commitment discounts and are meant to be
// overridden from configuration.
func DefaultDiscounts() []DiscountRule {
	return []DiscountRule{
		{Commitment: "reserved", Term: "1yr", Payment: "no_upfront", Factor: 0.25},
		{Commitment: "reserved", Term: "1yr", Payment: "partial_upfront", Factor: 0.28},
		{Commitment: "reserved", Term: "1yr", Payment: "all_upfront", Factor: 0.30},
		{Commitment: "reserved", Term: "3yr", Payment: "no_upfront", Factor: 0.45},
		{Commitment: "reserved", Term: "3yr", Payment: "partial_upfront", Factor: 0.50},
		{Commitment: "reserved", Term: "3yr", Payment: "all_upfront", Factor: 0.53},
		{Commitment: "savings_compute", Term: "1yr", Payment: "no_upfront", Factor: 0.20},
		{Commitment: "savings_compute", Term: "1yr", Payment: "partial_upfront", Factor: 0.23},
		{Commitment: "savings_compute", Term: "1yr", Payment: "all_upfront", Factor: 0.25},
		{Commitment: "savings_compute", Term: "3yr", Payment: "no_upfront", Factor: 0.40},
		{Commitment: "savings_compute", Term: "3yr", Payment: "partial_upfront", Factor: 0.44},
		{Commitment: "savings_compute", Term: "3yr", Payment: "all_upfront", Factor: 0.47},
		{Commitment: "savings_instance_family", Term: "1yr", Payment: "no_upfront", Factor: 0.23},
		{Commitment: "savings_instance_family", Term: "1yr", Payment: "partial_upfront", Factor: 0.26},
		{Commitment: "savings_instance_family", Term: "1yr", Payment: "all_upfront", Factor: 0.28},
		{Commitment: "savings_instance_family", Term: "3yr", Payment: "no_upfront", Factor: 0.43},
		{Commitment: "savings_instance_family", Term: "3yr", Payment: "partial_upfront", Factor: 0.47},
		{Commitment: "savings_instance_family", Term: "3yr", Payment: "all_upfront", Factor: 0.50},
	}
}

// Load loads configuration from a JSON or HCL file. Missing fields fall
// back to defaults; a missing file yields the default configuration.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		if err := hclsimple.DecodeFile(path, nil, cfg); err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "failed to decode HCL config", err)
		}
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "failed to read config", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "failed to decode JSON config", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills unset fields from Default()
func (c *Config) applyDefaults() {
	def := Default()
	if c.Region == "" {
		c.Region = def.Region
	}
	if c.VolumeClass == "" {
		c.VolumeClass = def.VolumeClass
	}
	if c.OverProvisionRatio == 0 {
		c.OverProvisionRatio = def.OverProvisionRatio
	}
	if c.Production == nil {
		c.Production = def.Production
	}
	if c.NonProduction == nil {
		c.NonProduction = def.NonProduction
	}
	if len(c.Discounts) == 0 {
		c.Discounts = def.Discounts
	}
	if c.Remote == nil {
		c.Remote = def.Remote
	} else {
		if c.Remote.TimeoutSeconds == 0 {
			c.Remote.TimeoutSeconds = def.Remote.TimeoutSeconds
		}
		if c.Remote.MaxAttempts == 0 {
			c.Remote.MaxAttempts = def.Remote.MaxAttempts
		}
		if c.Remote.BackoffBaseMillis == 0 {
			c.Remote.BackoffBaseMillis = def.Remote.BackoffBaseMillis
		}
	}
	if c.Cache == nil {
		c.Cache = def.Cache
	}
	if c.Batch == nil {
		c.Batch = def.Batch
	} else {
		if c.Batch.Workers == 0 {
			c.Batch.Workers = def.Batch.Workers
		}
		if c.Batch.TimeoutSeconds == 0 {
			c.Batch.TimeoutSeconds = def.Batch.TimeoutSeconds
		}
	}
	if c.Logging == nil {
		c.Logging = def.Logging
	}
}

// Validate checks the configuration before a batch starts. Any error
// here is fatal for the whole batch; estimation must not proceed with
// undefined defaults.
func (c *Config) Validate() error {
	if c.Region == "" {
		return errors.Config("region must be set")
	}
	if c.VolumeClass == "" {
		return errors.Config("volume_class must be set")
	}
	if c.Remote == nil {
		return errors.Config("remote block must be set")
	}
	if c.Cache == nil {
		return errors.Config("cache block must be set")
	}
	if c.Batch == nil {
		return errors.Config("batch block must be set")
	}
	if c.OverProvisionRatio < 1.0 {
		return errors.Newf(errors.TypeConfig, "over_provision_ratio must be >= 1.0, got %g", c.OverProvisionRatio)
	}
	for _, cl := range types.Classifications() {
		policy := c.PolicyFor(cl)
		if policy == nil {
			return errors.Newf(errors.TypeConfig, "missing policy for classification %s", cl)
		}
		if _, err := policy.PricingModel(); err != nil {
			return errors.Wrapf(errors.TypeConfig, err, "invalid pricing model for %s", cl)
		}
		if policy.Utilization < 0.0 || policy.Utilization > 1.0 {
			return errors.Newf(errors.TypeConfig, "%s utilization must be within [0.0, 1.0], got %g", cl, policy.Utilization)
		}
	}
	seen := make(map[string]bool)
	for _, d := range c.Discounts {
		if d.Factor < 0.0 || d.Factor >= 1.0 {
			return errors.Newf(errors.TypeConfig, "discount factor for %s/%s/%s must be within [0.0, 1.0), got %g",
				d.Commitment, d.Term, d.Payment, d.Factor)
		}
		key := d.Commitment + "/" + d.Term + "/" + d.Payment
		if seen[key] {
			return errors.Newf(errors.TypeConfig, "duplicate discount rule %s", key)
		}
		seen[key] = true
	}
	if c.Batch.Workers < 1 {
		return errors.Newf(errors.TypeConfig, "batch workers must be >= 1, got %d", c.Batch.Workers)
	}
	return nil
}

// PolicyFor returns the class policy for a classification
func (c *Config) PolicyFor(cl types.Classification) *ClassPolicy {
	switch cl {
	case types.ClassProduction:
		return c.Production
	case types.ClassNonProduction:
		return c.NonProduction
	default:
		return nil
	}
}

// ModelFor returns the configured pricing model for a classification.
// Call Validate first; an invalid policy here is a programming error.
func (c *Config) ModelFor(cl types.Classification) (types.PricingModel, error) {
	policy := c.PolicyFor(cl)
	if policy == nil {
		return types.PricingModel{}, errors.Newf(errors.TypeConfig, "no policy for classification %s", cl)
	}
	return policy.PricingModel()
}

// UtilizationFor returns the configured utilization factor as a decimal
func (c *Config) UtilizationFor(cl types.Classification) decimal.Decimal {
	policy := c.PolicyFor(cl)
	if policy == nil {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(policy.Utilization)
}

// DiscountFor returns the fallback discount factor for a commitment
// model, or false when the table has no entry for it
func (c *Config) DiscountFor(m types.PricingModel) (decimal.Decimal, bool) {
	commitment := ""
	switch m.Kind {
	case types.ModelReserved:
		commitment = "reserved"
	case types.ModelSavingsPlan:
		switch m.Scope {
		case types.ScopeCompute:
			commitment = "savings_compute"
		case types.ScopeInstanceFamily:
			commitment = "savings_instance_family"
		}
	}
	if commitment == "" {
		return decimal.Zero, false
	}
	for _, d := range c.Discounts {
		if d.Commitment == commitment && d.Term == string(m.Term) && d.Payment == string(m.Payment) {
			return decimal.NewFromFloat(d.Factor), true
		}
	}
	return decimal.Zero, false
}

// Save writes the configuration to a JSON file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
