// Package cmd - estimate command
package cmd

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"fleet-cost/core/aggregate"
	"fleet-cost/core/availability"
	"fleet-cost/core/catalog"
	"fleet-cost/core/output"
	"fleet-cost/core/pricing"
	"fleet-cost/core/recommend"
	"fleet-cost/core/resolve"
	"fleet-cost/core/types"
	"fleet-cost/core/validate"
	"fleet-cost/internal/errors"
	"fleet-cost/internal/logging"
)

var (
	formatFlag string
	pricesFlag string
)

var estimateCmd = &cobra.Command{
	Use:   "estimate [inventory file]",
	Short: "Estimate monthly cost for a workload inventory",
	Long: `Estimate reads a normalized workload inventory (JSON) and produces a
per-workload and fleet-wide monthly cost estimate.

The inventory is a JSON array of workload records with id, vcpu,
memory_gb, storage_gb, os and classification fields. Normalization of
raw inventory exports is a separate concern; this command expects
already-normalized records.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEstimate(cmd.Context(), args[0])
	},
}

func init() {
	estimateCmd.Flags().StringVar(&formatFlag, "format", "table", "output format (table, json)")
	estimateCmd.Flags().StringVar(&pricesFlag, "prices", "", "local price seed file (JSON)")
}

func runEstimate(ctx context.Context, inventoryPath string) error {
	log := logging.Logger

	workloads, err := loadInventory(inventoryPath)
	if err != nil {
		return err
	}

	var disk *pricing.DiskCache
	if cfg.Cache.Directory != "" {
		disk, err = pricing.OpenDiskCache(cfg.Cache.Directory, log)
		if err != nil {
			return errors.Internal("failed to open price cache", err)
		}
	}

	var provider pricing.Provider
	if cfg.Remote.Endpoint != "" {
		provider = pricing.NewHTTPProvider(pricing.RemoteOptions{
			Endpoint:    cfg.Remote.Endpoint,
			Timeout:     time.Duration(cfg.Remote.TimeoutSeconds) * time.Second,
			MaxAttempts: cfg.Remote.MaxAttempts,
			BackoffBase: time.Duration(cfg.Remote.BackoffBaseMillis) * time.Millisecond,
		}, log)
	}

	store := pricing.NewStore(disk, provider, log)
	if pricesFlag != "" {
		if err := seedPrices(store, pricesFlag); err != nil {
			return err
		}
	}

	cat := catalog.New()
	engine := recommend.New(cat, cfg.OverProvisionRatio)
	avail := availability.NewResolver(cat, store, log)
	resolver := resolve.NewService(store, cfg, log)
	validator := validate.NewValidator(log)
	aggregator := aggregate.NewAggregator(cfg, engine, avail, resolver, validator, log)

	result, err := aggregator.Run(ctx, workloads)
	if err != nil {
		return err
	}

	return output.Render(os.Stdout, output.Format(formatFlag), result)
}

// loadInventory reads a normalized workload inventory file
func loadInventory(path string) ([]types.WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInput, "failed to read inventory", err)
	}

	var workloads []types.WorkloadSpec
	if err := json.Unmarshal(data, &workloads); err != nil {
		return nil, errors.Wrap(errors.TypeInput, "failed to decode inventory", err)
	}
	return workloads, nil
}

// priceSeedFile preloads known price points into the local cache tier
type priceSeedFile struct {
	Compute []computeSeed `json:"compute"`
	Storage []storageSeed `json:"storage"`
}

type computeSeed struct {
	InstanceType string             `json:"instance_type"`
	Region       string             `json:"region"`
	Model        types.PricingModel `json:"model"`
	Rate         string             `json:"rate"`
}

type storageSeed struct {
	VolumeClass string `json:"volume_class"`
	Region      string `json:"region"`
	Rate        string `json:"rate"`
}

func seedPrices(store *pricing.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.TypeInput, "failed to read price seed file", err)
	}

	var seed priceSeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return errors.Wrap(errors.TypeInput, "failed to decode price seed file", err)
	}

	for _, c := range seed.Compute {
		rate, err := decimal.NewFromString(c.Rate)
		if err != nil {
			return errors.Wrapf(errors.TypeInput, err, "invalid seed rate for %s/%s", c.InstanceType, c.Region)
		}
		store.Seed(types.PriceKey{InstanceType: c.InstanceType, Region: c.Region, Model: c.Model}, rate)
	}
	for _, s := range seed.Storage {
		rate, err := decimal.NewFromString(s.Rate)
		if err != nil {
			return errors.Wrapf(errors.TypeInput, err, "invalid seed rate for %s/%s", s.VolumeClass, s.Region)
		}
		store.SeedStorage(types.StoragePriceKey{VolumeClass: s.VolumeClass, Region: s.Region}, rate)
	}
	return nil
}
