// Package output provides output formatting for batch results.
// The export collaborator owns final report formats; this package
// renders the CLI-facing table and JSON views.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatTable is a human-readable table
	FormatTable Format = "table"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// Render writes the batch result in the requested format
func Render(w io.Writer, format Format, result *types.BatchResult) error {
	switch format {
	case FormatTable:
		return renderTable(w, result)
	case FormatJSON:
		return renderJSON(w, result)
	default:
		return errors.Newf(errors.TypeInput, "unknown output format %q", format)
	}
}

func renderJSON(w io.Writer, result *types.BatchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func renderTable(w io.Writer, result *types.BatchResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "WORKLOAD\tINSTANCE\tMODEL\tCOMPUTE\tSTORAGE\tTOTAL\tCLASS\tNOTES")
	for _, e := range result.Estimates {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.WorkloadID,
			orDash(e.InstanceType),
			e.Model.Label(),
			e.ComputeCost.StringFixed(2),
			e.StorageCost.StringFixed(2),
			e.TotalCost.StringFixed(2),
			e.Classification,
			notes(e))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := result.Summary
	fmt.Fprintf(w, "\n%d workloads, fleet total %s/month", s.TotalWorkloads, s.FleetTotal.StringFixed(2))
	if s.Substituted > 0 || s.Degraded > 0 || s.FallbackPriced > 0 || s.Unresolved > 0 {
		fmt.Fprintf(w, " (%d substituted, %d degraded, %d fallback-priced, %d unresolved)",
			s.Substituted, s.Degraded, s.FallbackPriced, s.Unresolved)
	}
	fmt.Fprintln(w)

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// notes summarizes estimate flags for the table view
func notes(e types.CostEstimate) string {
	if e.Unresolved {
		return "unresolved"
	}
	var parts []string
	if e.Substituted {
		parts = append(parts, "substituted")
	}
	if e.Degraded {
		parts = append(parts, "degraded")
	}
	if e.Fallback {
		parts = append(parts, "fallback")
	}
	return strings.Join(parts, ",")
}
