package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRunStampsEveryLine(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := WithRun(zap.New(core), "run-42")

	log.Info("batch complete")
	log.Warn("no storage rate, storage cost omitted", zap.String("workload_id", "w-1"))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	for _, entry := range entries {
		fields := entry.ContextMap()
		if fields["run_id"] != "run-42" {
			t.Errorf("%q missing run_id: %v", entry.Message, fields)
		}
	}
}

func TestWithRunNilFallsBackToGlobal(t *testing.T) {
	log := WithRun(nil, "run-1")
	if log == nil {
		t.Fatal("WithRun must always return a usable logger")
	}
}

func TestInitializeParsesLevels(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"debug console", Config{Level: "debug", Format: "console", Output: "stderr"}},
		{"json stdout", Config{Level: "info", Format: "json", Output: "stdout"}},
		{"unknown level falls back", Config{Level: "noisy", Format: "json", Output: "stderr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Initialize(tt.cfg); err != nil {
				t.Errorf("Initialize: %v", err)
			}
			if Logger == nil || Sugar == nil {
				t.Error("Initialize must set the global loggers")
			}
		})
	}
	InitializeDefault()
}
