package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second register failed: %v", err)
	}
}

func TestObserveHelpers(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	ObserveAnalysis(25*time.Millisecond, OutcomeSuccess)
	ObserveAnalysis(-time.Second, OutcomeError)
	ObserveRetrieval(true)
	ObserveRetrieval(false)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected gathered metric families")
	}
}
