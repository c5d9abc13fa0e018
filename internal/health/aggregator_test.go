package health

import (
	"context"
	"testing"
)

type stubChecker struct {
	name   string
	status Status
}

func (s stubChecker) Name() string { return s.name }
func (s stubChecker) Check(ctx context.Context) CheckResult {
	return CheckResult{Status: s.status, Message: string(s.status)}
}

func TestAggregator_OverallStatus(t *testing.T) {
	ctx := context.Background()

	a := NewAggregator(stubChecker{"a", StatusHealthy}, stubChecker{"b", StatusHealthy})
	if got := a.OverallStatus(ctx); got != StatusHealthy {
		t.Fatalf("expected healthy, got %s", got)
	}

	a.AddChecker(stubChecker{"c", StatusDegraded})
	if got := a.OverallStatus(ctx); got != StatusDegraded {
		t.Fatalf("expected degraded, got %s", got)
	}
	if !a.Ready(ctx) {
		t.Fatal("degraded system should still be ready")
	}

	a.AddChecker(stubChecker{"d", StatusUnhealthy})
	if got := a.OverallStatus(ctx); got != StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %s", got)
	}
	if a.Ready(ctx) {
		t.Fatal("unhealthy system must not be ready")
	}
}

func TestAggregator_Report(t *testing.T) {
	a := NewAggregator(stubChecker{"a", StatusHealthy}, stubChecker{"b", StatusUnhealthy})
	report := a.Report(context.Background())
	if report.Status != StatusUnhealthy {
		t.Fatalf("expected unhealthy report, got %s", report.Status)
	}
	if len(report.Checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(report.Checks))
	}
}
