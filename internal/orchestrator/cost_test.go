package orchestrator

import (
	"strconv"
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 4000), 1000},
	}

	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(len %d) = %d, want %d", len(tt.in), got, tt.want)
		}
	}
}

func TestCalculateCostZero(t *testing.T) {
	e := NewCostEstimator(nil)
	usage := e.CalculateCost(0, 0, "gpt-4o-mini")

	if usage.TotalTokens != 0 {
		t.Errorf("total tokens = %d", usage.TotalTokens)
	}
	if usage.InputCost != "0.000000" || usage.OutputCost != "0.000000" || usage.TotalCost != "0.000000" {
		t.Errorf("zero usage must cost 0.000000, got %s/%s/%s", usage.InputCost, usage.OutputCost, usage.TotalCost)
	}
}

func TestCalculateCostKnownRates(t *testing.T) {
	e := NewCostEstimator(nil)

	// gpt-4o-mini: 0.000150 in, 0.000600 out per 1K tokens.
	usage := e.CalculateCost(1000, 1000, "gpt-4o-mini")
	if usage.InputCost != "0.000150" {
		t.Errorf("input cost = %s", usage.InputCost)
	}
	if usage.OutputCost != "0.000600" {
		t.Errorf("output cost = %s", usage.OutputCost)
	}
	if usage.TotalCost != "0.000750" {
		t.Errorf("total cost = %s", usage.TotalCost)
	}

	// gpt-4o: 0.0025 in, 0.010 out per 1K tokens.
	usage = e.CalculateCost(2000, 1000, "gpt-4o")
	if usage.InputCost != "0.005000" {
		t.Errorf("input cost = %s", usage.InputCost)
	}
	if usage.OutputCost != "0.010000" {
		t.Errorf("output cost = %s", usage.OutputCost)
	}
}

func TestCalculateCostUnknownModelUsesDefault(t *testing.T) {
	e := NewCostEstimator(nil)

	known := e.CalculateCost(500, 500, "gpt-4o-mini")
	unknown := e.CalculateCost(500, 500, "some-future-model")

	if known.TotalCost != unknown.TotalCost {
		t.Errorf("unknown model should use default rates: %s vs %s", known.TotalCost, unknown.TotalCost)
	}
}

func TestCalculateCostMonotonic(t *testing.T) {
	e := NewCostEstimator(nil)

	prev := 0.0
	for _, tokens := range []int{0, 100, 1000, 50000} {
		usage := e.CalculateCost(tokens, tokens, "gpt-4o-mini")
		total, err := strconv.ParseFloat(usage.TotalCost, 64)
		if err != nil {
			t.Fatalf("total cost %q not numeric: %v", usage.TotalCost, err)
		}
		if total < prev {
			t.Errorf("cost decreased with more tokens: %f < %f", total, prev)
		}
		prev = total
	}
}

func TestEstimateUsageCountsBothSides(t *testing.T) {
	e := NewCostEstimator(nil)
	usage := e.EstimateUsage(strings.Repeat("p", 400), strings.Repeat("c", 800), "gpt-4o-mini")

	if usage.InputTokens != 100 {
		t.Errorf("input tokens = %d, want 100", usage.InputTokens)
	}
	if usage.OutputTokens != 200 {
		t.Errorf("output tokens = %d, want 200", usage.OutputTokens)
	}
	if usage.TotalTokens != 300 {
		t.Errorf("total tokens = %d, want 300", usage.TotalTokens)
	}
}
