package orchestrator

import (
	"fmt"

	"github.com/buildnow/buildnow-api/internal/models"
	"github.com/buildnow/buildnow-api/internal/pricing"
)

// EstimateTokens approximates the token count of a text. Rough rule of thumb
// for English text: one token per four characters, rounded up. Not a real
// tokenizer; good enough for advisory cost numbers.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}

// CostEstimator produces advisory usage estimates from a price table.
type CostEstimator struct {
	table *pricing.Table
}

// NewCostEstimator creates an estimator over the given table.
func NewCostEstimator(table *pricing.Table) *CostEstimator {
	if table == nil {
		table = pricing.NewTable()
	}
	return &CostEstimator{table: table}
}

// CalculateCost converts token counts into a UsageEstimate. Pure: never
// errors, unknown models use the default pricing row, costs are fixed
// six-decimal strings.
func (e *CostEstimator) CalculateCost(inputTokens, outputTokens int, model string) models.UsageEstimate {
	rates := e.table.Rates(model)

	inputCost := float64(inputTokens) / 1000 * rates.InputPerKTokens
	outputCost := float64(outputTokens) / 1000 * rates.OutputPerKTokens

	return models.UsageEstimate{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalTokens:  inputTokens + outputTokens,
		InputCost:    fmt.Sprintf("%.6f", inputCost),
		OutputCost:   fmt.Sprintf("%.6f", outputCost),
		TotalCost:    fmt.Sprintf("%.6f", inputCost+outputCost),
	}
}

// EstimateUsage is CalculateCost with token counts taken from the texts of a
// single round trip.
func (e *CostEstimator) EstimateUsage(prompt, completion, model string) models.UsageEstimate {
	return e.CalculateCost(EstimateTokens(prompt), EstimateTokens(completion), model)
}
