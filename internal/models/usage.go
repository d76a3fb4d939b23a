package models

// UsageEstimate is an advisory token/cost estimate for one completion call.
// Token counts come from a coarse character-length approximation, not a real
// tokenizer, and costs come from a static price table. Observability data
// only — never a billing source of truth.
type UsageEstimate struct {
	InputTokens  int    `json:"inputTokens"`
	OutputTokens int    `json:"outputTokens"`
	TotalTokens  int    `json:"totalTokens"`
	InputCost    string `json:"inputCost"`
	OutputCost   string `json:"outputCost"`
	TotalCost    string `json:"totalCost"`
}
