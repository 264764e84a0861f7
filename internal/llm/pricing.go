package llm

// ModelCost holds per-million-token pricing for a model in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// Friendly names are resolved first, so "claude-haiku" and
// "claude-haiku-4-5" price the same.
func LookupCost(modelID string) *ModelCost {
	for _, models := range []map[string]string{anthropicModels, openaiModels, geminiModels} {
		modelID = resolveModel(modelID, models)
	}
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the models coaching tips are generated with.
// Prices as of 2026-02.
var modelCosts = map[string]ModelCost{
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4-5": {3, 15},

	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-4o-mini":  {0.15, 0.6},

	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.0-flash":      {0.1, 0.4},

	"google/gemini-2.5-flash": {0.3, 2.5},
}
