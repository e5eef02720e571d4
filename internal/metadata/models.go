package metadata

import "github.com/oukeidos/hanmd/internal/llm"

type GeminiModel struct {
	ID               string
	Label            string
	InputPerMillion  float64
	OutputPerMillion float64
}

type OpenAIModel struct {
	ID               string
	Label            string
	InputPerMillion  float64
	OutputPerMillion float64
}

var GeminiModels = []GeminiModel{
	{
		ID:               "gemini-3-flash-preview",
		Label:            "Gemini 3 Flash (preview)",
		InputPerMillion:  0.50,
		OutputPerMillion: 3.00,
	},
	{
		ID:               "gemini-3-pro-preview",
		Label:            "Gemini 3 Pro (preview)",
		InputPerMillion:  2.00,
		OutputPerMillion: 12.00,
	},
}

var OpenAIModels = []OpenAIModel{
	{
		ID:               "gpt-5.2",
		Label:            "GPT-5.2",
		InputPerMillion:  1.75,
		OutputPerMillion: 14.00,
	},
}

const (
	DefaultOpenAIInputPerMillion  = 2.50
	DefaultOpenAIOutputPerMillion = 10.00
	DefaultGeminiInputPerMillion  = 2.00
	DefaultGeminiOutputPerMillion = 12.00
)

func GeminiModelIDs() []string {
	ids := make([]string, 0, len(GeminiModels))
	for _, m := range GeminiModels {
		ids = append(ids, m.ID)
	}
	return ids
}

func GeminiPricing(modelID string) (GeminiModel, bool) {
	for _, m := range GeminiModels {
		if m.ID == modelID {
			return m, true
		}
	}
	return GeminiModel{
		ID:               "default",
		Label:            "Default Gemini",
		InputPerMillion:  DefaultGeminiInputPerMillion,
		OutputPerMillion: DefaultGeminiOutputPerMillion,
	}, false
}

func OpenAIPricing(modelID string) (OpenAIModel, bool) {
	for _, m := range OpenAIModels {
		if m.ID == modelID {
			return m, true
		}
	}
	return OpenAIModel{
		ID:               "default",
		Label:            "Default OpenAI",
		InputPerMillion:  DefaultOpenAIInputPerMillion,
		OutputPerMillion: DefaultOpenAIOutputPerMillion,
	}, false
}

// EstimateCost converts accumulated token usage into an approximate USD cost
// using published per-million-token pricing for the given provider and model.
func EstimateCost(provider, modelID string, u llm.Usage) float64 {
	var inPerM, outPerM float64
	switch provider {
	case "openai":
		m, _ := OpenAIPricing(modelID)
		inPerM, outPerM = m.InputPerMillion, m.OutputPerMillion
	default:
		m, _ := GeminiPricing(modelID)
		inPerM, outPerM = m.InputPerMillion, m.OutputPerMillion
	}
	return float64(u.PromptTokens)/1e6*inPerM + float64(u.CompletionTokens)/1e6*outPerM
}
