package completion

import (
	"encoding/json"

	"github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT3Dot5TurboInstruct

// Params holds the generation settings sent with every prompt.
type Params struct {
	Model            string
	Temperature      float32
	MaxTokens        int
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
}

func DefaultParams() Params {
	return Params{
		Model:            DefaultModel,
		Temperature:      0.9,
		MaxTokens:        512,
		TopP:             1,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.25,
	}
}

// Request builds the completion request body for prompt.
func (p Params) Request(prompt string) openai.CompletionRequest {
	return openai.CompletionRequest{
		Model:            p.Model,
		Prompt:           prompt,
		Temperature:      p.Temperature,
		MaxTokens:        p.MaxTokens,
		TopP:             p.TopP,
		FrequencyPenalty: p.FrequencyPenalty,
		PresencePenalty:  p.PresencePenalty,
	}
}

// EncodeRequest serializes the request for prompt. Invalid float settings
// such as NaN are reported as KindSerialization.
func (p Params) EncodeRequest(prompt string) ([]byte, error) {
	data, err := json.Marshal(p.Request(prompt))
	if err != nil {
		return nil, &Error{Kind: KindSerialization, Err: err}
	}
	return data, nil
}
