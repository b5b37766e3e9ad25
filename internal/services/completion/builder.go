package completion

import (
	"strings"

	"github.com/ternarybob/jouhou/internal/common"
	"github.com/ternarybob/jouhou/internal/models"
)

// BuildRequest assembles the single generative request for a run.
// The prompt is passed through verbatim as the only user message, even when
// empty; its presence is checked by Config.Validate.
func BuildRequest(cfg *common.OpenAIConfig, prompt string) (*models.CompletionRequest, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, &common.ConfigError{Field: "Config.OpenAI.Model", EnvVar: "JOUHOU_OPENAI_MODEL", Reason: "value is required"}
	}

	var tools []string
	if cfg.WebSearch {
		tools = append(tools, models.ToolWebSearch)
	}

	return &models.CompletionRequest{
		Model:           cfg.Model,
		ReasoningEffort: cfg.ReasoningEffort,
		Tools:           tools,
		Input: []models.InputMessage{
			{
				Role:    "user",
				Content: []models.InputContent{{Type: models.InputTypeText, Text: prompt}},
			},
		},
	}, nil
}
