package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/jouhou/internal/httpclient"
	"github.com/ternarybob/jouhou/internal/interfaces"
	"github.com/ternarybob/jouhou/internal/models"
)

// DefaultOpenAIBaseURL is the default OpenAI API base URL
const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

// DefaultTimeout is the client-level timeout for one request. Responses that
// use the web search tool can take many minutes.
const DefaultTimeout = 1000 * time.Second

// OpenAIClient calls the OpenAI Responses API through the official SDK.
// SDK retries are disabled; RetryPolicy is the only retrier, so each Create
// call makes exactly one HTTP request.
type OpenAIClient struct {
	client  openai.Client
	baseURL string
	timeout time.Duration
	logger  arbor.ILogger
}

// NewOpenAIClient constructs a Responses API client. A zero timeout disables
// the per-request timeout. A nil httpClient uses the SDK default.
func NewOpenAIClient(apiKey, baseURL string, timeout time.Duration, httpClient httpclient.HTTPDoer, logger arbor.ILogger) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &OpenAIClient{
		client:  openai.NewClient(opts...),
		baseURL: baseURL,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Create sends request to /responses
func (c *OpenAIClient) Create(ctx context.Context, request *models.CompletionRequest) (*interfaces.CompletionResponse, error) {
	params, err := toResponseParams(request)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("base_url", c.baseURL).
		Str("model", request.Model).
		Str("reasoning_effort", request.ReasoningEffort).
		Strs("tools", request.Tools).
		Dur("timeout", c.timeout).
		Msg("Sending Responses API request")

	start := time.Now()
	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return nil, classifyError(ctx, err)
	}

	c.logger.Debug().
		Str("response_id", resp.ID).
		Str("status", string(resp.Status)).
		Dur("elapsed", time.Since(start)).
		Msg("Responses API request complete")

	return &interfaces.CompletionResponse{
		ID:         resp.ID,
		Model:      resp.Model,
		OutputText: resp.OutputText(),
	}, nil
}

func toResponseParams(request *models.CompletionRequest) (responses.ResponseNewParams, error) {
	params := responses.ResponseNewParams{
		Model: request.Model,
	}

	if request.ReasoningEffort != "" {
		params.Reasoning = shared.ReasoningParam{Effort: shared.ReasoningEffort(request.ReasoningEffort)}
	}

	for _, tool := range request.Tools {
		switch tool {
		case models.ToolWebSearch:
			params.Tools = append(params.Tools, responses.ToolUnionParam{
				OfWebSearch: &responses.WebSearchToolParam{Type: responses.WebSearchToolTypeWebSearch},
			})
		default:
			return params, fmt.Errorf("unsupported tool: %s", tool)
		}
	}

	items := make(responses.ResponseInputParam, 0, len(request.Input))
	for _, message := range request.Input {
		content := make(responses.ResponseInputMessageContentListParam, 0, len(message.Content))
		for _, part := range message.Content {
			if part.Type != models.InputTypeText {
				return params, fmt.Errorf("unsupported input content type: %s", part.Type)
			}
			content = append(content, responses.ResponseInputContentParamOfInputText(part.Text))
		}
		items = append(items, responses.ResponseInputItemParamOfMessage(content, responses.EasyInputMessageRole(message.Role)))
	}
	params.Input = responses.ResponseNewParamsInputUnion{OfInputItemList: items}

	return params, nil
}

// classifyError maps SDK errors onto StatusError and the transient types
func classifyError(ctx context.Context, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		statusErr := &StatusError{
			StatusCode: apiErr.StatusCode,
			Code:       apiErr.Code,
			Message:    apiErr.Message,
		}
		if statusErr.Code == "" {
			statusErr.Code = apiErr.Type
		}
		return statusErr
	}
	return classifyTransportError(ctx, err)
}
