package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/jouhou/internal/interfaces"
	"github.com/ternarybob/jouhou/internal/models"
)

// Service performs one logical completion, retrying transient failures
type Service struct {
	client interfaces.CompletionClient
	policy *RetryPolicy
	logger arbor.ILogger
}

// NewService creates a completion service
func NewService(client interfaces.CompletionClient, policy *RetryPolicy, logger arbor.ILogger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("completion client is required")
	}
	if policy == nil {
		return nil, fmt.Errorf("retry policy is required")
	}
	return &Service{
		client: client,
		policy: policy,
		logger: logger,
	}, nil
}

// Complete runs the request and extracts the trimmed output text.
// A missing or empty output yields "".
func (s *Service) Complete(ctx context.Context, request *models.CompletionRequest) (*models.CompletionResult, error) {
	var response *interfaces.CompletionResponse

	attempts, err := s.policy.Do(ctx, "OpenAI API call", func(ctx context.Context) error {
		resp, err := s.client.Create(ctx, request)
		if err != nil {
			return err
		}
		response = resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &models.CompletionResult{Attempts: attempts, Model: request.Model}
	if response != nil {
		result.Text = strings.TrimSpace(response.OutputText)
		result.ResponseID = response.ID
		if response.Model != "" {
			result.Model = response.Model
		}
	}

	s.logger.Info().
		Str("response_id", result.ResponseID).
		Str("model", result.Model).
		Int("attempts", attempts).
		Int("text_length", len(result.Text)).
		Msg("Completion received")

	return result, nil
}
