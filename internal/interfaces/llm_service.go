package interfaces

import (
	"context"

	"github.com/ternarybob/jouhou/internal/models"
)

// CompletionResponse is the provider response reduced to what a run needs
type CompletionResponse struct {
	ID         string
	Model      string
	OutputText string
}

// CompletionClient performs a single physical request against the completion
// service. Implementations return *completion.ConnectionError or
// *completion.TimeoutError for transient transport failures.
type CompletionClient interface {
	// Create sends the request and returns the parsed response.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//   - request: Immutable request description
	//
	// Returns:
	//   - *CompletionResponse: Response with the aggregated output text
	//   - error: Transient (connection/timeout) or non-transient failure
	Create(ctx context.Context, request *models.CompletionRequest) (*CompletionResponse, error)
}

// CompletionService runs one logical completion, retrying transient failures
type CompletionService interface {
	Complete(ctx context.Context, request *models.CompletionRequest) (*models.CompletionResult, error)
}
