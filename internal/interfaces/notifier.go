package interfaces

import (
	"context"

	"github.com/ternarybob/jouhou/internal/models"
)

// Notifier delivers a message to the chat endpoint.
// A non-success HTTP status is reported in the outcome, not as an error.
type Notifier interface {
	Send(ctx context.Context, content string) (*models.DeliveryOutcome, error)
}
