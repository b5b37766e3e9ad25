package common

import (
	"github.com/google/uuid"
)

// NewRunID generates a unique identifier for one process run
// Format: run_<uuid>
func NewRunID() string {
	return "run_" + uuid.New().String()
}
