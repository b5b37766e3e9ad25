package models

// Tool types understood by the Responses API
const (
	ToolWebSearch = "web_search"
)

// Input content part types
const (
	InputTypeText = "input_text"
)

// InputContent is one part of an input message
type InputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// InputMessage is a single message sent to the completion service
type InputMessage struct {
	Role    string         `json:"role"`
	Content []InputContent `json:"content"`
}

// CompletionRequest describes one generative request. Built once, never mutated.
type CompletionRequest struct {
	Model           string
	ReasoningEffort string
	Tools           []string
	Input           []InputMessage
}

// CompletionResult is the text extracted from a completion response
type CompletionResult struct {
	Text       string `json:"text"`
	ResponseID string `json:"response_id,omitempty"`
	Model      string `json:"model,omitempty"`
	Attempts   int    `json:"attempts"`
}
