package domain

// Prompt is one request to the AI collaborator.
type Prompt struct {
	// Instruction is the natural-language request.
	Instruction string
	// Schema, when set, describes the JSON document the collaborator must return.
	Schema string
	// Image is an optional inline picture sent alongside the instruction.
	Image *InlineImage
	// MaxTokens overrides the adapter default when > 0.
	MaxTokens int
}

// InlineImage is raw image bytes plus their MIME type.
type InlineImage struct {
	Data     []byte
	MIMEType string
}
