package designer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxPromptLength is the longest accepted prompt, in characters.
const MaxPromptLength = 500

// Turn is one earlier message of the conversation.
type Turn struct {
	Role    string `json:"role" yaml:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" yaml:"content" validate:"required"`
}

// Request is a design request.
type Request struct {
	Prompt              string `json:"prompt" yaml:"prompt" validate:"required,max=500"`
	ConversationHistory []Turn `json:"conversationHistory,omitempty" yaml:"conversation_history,omitempty" validate:"omitempty,dive"`
}

var validate = validator.New()

// Validate checks the request. Whitespace around the prompt is ignored.
// The returned error is an *Error of KindInvalidRequest.
func (r Request) Validate() error {
	r.Prompt = strings.TrimSpace(r.Prompt)
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &Error{Kind: KindInvalidRequest, Message: "invalid request", Err: err}
	}
	return &Error{Kind: KindInvalidRequest, Message: formatValidationError(verrs[0]), Err: err}
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	field := e.Field()
	switch {
	case field == "Prompt" && e.Tag() == "required":
		return "Prompt is required."
	case field == "Prompt" && e.Tag() == "max":
		return fmt.Sprintf("Prompt must be at most %d characters.", MaxPromptLength)
	}

	// history fields are reported by their namespace, e.g. ConversationHistory[1].Role
	name := strings.TrimPrefix(e.Namespace(), "Request.")
	switch e.Tag() {
	case "required":
		return name + " is required."
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", name, e.Param())
	default:
		return fmt.Sprintf("%s failed validation '%s'.", name, e.Tag())
	}
}
