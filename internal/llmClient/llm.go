package llmclient

import (
	"context"
	"encoding/json"
	"errors"
)

// LLMClient is a chat model that answers a prompt with a JSON document.
type LLMClient interface {
	Name() string
	Close() error
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
}

var ErrInvalidJSON = errors.New("invalid json from LLM")

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err, or anything it wraps, is a PermanentError.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// buildPrompt joins the instruction and the JSON-encoded input the same way
// for every provider.
func buildPrompt(prompt string, input any) (string, error) {
	in, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", NewPermanentError(err)
	}
	return prompt + "\n\n[INPUT JSON]\n" + string(in), nil
}
