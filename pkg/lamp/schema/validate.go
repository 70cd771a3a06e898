package schema

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/urmzd/lampbridge/pkg/lamp"
)

// Validator checks lamp route bodies. All request schemas are compiled up
// front, so a Validator is read-only and safe for concurrent use.
type Validator struct {
	schemas map[Request]*jsonschema.Schema
}

// NewValidator compiles every request schema. The schemas are static, so
// a compile failure is a programming error and panics.
func NewValidator() *Validator {
	v := &Validator{schemas: make(map[Request]*jsonschema.Schema, len(documents))}
	for req, doc := range documents {
		compiled, err := compile(req, doc)
		if err != nil {
			panic(fmt.Sprintf("schema: %s request: %v", req, err))
		}
		v.schemas[req] = compiled
	}
	return v
}

// Decode validates body against the schema of req and unmarshals it into
// dst. Malformed or invalid bodies wrap lamp.ErrInvalidArgument.
func (v *Validator) Decode(req Request, body []byte, dst any) error {
	compiled, ok := v.schemas[req]
	if !ok {
		return fmt.Errorf("unknown request %q", req)
	}

	// UnmarshalJSON keeps numbers exact, so 1.0 and 1.5 are told apart
	payload, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: malformed JSON body: %w", lamp.ErrInvalidArgument, err)
	}
	if err := compiled.Validate(payload); err != nil {
		return fmt.Errorf("%w: %w", lamp.ErrInvalidArgument, err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %w", lamp.ErrInvalidArgument, err)
	}
	return nil
}

func compile(req Request, doc json.RawMessage) (*jsonschema.Schema, error) {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	url := string(req) + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	return c.Compile(url)
}
