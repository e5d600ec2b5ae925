// Package schema provides a fluent builder for the JSON Schema fragments
// that describe tool parameters.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Builder is implemented by all schema builders.
type Builder interface {
	// Build serializes the schema, validating it first.
	Build() (json.RawMessage, error)

	// MustBuild is like Build but panics on error. Intended for schemas
	// declared as package-level tool definitions.
	MustBuild() json.RawMessage

	node() *node
}

// node is the internal representation of a schema fragment.
type node struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Default     any    `json:"default,omitempty"`

	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	Items    *node `json:"items,omitempty"`
	MinItems *int  `json:"minItems,omitempty"`
	MaxItems *int  `json:"maxItems,omitempty"`

	Properties           map[string]*node `json:"properties,omitempty"`
	Required             []string         `json:"required,omitempty"`
	AdditionalProperties *bool            `json:"additionalProperties,omitempty"`
}

// Validation failure sentinels.
var (
	ErrInvalidRange   = errors.New("schema: minimum exceeds maximum")
	ErrInvalidPattern = errors.New("schema: invalid regex pattern")
	ErrNilItems       = errors.New("schema: array requires an items schema")
)

func (n *node) validate() error {
	switch n.Type {
	case "string":
		if n.MinLength != nil && n.MaxLength != nil && *n.MinLength > *n.MaxLength {
			return ErrInvalidRange
		}
		if n.Pattern != "" {
			if _, err := regexp.Compile(n.Pattern); err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidPattern, n.Pattern)
			}
		}
	case "integer", "number":
		if n.Minimum != nil && n.Maximum != nil && *n.Minimum > *n.Maximum {
			return ErrInvalidRange
		}
	case "array":
		if n.Items == nil {
			return ErrNilItems
		}
		if n.MinItems != nil && n.MaxItems != nil && *n.MinItems > *n.MaxItems {
			return ErrInvalidRange
		}
		return n.Items.validate()
	case "object":
		for name, prop := range n.Properties {
			if err := prop.validate(); err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
		}
	}
	return nil
}

func build(n *node) (json.RawMessage, error) {
	if err := n.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

func mustBuild(n *node) json.RawMessage {
	data, err := build(n)
	if err != nil {
		panic(err)
	}
	return data
}

// Required wraps a builder to mark the field as required when it is added to
// an object.
type Required struct {
	b Builder
}

func ptr[T any](v T) *T { return &v }
