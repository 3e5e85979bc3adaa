package llm

import (
	"encoding/json"

	"github.com/google/generative-ai-go/genai"
)

// Type is a JSON schema value type in the subset the providers accept.
type Type string

const (
	TypeObject Type = "object"
	TypeArray  Type = "array"
	TypeString Type = "string"
)

// Schema describes the JSON document a prompt expects back. It is provider
// neutral; each client converts it to its own wire form.
type Schema struct {
	Name        string             `json:"-"`
	Type        Type               `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// JSON renders the schema for inclusion in a prompt.
func (s *Schema) JSON() string {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

func (s *Schema) toGenai() *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
	}
	switch s.Type {
	case TypeObject:
		out.Type = genai.TypeObject
	case TypeArray:
		out.Type = genai.TypeArray
	default:
		out.Type = genai.TypeString
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.toGenai()
		}
	}
	out.Items = s.Items.toGenai()
	return out
}

// String is a convenience constructor for a described string property.
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// StringList is a convenience constructor for an array of strings.
func StringList(description string) *Schema {
	return &Schema{Type: TypeArray, Description: description, Items: &Schema{Type: TypeString}}
}
