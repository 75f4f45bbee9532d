package llm

import (
	"google.golang.org/genai"

	"ai-academy-api/internal/domain/service"
)

// toGenAISchema 转换为 Gemini responseSchema
func toGenAISchema(s *service.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Items:       toGenAISchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, p := range s.Properties {
			out.Properties[name] = toGenAISchema(p)
		}
		out.PropertyOrdering = s.PropertyOrdering
	}
	if len(s.Required) > 0 {
		out.Required = s.Required
	}
	return out
}

func genaiType(t service.SchemaType) genai.Type {
	switch t {
	case service.SchemaObject:
		return genai.TypeObject
	case service.SchemaArray:
		return genai.TypeArray
	case service.SchemaNumber:
		return genai.TypeNumber
	case service.SchemaBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// toJSONSchema 转换为 OpenAI response_format 使用的 JSON Schema
func toJSONSchema(s *service.Schema) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		enum := make([]any, 0, len(s.Enum))
		for _, v := range s.Enum {
			enum = append(enum, v)
		}
		out["enum"] = enum
	}
	if s.Items != nil {
		out["items"] = toJSONSchema(s.Items)
	}
	if s.Type == service.SchemaObject {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = toJSONSchema(p)
		}
		out["properties"] = props
		out["additionalProperties"] = false
		required := make([]any, 0, len(s.Required))
		for _, r := range s.Required {
			required = append(required, r)
		}
		out["required"] = required
	}
	return out
}
