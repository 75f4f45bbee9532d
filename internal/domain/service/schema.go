package service

// SchemaType 输出结构的字段类型
type SchemaType string

const (
	SchemaObject  SchemaType = "object"
	SchemaString  SchemaType = "string"
	SchemaArray   SchemaType = "array"
	SchemaNumber  SchemaType = "number"
	SchemaBoolean SchemaType = "boolean"
)

// Schema 与具体 Provider 无关的 JSON Schema 子集
type Schema struct {
	Type        SchemaType
	Description string
	Properties  map[string]*Schema
	// PropertyOrdering 属性输出顺序，Gemini 按此顺序生成字段
	PropertyOrdering []string
	Required         []string
	Items            *Schema
	Enum             []string
}

// Object 构造对象类型，props 按传入顺序记录
func Object(description string, required []string, props ...Property) *Schema {
	s := &Schema{
		Type:        SchemaObject,
		Description: description,
		Properties:  make(map[string]*Schema, len(props)),
		Required:    required,
	}
	for _, p := range props {
		s.Properties[p.Name] = p.Schema
		s.PropertyOrdering = append(s.PropertyOrdering, p.Name)
	}
	return s
}

// String 构造字符串类型
func String(description string) *Schema {
	return &Schema{Type: SchemaString, Description: description}
}

// Enum 构造受限字符串类型
func Enum(description string, values ...string) *Schema {
	return &Schema{Type: SchemaString, Description: description, Enum: values}
}

// Array 构造数组类型
func Array(description string, items *Schema) *Schema {
	return &Schema{Type: SchemaArray, Description: description, Items: items}
}

// Property 对象属性
type Property struct {
	Name   string
	Schema *Schema
}

// Prop 构造对象属性
func Prop(name string, s *Schema) Property {
	return Property{Name: name, Schema: s}
}
