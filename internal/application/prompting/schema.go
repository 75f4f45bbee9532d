package prompting

import (
	"ai-academy-api/internal/domain/entity"
	"ai-academy-api/internal/domain/service"
)

func pctrTextSchema() *service.Schema {
	return service.Object("PCTR prompt sections",
		[]string{"persona", "context", "task", "requirements"},
		service.Prop("persona", service.String("Who the AI should act as")),
		service.Prop("context", service.String("Background, audience and inputs")),
		service.Prop("task", service.String("The exact deliverable")),
		service.Prop("requirements", service.String("Format, constraints and quality bar")),
	)
}

// generationSchema 模板生成的输出结构
var generationSchema = service.Object("Structured prompt template",
	[]string{"summary", "toolType", "techniquesUsed", "prompt", "followUpPrompts"},
	service.Prop("summary", service.String("One-sentence summary of the template")),
	service.Prop("toolType", service.String("Recommended AI tool")),
	service.Prop("techniquesUsed", service.Array("Prompting techniques applied", service.String(""))),
	service.Prop("prompt", pctrTextSchema()),
	service.Prop("followUpPrompts", service.Array("Suggested follow-up prompts", service.String(""))),
	service.Prop("extraInstructions", service.String("Optional system-level instructions for the tool")),
)

func criterionSchema(name string) *service.Schema {
	ratings := make([]string, 0, len(entity.Ratings))
	for _, r := range entity.Ratings {
		ratings = append(ratings, string(r))
	}
	return service.Object("Assessment of the "+name+" section",
		[]string{"rating", "comment"},
		service.Prop("rating", service.Enum("Strong, Okay or Missing", ratings...)),
		service.Prop("comment", service.String("Short justification")),
	)
}

// evaluationSchema Prompt 评估的输出结构
var evaluationSchema = service.Object("PCTR prompt evaluation",
	[]string{"summary", "pctr", "improvedPrompt", "tip"},
	service.Prop("summary", service.String("Overall assessment")),
	service.Prop("pctr", service.Object("Per-section assessment",
		[]string{"persona", "context", "task", "requirements"},
		service.Prop("persona", criterionSchema("persona")),
		service.Prop("context", criterionSchema("context")),
		service.Prop("task", criterionSchema("task")),
		service.Prop("requirements", criterionSchema("requirements")),
	)),
	service.Prop("improvedPrompt", service.String("Rewritten prompt")),
	service.Prop("tip", service.String("One practical tip")),
)
