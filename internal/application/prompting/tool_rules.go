package prompting

import "ai-academy-api/internal/domain/entity"

// toolRule 目标工具的行为规则，按 PCTR 分段给出指令
// 新增工具只需在 toolRules 中追加一条记录。
type toolRule struct {
	DisplayName  string
	Persona      string
	Context      []string
	Task         []string
	Requirements []string
	// HighStakes 在 stakes=high 时追加
	HighStakes []string
	// SelfCritique 在约束包含 self-critique 时追加
	SelfCritique []string
}

var toolRules = map[entity.ToolTarget]toolRule{
	entity.ToolChat: {
		DisplayName: "General chat assistant",
		Persona:     "Cast the assistant as a general-purpose assistant taking on the expert role best suited to the task.",
		Context: []string{
			"Summarize the background the assistant needs: audience, goal and any known constraints.",
		},
		Task: []string{
			"State the deliverable as one clear, actionable instruction.",
		},
		Requirements: []string{
			"Specify output format, length and tone.",
		},
		HighStakes: []string{
			"Reasoning: instruct the assistant to think through the problem step by step before giving its final answer.",
		},
		SelfCritique: []string{
			"Self-review: instruct the assistant to critique its own draft against the requirements and revise it before responding.",
		},
	},
	entity.ToolNotebookLM: {
		DisplayName: "Source-grounded notebook",
		Persona:     "The persona must be an analyst restricted to provided sources.",
		Context: []string{
			"Sources only: instruct the model to rely only on the uploaded documents and never on the open web or outside knowledge.",
		},
		Task: []string{
			"Frame the task as analysis, synthesis or extraction over the uploaded documents.",
		},
		Requirements: []string{
			"Citation mandate: every claim must cite the source document it came from.",
			"Hallucination warning: if the sources do not contain the answer, say so explicitly instead of guessing.",
		},
	},
	entity.ToolResearch: {
		DisplayName: "Live research assistant",
		Persona:     "Cast the model as a research assistant with live web search capability.",
		Context: []string{
			"Describe the research question and why the answer matters.",
		},
		Task: []string{
			"Ask for a researched answer that draws on current sources.",
		},
		Requirements: []string{
			"Include links and publication dates for every source used.",
			"Prefer the most recent sources and flag anything that may be outdated.",
		},
		HighStakes: []string{
			"Credibility: instruct the model to assess the credibility of each source and reason explicitly about conflicting evidence.",
		},
	},
	entity.ToolWorkspace: {
		DisplayName: "Creative workspace builder",
		Persona:     "Cast the model as a creative director and builder.",
		Context: []string{
			"Describe the brand, audience and intended use of the asset.",
		},
		Task: []string{
			"The task must describe a visual or media asset to produce.",
		},
		Requirements: []string{
			"Specify style, mood and aspect ratio.",
			"When the asset is an image, require no embedded text or logos.",
		},
	},
}

// 跨工具规则
var (
	sensitiveDirective = "Sensitive data: instruct the model to use placeholders such as [CLIENT_NAME] instead of real personal or client data, and never to repeat identifying details."

	depthDirectives = map[entity.StructureLevel]string{
		entity.StructureLight:  "Depth: keep each section concise, one or two sentences.",
		entity.StructureMedium: "Depth: keep each section balanced, with enough detail to be reused without edits.",
		entity.StructureHigh:   "Depth: make each section exhaustive and break the task into explicit numbered sub-steps.",
	}
)

func ruleFor(target entity.ToolTarget) (toolRule, bool) {
	r, ok := toolRules[target]
	return r, ok
}
