package entity

import "strings"

// PCTRBlock 结构化 Prompt 的四个部分：Persona / Context / Task / Requirements
type PCTRBlock struct {
	Persona      string `json:"persona"`
	Context      string `json:"context"`
	Task         string `json:"task"`
	Requirements string `json:"requirements"`
}

// Sections 按固定顺序返回各部分标题与内容
func (b PCTRBlock) Sections() [][2]string {
	return [][2]string{
		{"Persona", b.Persona},
		{"Context", b.Context},
		{"Task", b.Task},
		{"Requirements", b.Requirements},
	}
}

// Flatten 渲染为旧版单字符串格式，各部分带标题，以空行分隔
func (b PCTRBlock) Flatten() string {
	parts := make([]string, 0, 4)
	for _, s := range b.Sections() {
		parts = append(parts, "### "+s[0]+"\n"+strings.TrimSpace(s[1]))
	}
	return strings.Join(parts, "\n\n")
}
