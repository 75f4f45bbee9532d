package entity

// OnboardingProfile 新手问卷结果，由前端问卷产生，核心流程不消费
type OnboardingProfile struct {
	UsageFrequency string   `json:"usageFrequency"`
	PromptHabit    string   `json:"promptHabit"`
	Interests      []string `json:"interests"`
}
