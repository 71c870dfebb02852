package ai

// ConfigKey is the settings document holding the assistant configuration.
const ConfigKey = "ai_config"

// TrainingExample is a stored question/answer pair injected into the
// completion request as a few-shot turn.
type TrainingExample struct {
	UserQuery        string `json:"userQuery"`
	ExpectedResponse string `json:"expectedResponse"`
}

// KnowledgeArticle is one entry of the business knowledge base.
type KnowledgeArticle struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Config is the persisted assistant configuration document. A nil Enabled
// means enabled: auto-reply is suppressed only when the flag is explicitly
// false.
type Config struct {
	Enabled              *bool              `json:"enabled,omitempty"`
	SystemPrompt         string             `json:"systemPrompt,omitempty"`
	CompanyName          string             `json:"companyName,omitempty"`
	Profession           string             `json:"profession,omitempty"`
	AdminPhone           string             `json:"adminPhone,omitempty"`
	PriceTable           string             `json:"priceTable,omitempty"`
	Agenda               string             `json:"agenda,omitempty"`
	BehavioralDirectives string             `json:"behavioralDirectives,omitempty"`
	TrainingExamples     []TrainingExample  `json:"trainingExamples,omitempty"`
	KnowledgeBase        []KnowledgeArticle `json:"knowledgeBase,omitempty"`
	Temperature          *float32           `json:"temperature,omitempty"`
	MaxTokens            *int               `json:"maxTokens,omitempty"`
}

// IsEnabled reports whether auto-reply is on. Absent flag defaults to on.
func (c *Config) IsEnabled() bool {
	return c == nil || c.Enabled == nil || *c.Enabled
}
