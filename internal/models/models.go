package models

// ToolType selects which response branch handles a request
type ToolType string

const (
	ToolSummarize ToolType = "summarize"
	ToolTranslate ToolType = "translate"
	ToolEmail     ToolType = "email"
	ToolChat      ToolType = "chat"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type Tool struct {
	ID          string   `json:"id"`
	Type        ToolType `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

type Message struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Settings are the user preferences echoed into simulated replies
type Settings struct {
	Language string `json:"language"`
	Tone     string `json:"tone"`
}

const (
	DefaultLanguage = "en"
	DefaultTone     = "professional"
)

func DefaultSettings() Settings {
	return Settings{Language: DefaultLanguage, Tone: DefaultTone}
}
