// Package catalog holds the fixed set of tools offered on the dashboard.
package catalog

import (
	"smartdash/internal/models"
	"strings"
)

var tools = []models.Tool{
	{
		ID:          "summarize",
		Type:        models.ToolSummarize,
		Title:       "Text Summarizer",
		Description: "Condense long texts into key points and insights",
	},
	{
		ID:          "translate",
		Type:        models.ToolTranslate,
		Title:       "Smart Translator",
		Description: "Translate text between multiple languages instantly",
	},
	{
		ID:          "email",
		Type:        models.ToolEmail,
		Title:       "Email Generator",
		Description: "Create professional emails with perfect tone and structure",
	},
	{
		ID:          "chat",
		Type:        models.ToolChat,
		Title:       "AI Assistant",
		Description: "General purpose AI helper for any task or question",
	},
}

var placeholders = map[models.ToolType]string{
	models.ToolSummarize: "Paste or type the text you want to summarize...",
	models.ToolTranslate: "Enter English text to translate to Hindi...",
	models.ToolEmail:     "Describe the email (e.g., 'Draft an email to a client about project updates')...",
	models.ToolChat:      "Ask me anything or describe the task...",
}

// All returns the tools in display order. The slice is a copy.
func All() []models.Tool {
	out := make([]models.Tool, len(tools))
	copy(out, tools)
	return out
}

func Lookup(id string) (models.Tool, bool) {
	for _, t := range tools {
		if t.ID == id {
			return t, true
		}
	}
	return models.Tool{}, false
}

// Placeholder returns the input hint shown in the chat modal for a tool.
func Placeholder(t models.Tool) string {
	if p, ok := placeholders[t.Type]; ok {
		return p
	}
	return "Type your request for " + strings.ToLower(t.Title) + "..."
}
