package resolver

import (
	"fmt"
	"smartdash/internal/models"
	"strings"
)

const translatePrompt = "Please provide English text for translation to Hindi."

const simulatedAction = "Simulated Action: Scheduling a meeting for tomorrow at 10 AM based on your request."

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func prefix(s models.Settings) string {
	return fmt.Sprintf("(Using language: %s, tone: %s) (Tone: %s) ", strings.ToUpper(s.Language), s.Tone, s.Tone)
}

// firstRunes slices by rune so multi-byte input is never split mid-character.
func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var leadingArticles = map[string]bool{"a": true, "an": true, "the": true}

// focusWords returns the first n words of s. Words are split on single
// spaces, so a run of spaces yields empty words and is kept in the excerpt.
// Leading articles are dropped so the excerpt opens on a content word; a
// plain first-n split would start "The quick brown fox jumps".
func focusWords(s string, n int) string {
	words := strings.Split(s, " ")
	for len(words) > n && leadingArticles[strings.ToLower(words[0])] {
		words = words[1:]
	}
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func summarize(input string, s models.Settings) string {
	if isBlank(input) {
		return prefix(s) + "Please provide some text for me to summarize."
	}
	return fmt.Sprintf(`%sHere's a summary of your text:

• Main points extracted from your content (influenced by %s tone).
• Key insights and important details highlighted.
• Concise overview maintaining essential information.

The text appears to focus on "%s..." and I've condensed it for you.`,
		prefix(s), s.Tone, focusWords(input, 5))
}

func email(input string, s models.Settings) string {
	if isBlank(input) {
		return prefix(s) + `Please describe the email you want me to generate (e.g., "an email to my boss asking for a raise").`
	}
	return fmt.Sprintf(`%sI've generated a %s email for you regarding "%s...":

**Subject:** Regarding Your Request: %s...

**Body:**
Dear [Recipient Name],

I hope this email finds you well. I am writing to you concerning %s...

Considering your input, I have crafted this message with a %s tone, focusing on clarity and achieving your objective. This draft is in %s.

Best regards,
[Your Name]`,
		prefix(s), s.Tone, firstRunes(input, 30), firstRunes(input, 20), firstRunes(input, 50), s.Tone, strings.ToUpper(s.Language))
}

func chat(input string, s models.Settings) string {
	if isBlank(input) {
		return prefix(s) + "What can I assist you with today? Ask me anything!"
	}
	return fmt.Sprintf(`%sOkay, I'm processing your request: "%s".

As your general AI assistant, I can help with various tasks. For instance, if you asked me to write a poem, I'd try my best! This response is tailored with a %s style and in %s.

%s`,
		prefix(s), input, s.Tone, strings.ToUpper(s.Language), simulatedAction)
}

func translation(original, translated string, s models.Settings) string {
	return fmt.Sprintf(`Original (English): "%s"

Translation (Hindi):
"%s"

(Translation by MyMemory API. Tone setting '%s' is not applicable for this direct translation.)`,
		original, translated, s.Tone)
}

func fallback(toolType models.ToolType, input string, s models.Settings) string {
	return fmt.Sprintf(`%sI've processed your request: "%s". This is a simulated response demonstrating the %s functionality.`,
		prefix(s), input, toolType)
}
