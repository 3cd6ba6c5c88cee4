package respond

import (
	"fmt"
	"strings"

	"github.com/BTreeMap/MoodPipe/internal/models"
)

// ContextWindow is the number of most recent history entries included in the prompt.
const ContextWindow = 10

var personas = map[models.Personality]string{
	models.PersonalitySupportive: "You are a supportive friend who listens and provides emotional support. " +
		"You're warm, empathetic, and non-judgmental. You validate feelings and offer gentle encouragement.",
	models.PersonalityTherapist: "You are a professional therapist who helps people understand their thoughts and feelings. " +
		"You use therapeutic techniques like cognitive reframing and mindfulness. You ask thoughtful questions " +
		"and provide evidence-based guidance.",
	models.PersonalityCoach: "You are a motivational coach who helps people achieve their goals. " +
		"You're action-oriented, encouraging, and focused on solutions. You help break down problems " +
		"into manageable steps and provide accountability.",
}

var emotionGuidance = map[models.Emotion]string{
	models.EmotionHappy:    "Celebrate their positive feelings and help maintain this state.",
	models.EmotionNeutral:  "Engage them in thoughtful conversation and explore their current situation.",
	models.EmotionSad:      "Provide comfort and validate their feelings. Offer gentle perspective when appropriate.",
	models.EmotionAnxious:  "Help them ground themselves and break down their worries. Suggest calming techniques.",
	models.EmotionStressed: "Acknowledge their stress and help prioritize. Suggest stress management techniques.",
	models.EmotionAngry:    "Allow them to express feelings safely. Help identify the source of anger and constructive outlets.",
}

var languageDirectives = map[models.Language]string{
	models.LanguagePrimary:   "Respond in English.",
	models.LanguageSecondary: "Respond in Hindi (Devanagari script). Use natural, conversational Hindi.",
}

var guardrails = []string{
	"Keep responses concise (2-4 sentences) and conversational.",
	"Never identify yourself as an AI, model, or assistant. Respond as the personality type.",
	`Don't use phrases like "I understand" or "I'm sorry to hear that" too frequently.`,
	"Avoid clinical language unless you're in therapist mode.",
	"Never suggest medical treatments or diagnose conditions.",
	"If the user mentions self-harm or suicide, provide crisis resources.",
}

// recentContext renders the last ContextWindow messages, one per line.
func recentContext(history []models.Message) string {
	if len(history) > ContextWindow {
		history = history[len(history)-ContextWindow:]
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		speaker := "Assistant"
		if msg.Role == models.RoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+msg.ContextText())
	}
	return strings.Join(lines, "\n")
}

func languageDirective(l models.Language) string {
	if d, ok := languageDirectives[l]; ok {
		return d
	}
	return fmt.Sprintf("Respond in %s.", l.DisplayName())
}

// systemPrompt assembles the persona, emotion guidance, language directive, guardrails and
// recent context into one system message.
func systemPrompt(p models.Personality, e models.Emotion, l models.Language, history []models.Message) string {
	var b strings.Builder
	b.WriteString(personas[p])
	fmt.Fprintf(&b, "\nThe user's current emotional state appears to be: %s.\n", e)
	b.WriteString(languageDirective(l))
	b.WriteString("\n\nGuidelines:\n")
	fmt.Fprintf(&b, "- %s\n", emotionGuidance[e])
	for _, g := range guardrails {
		fmt.Fprintf(&b, "- %s\n", g)
	}
	if ctx := recentContext(history); ctx != "" {
		b.WriteString("\nRecent conversation:\n")
		b.WriteString(ctx)
	}
	return b.String()
}
