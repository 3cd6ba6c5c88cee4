package emotion

import (
	"strings"

	"github.com/BTreeMap/MoodPipe/internal/models"
)

// keywordRule maps one emotion to its trigger words in both working languages.
type keywordRule struct {
	emotion  models.Emotion
	keywords []string
}

// keywordRules is scanned in order and the first matching rule wins. The order is part of the
// classification contract: text containing words for several emotions resolves to the earliest.
var keywordRules = []keywordRule{
	{models.EmotionHappy, []string{"happy", "joy", "great", "wonderful", "खुश", "प्रसन्न", "आनंदित"}},
	{models.EmotionSad, []string{"sad", "depressed", "unhappy", "miserable", "दुखी", "उदास", "निराश"}},
	{models.EmotionAnxious, []string{"anxious", "worry", "nervous", "fear", "चिंतित", "घबराहट", "डर"}},
	{models.EmotionStressed, []string{"stress", "overwhelm", "pressure", "तनाव", "दबाव", "परेशान"}},
	{models.EmotionAngry, []string{"angry", "mad", "furious", "upset", "गुस्सा", "क्रोधित", "नाराज"}},
}

// KeywordEmotion classifies text by case-insensitive substring match against the curated word
// lists. Text matching no list is neutral.
func KeywordEmotion(text string) models.Emotion {
	lower := strings.ToLower(text)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.emotion
			}
		}
	}
	return models.EmotionNeutral
}
