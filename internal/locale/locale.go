// Package locale holds the user-facing copy MoodPipe returns alongside replies, in both
// working languages.
package locale

import (
	"fmt"

	"github.com/BTreeMap/MoodPipe/internal/models"
)

// Strings is the localized copy for one language.
type Strings struct {
	OfflineModeActivated    string
	OnlineModeActivated     string
	UsingLocalResponses     string
	UsingAIPoweredResponses string
	APIKeyIssuesDetected    string
	APIKeyInvalid           string
	NoValidAPIKeyFound      string

	CrisisSupport     string
	CrisisDescription string
	EmergencyNote     string

	JournalingSuggestion            string
	JournalingSuggestionDescription string

	// Greeting opens every new conversation.
	Greeting string

	// GenericReply is the last-resort reply when a whole turn fails.
	GenericReply string

	// AutoMessages are first-person phrases sent on the user's behalf for a sensed emotion.
	AutoMessages map[models.Emotion]string
}

var catalog = map[models.Language]Strings{
	models.LanguagePrimary: {
		OfflineModeActivated:    "Offline Mode Activated",
		OnlineModeActivated:     "Online Mode Activated",
		UsingLocalResponses:     "Using local responses without API calls.",
		UsingAIPoweredResponses: "Using AI-powered responses when available.",
		APIKeyIssuesDetected:    "API key issues detected. Using offline mode with local responses.",
		APIKeyInvalid:           "API Key Invalid",
		NoValidAPIKeyFound:      "No valid API key found. Some features will use fallback responses.",

		CrisisSupport:     "Crisis Support",
		CrisisDescription: "If you're experiencing a mental health emergency, please reach out for immediate help.",
		EmergencyNote:     "Remember: If you or someone else is in immediate danger, please call emergency services (911 in the US) right away.",

		JournalingSuggestion:            "Journaling Suggestion",
		JournalingSuggestionDescription: "Writing about your feelings might help. Would you like to add a journal entry?",

		Greeting:     "Hi there! I'm your mental health assistant. How are you feeling today?",
		GenericReply: "I'm here to listen. Could you tell me more about what you're experiencing?",

		AutoMessages: map[models.Emotion]string{
			models.EmotionHappy:    "I'm feeling happy today!",
			models.EmotionNeutral:  "I'm feeling okay.",
			models.EmotionSad:      "I'm feeling sad right now.",
			models.EmotionAnxious:  "I'm feeling anxious about things.",
			models.EmotionStressed: "I'm feeling stressed out.",
			models.EmotionAngry:    "I'm feeling frustrated and angry.",
		},
	},
	models.LanguageSecondary: {
		OfflineModeActivated:    "ऑफलाइन मोड सक्रिय",
		OnlineModeActivated:     "ऑनलाइन मोड सक्रिय",
		UsingLocalResponses:     "API कॉल के बिना स्थानीय प्रतिक्रियाओं का उपयोग कर रहे हैं।",
		UsingAIPoweredResponses: "उपलब्ध होने पर AI-संचालित प्रतिक्रियाओं का उपयोग कर रहे हैं।",
		APIKeyIssuesDetected:    "API की समस्याएं मिलीं। स्थानीय प्रतिक्रियाओं के साथ ऑफलाइन मोड का उपयोग कर रहे हैं।",
		APIKeyInvalid:           "API की अमान्य",
		NoValidAPIKeyFound:      "कोई वैध API की नहीं मिली। कुछ सुविधाएं फॉलबैक प्रतिक्रियाओं का उपयोग करेंगी।",

		CrisisSupport:     "संकट सहायता",
		CrisisDescription: "यदि आप मानसिक स्वास्थ्य आपातकाल का सामना कर रहे हैं, तो कृपया तुरंत सहायता के लिए संपर्क करें।",
		EmergencyNote:     "याद रखें: यदि आप या कोई और तत्काल खतरे में है, तो कृपया तुरंत आपातकालीन सेवाओं (भारत में 112) को कॉल करें।",

		JournalingSuggestion:            "जर्नलिंग सुझाव",
		JournalingSuggestionDescription: "अपनी भावनाओं के बारे में लिखना मददगार हो सकता है। क्या आप एक जर्नल एंट्री जोड़ना चाहेंगे?",

		Greeting:     "नमस्ते! मैं आपका मानसिक स्वास्थ्य सहायक हूँ। आज आप कैसा महसूस कर रहे हैं?",
		GenericReply: "मैं यहाँ सुनने के लिए हूँ। क्या आप मुझे और बता सकते हैं कि आप क्या अनुभव कर रहे हैं?",

		AutoMessages: map[models.Emotion]string{
			models.EmotionHappy:    "मैं आज खुश महसूस कर रहा हूँ!",
			models.EmotionNeutral:  "मैं ठीक महसूस कर रहा हूँ।",
			models.EmotionSad:      "मैं अभी उदास महसूस कर रहा हूँ।",
			models.EmotionAnxious:  "मैं चीजों के बारे में चिंतित महसूस कर रहा हूँ।",
			models.EmotionStressed: "मैं तनावग्रस्त महसूस कर रहा हूँ।",
			models.EmotionAngry:    "मैं निराश और गुस्से में महसूस कर रहा हूँ।",
		},
	},
}

// init verifies that every language has a complete catalog.
func init() {
	if err := checkCatalog(); err != nil {
		panic(fmt.Sprintf("locale catalog incomplete: %v", err))
	}
}

func checkCatalog() error {
	for _, l := range models.AllLanguages {
		s, ok := catalog[l]
		if !ok {
			return fmt.Errorf("missing language %s", l)
		}
		for _, e := range models.AllEmotions {
			if s.AutoMessages[e] == "" {
				return fmt.Errorf("missing auto message %s/%s", l, e)
			}
		}
		if s.GenericReply == "" || s.Greeting == "" || s.OfflineModeActivated == "" || s.CrisisSupport == "" || s.JournalingSuggestion == "" {
			return fmt.Errorf("missing copy for %s", l)
		}
	}
	return nil
}

// For returns the copy for l, falling back to the primary language for unknown values.
func For(l models.Language) Strings {
	if s, ok := catalog[l]; ok {
		return s
	}
	return catalog[models.LanguagePrimary]
}

// AutoMessage returns the first-person phrase for a sensed emotion.
func AutoMessage(e models.Emotion, l models.Language) string {
	if msg, ok := For(l).AutoMessages[e]; ok {
		return msg
	}
	return For(l).AutoMessages[models.EmotionNeutral]
}

// CrisisNotice returns the advisory shown when crisis keywords are detected.
func CrisisNotice(l models.Language) models.Advisory {
	s := For(l)
	return models.Advisory{Title: s.CrisisSupport, Description: s.CrisisDescription + " " + s.EmergencyNote, Warning: true}
}

// JournalingNotice returns the journaling suggestion advisory.
func JournalingNotice(l models.Language) models.Advisory {
	s := For(l)
	return models.Advisory{Title: s.JournalingSuggestion, Description: s.JournalingSuggestionDescription}
}
