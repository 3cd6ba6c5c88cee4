package respond

import (
	"fmt"

	"github.com/BTreeMap/MoodPipe/internal/locale"
	"github.com/BTreeMap/MoodPipe/internal/models"
)

type byLanguage map[models.Language]string

// fallbackMatrix is the canned reply for every personality, emotion and language.
var fallbackMatrix = map[models.Personality]map[models.Emotion]byLanguage{
	models.PersonalitySupportive: {
		models.EmotionHappy: {
			models.LanguagePrimary:   "That's wonderful to hear! I'm glad things are going well for you. What's been bringing you joy lately?",
			models.LanguageSecondary: "यह सुनकर बहुत खुशी हुई! मुझे खुशी है कि आपके साथ सब कुछ अच्छा चल रहा है। हाल ही में आपको खुशी किस बात से मिली है?",
		},
		models.EmotionNeutral: {
			models.LanguagePrimary:   "I'm here to chat. How has your day been going so far?",
			models.LanguageSecondary: "मैं यहाँ बात करने के लिए हूँ। आपका दिन कैसा रहा?",
		},
		models.EmotionSad: {
			models.LanguagePrimary:   "I'm sorry you're feeling down. It's okay to feel this way, and I'm here to listen if you want to talk more about it.",
			models.LanguageSecondary: "मुझे दुख है कि आप उदास महसूस कर रहे हैं। ऐसा महसूस करना ठीक है, और अगर आप इसके बारे में और बात करना चाहते हैं तो मैं यहाँ सुनने के लिए हूँ।",
		},
		models.EmotionAnxious: {
			models.LanguagePrimary:   "It sounds like you're feeling anxious. Let's take a deep breath together. What's on your mind right now?",
			models.LanguageSecondary: "लगता है आप चिंतित महसूस कर रहे हैं। आइए एक साथ गहरी सांस लेते हैं। अभी आपके मन में क्या चल रहा है?",
		},
		models.EmotionStressed: {
			models.LanguagePrimary:   "It seems like you're under a lot of pressure. What's one small thing we could focus on right now?",
			models.LanguageSecondary: "लगता है आप बहुत दबाव में हैं। अभी हम किस एक छोटी सी बात पर ध्यान दे सकते हैं?",
		},
		models.EmotionAngry: {
			models.LanguagePrimary:   "I can see you're upset. It's okay to feel angry sometimes. Would it help to talk about what happened?",
			models.LanguageSecondary: "मैं देख सकता हूँ कि आप परेशान हैं। कभी-कभी गुस्सा आना सामान्य बात है। क्या इस बारे में बात करने से मदद मिलेगी कि क्या हुआ था?",
		},
	},
	models.PersonalityTherapist: {
		models.EmotionHappy: {
			models.LanguagePrimary:   "I notice you're in a positive state. What factors do you think contributed to this feeling?",
			models.LanguageSecondary: "मैं देख रहा हूँ कि आप सकारात्मक अवस्था में हैं। आपको क्या लगता है कि इस भावना में कौन से कारक योगदान दे रहे हैं?",
		},
		models.EmotionNeutral: {
			models.LanguagePrimary:   "How would you describe your emotional state right now? What thoughts are you having?",
			models.LanguageSecondary: "अभी आप अपनी भावनात्मक स्थिति का कैसे वर्णन करेंगे? आपके मन में क्या विचार आ रहे हैं?",
		},
		models.EmotionSad: {
			models.LanguagePrimary:   "Depression and sadness are common human experiences. Can you identify what might be contributing to these feelings?",
			models.LanguageSecondary: "अवसाद और उदासी सामान्य मानवीय अनुभव हैं। क्या आप पहचान सकते हैं कि इन भावनाओं में क्या योगदान हो सकता है?",
		},
		models.EmotionAnxious: {
			models.LanguagePrimary:   "Anxiety often involves worrying about future events. What specific concerns are on your mind?",
			models.LanguageSecondary: "चिंता अक्सर भविष्य की घटनाओं के बारे में चिंता करने से जुड़ी होती है। आपके मन में कौन सी विशिष्ट चिंताएं हैं?",
		},
		models.EmotionStressed: {
			models.LanguagePrimary:   "Stress is your body's response to demands. Let's identify what's causing this pressure and explore coping strategies.",
			models.LanguageSecondary: "तनाव आपके शरीर की मांगों के प्रति प्रतिक्रिया है। आइए पहचानते हैं कि इस दबाव का कारण क्या है और मुकाबला करने की रणनीतियों का पता लगाते हैं।",
		},
		models.EmotionAngry: {
			models.LanguagePrimary:   "Anger often masks other emotions. When you look beneath the anger, what other feelings might be present?",
			models.LanguageSecondary: "गुस्सा अक्सर अन्य भावनाओं को छुपाता है। जब आप गुस्से के नीचे देखते हैं, तो कौन सी अन्य भावनाएं मौजूद हो सकती हैं?",
		},
	},
	models.PersonalityCoach: {
		models.EmotionHappy: {
			models.LanguagePrimary:   "Great energy! Let's channel this positive momentum. What's one goal you'd like to make progress on today?",
			models.LanguageSecondary: "बहुत बढ़िया ऊर्जा! आइए इस सकारात्मक गति का उपयोग करते हैं। आज आप किस लक्ष्य पर प्रगति करना चाहेंगे?",
		},
		models.EmotionNeutral: {
			models.LanguagePrimary:   "Let's set an intention for our conversation. What would you like to accomplish or work toward?",
			models.LanguageSecondary: "आइए हमारी बातचीत के लिए एक इरादा निर्धारित करते हैं। आप क्या हासिल करना चाहते हैं या किस दिशा में काम करना चाहते हैं?",
		},
		models.EmotionSad: {
			models.LanguagePrimary:   "Even when motivation is low, small steps matter. What's one tiny action that might feel manageable right now?",
			models.LanguageSecondary: "जब प्रेरणा कम हो तो भी छोटे कदम मायने रखते हैं। कौन सा एक छोटा काम अभी संभव लग सकता है?",
		},
		models.EmotionAnxious: {
			models.LanguagePrimary:   "Let's break down what's causing worry into smaller, actionable parts. What's the most immediate concern?",
			models.LanguageSecondary: "आइए चिंता के कारणों को छोटे, कार्यान्वित करने योग्य भागों में बांटते हैं। सबसे तत्काल चिंता क्या है?",
		},
		models.EmotionStressed: {
			models.LanguagePrimary:   "When we're overwhelmed, prioritization is key. What's the most important thing that needs your attention?",
			models.LanguageSecondary: "जब हम अभिभूत होते हैं, तो प्राथमिकता निर्धारण महत्वपूर्ण है। सबसे महत्वपूर्ण बात क्या है जिस पर आपका ध्यान देने की जरूरत है?",
		},
		models.EmotionAngry: {
			models.LanguagePrimary:   "That energy can be redirected productively. Once you've processed this feeling, what constructive action could you take?",
			models.LanguageSecondary: "उस ऊर्जा को उत्पादक रूप से पुनर्निर्देशित किया जा सकता है। इस भावना को संसाधित करने के बाद, आप कौन सी रचनात्मक कार्रवाई कर सकते हैं?",
		},
	},
}

// emotionReplies is the personality-independent row used when a whole turn fails.
var emotionReplies = map[models.Emotion]byLanguage{
	models.EmotionHappy: {
		models.LanguagePrimary:   "That's great to hear! What else would you like to talk about?",
		models.LanguageSecondary: "यह सुनकर बहुत अच्छा लगा! आप और किस बारे में बात करना चाहेंगे?",
	},
	models.EmotionNeutral: {
		models.LanguagePrimary:   "I'm here to listen. What's on your mind?",
		models.LanguageSecondary: "मैं यहाँ सुनने के लिए हूँ। आपके मन में क्या बात है?",
	},
	models.EmotionSad: {
		models.LanguagePrimary:   "I'm sorry you're feeling down. Would you like to talk more about it?",
		models.LanguageSecondary: "मुझे दुख है कि आप उदास महसूस कर रहे हैं। क्या आप इसके बारे में और बात करना चाहेंगे?",
	},
	models.EmotionAnxious: {
		models.LanguagePrimary:   "It sounds like you might be feeling anxious. Let's take a moment to breathe.",
		models.LanguageSecondary: "लगता है आप चिंतित महसूस कर रहे हैं। आइए एक पल के लिए सांस लेते हैं।",
	},
	models.EmotionStressed: {
		models.LanguagePrimary:   "It seems like you're under stress. What's one small thing we could focus on right now?",
		models.LanguageSecondary: "लगता है आप दबाव में हैं। अभी हम किस एक छोटी सी बात पर ध्यान दे सकते हैं?",
	},
	models.EmotionAngry: {
		models.LanguagePrimary:   "I can see you're upset. Would it help to talk about what happened?",
		models.LanguageSecondary: "मैं देख सकता हूँ कि आप परेशान हैं। क्या इस बारे में बात करने से मदद मिलेगी कि क्या हुआ था?",
	},
}

// init panics if any enumeration combination lacks canned copy, so a gap fails at startup
// instead of surfacing as an empty reply.
func init() {
	if err := checkMatrix(); err != nil {
		panic(fmt.Sprintf("respond: incomplete fallback matrix: %v", err))
	}
}

func checkMatrix() error {
	for _, e := range models.AllEmotions {
		for _, l := range models.AllLanguages {
			for _, p := range models.AllPersonalities {
				if fallbackMatrix[p][e][l] == "" {
					return fmt.Errorf("missing reply for personality=%s emotion=%s language=%s", p, e, l)
				}
			}
			if emotionReplies[e][l] == "" {
				return fmt.Errorf("missing emotion-only reply for emotion=%s language=%s", e, l)
			}
		}
	}
	return nil
}

// Fallback returns the canned reply for the triple. Unknown enumeration values fall back to
// the supportive personality, the neutral emotion and the primary language in turn.
func Fallback(p models.Personality, e models.Emotion, l models.Language) string {
	if !p.IsValid() {
		p = models.PersonalitySupportive
	}
	if !e.IsValid() {
		e = models.EmotionNeutral
	}
	if !l.IsValid() {
		l = models.LanguagePrimary
	}
	return fallbackMatrix[p][e][l]
}

// EmotionReply returns the personality-independent canned reply for an emotion, or the
// generic reply when the emotion is unknown.
func EmotionReply(e models.Emotion, l models.Language) string {
	if !l.IsValid() {
		l = models.LanguagePrimary
	}
	if s := emotionReplies[e][l]; s != "" {
		return s
	}
	return locale.For(l).GenericReply
}
