package conversation

import "strings"

var crisisKeywords = []string{
	"suicide",
	"kill myself",
	"end my life",
	"want to die",
	"harm myself",
	"self harm",
	"emergency",
	"crisis",
	"आत्महत्या",
	"खुदकुशी",
	"मरना चाहता हूं",
	"जीना नहीं चाहता",
	"खुद को नुकसान",
}

// IsCrisis reports whether any of texts contains a crisis phrase.
func IsCrisis(texts ...string) bool {
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, kw := range crisisKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}
