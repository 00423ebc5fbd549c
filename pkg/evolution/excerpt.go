package evolution

import (
	"strings"

	"golang.org/x/text/cases"
)

// fallbackExcerptLen bounds the excerpt when no sentence matches a keyword.
const fallbackExcerptLen = 200

// minKeywordLen filters short function words out of the check description.
const minKeywordLen = 3

// relevantExcerpt extracts the sentences of content that mention a keyword
// of the check description. Used only for recommendation display, never for
// scoring.
//
// The content is split into sentence-like segments on '.', '!' and '?';
// keywords are the description tokens longer than three characters; a
// segment is kept when it contains any keyword, compared case-insensitively
// via Unicode case folding. When nothing matches, the first 200 characters
// of the content are returned with an ellipsis marker.
func relevantExcerpt(content, description string) string {
	fold := cases.Fold()

	var keywords []string
	for _, token := range strings.Fields(description) {
		if len([]rune(token)) > minKeywordLen {
			keywords = append(keywords, fold.String(token))
		}
	}

	var kept []string
	for _, segment := range splitSentences(content) {
		folded := fold.String(segment)
		for _, kw := range keywords {
			if strings.Contains(folded, kw) {
				kept = append(kept, segment)
				break
			}
		}
	}

	if len(kept) == 0 {
		runes := []rune(content)
		if len(runes) > fallbackExcerptLen {
			runes = runes[:fallbackExcerptLen]
		}
		return string(runes) + "..."
	}

	return strings.Join(kept, ". ") + "."
}

// splitSentences cuts text on sentence boundaries, trimming whitespace and
// discarding empty segments.
func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	segments := make([]string, 0, len(raw))
	for _, seg := range raw {
		if trimmed := strings.TrimSpace(seg); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	return segments
}
