package relay

import (
	"regexp"
	"strings"
)

// Classification is the result of voice-intent detection.
type Classification struct {
	// WantsVoice is true when the user asked for a spoken reply.
	WantsVoice bool
	// Cleaned is the text to send to the completion engine, with the
	// voice-request phrasing stripped. Equals the input when WantsVoice
	// is false.
	Cleaned string
}

// Classifier detects whether the user wants a spoken reply.
type Classifier interface {
	Classify(text string) Classification
}

// voicePhrases are matched as exact substrings of the lowercased text.
var voicePhrases = []string{
	"voice note",
	"voice message",
	"voice msg",
	"send audio",
	"audio message",
	"as audio",
	"in audio",
	"speak it",
	"say it",
}

// voiceWords are matched only as standalone words.
var voiceWords = []string{"voice", "audio", "speak"}

// minCleanedLen guards against over-stripping short questions: when the
// aggressive strip leaves fewer characters than this, only the loose strip
// is applied to the original text.
const minCleanedLen = 5

var (
	// "send (me) (a) voice/audio (note/message/msg)" — the loose strip.
	sendVoicePattern = regexp.MustCompile(`(?i)\bsend\s+(me\s+)?(a\s+)?(voice|audio)(\s+(note|message|msg))?\b`)

	aggressiveStrips = []*regexp.Regexp{
		sendVoicePattern,
		regexp.MustCompile(`(?i)\b(as\s+)?(a\s+)?voice\s+(note|message|msg)\b`),
		regexp.MustCompile(`(?i)\b(as|in)\s+audio\b`),
		regexp.MustCompile(`(?i)\b(speak|say)\s+it\b`),
		regexp.MustCompile(`(?i)\bspeak\b`),
		regexp.MustCompile(`(?i)\bvoice\b`),
		regexp.MustCompile(`(?i)\baudio\b`),
	}

	spaceCollapse  = regexp.MustCompile(`\s+`)
	punctToSpace   = strings.NewReplacer(",", " ", ".", " ", "!", " ", "?", " ", ";", " ", ":", " ")
	edgeTrimCutset = " ,.!?;:-"
)

// KeywordClassifier is a fixed-phrase, case-insensitive voice-intent
// detector. It is deliberately a substring heuristic, not a parser; the
// phrase list is the behavioral contract.
type KeywordClassifier struct{}

// NewKeywordClassifier creates the default classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify reports whether the text asks for a spoken reply and returns the
// text with the request phrasing removed.
func (c *KeywordClassifier) Classify(text string) Classification {
	if !wantsVoice(text) {
		return Classification{Cleaned: text}
	}

	cleaned := stripAll(text, aggressiveStrips)
	if len(cleaned) < minCleanedLen {
		cleaned = stripAll(text, []*regexp.Regexp{sendVoicePattern})
	}

	return Classification{WantsVoice: true, Cleaned: cleaned}
}

func wantsVoice(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range voicePhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	padded := " " + punctToSpace.Replace(lower) + " "
	for _, word := range voiceWords {
		if strings.Contains(padded, " "+word+" ") {
			return true
		}
	}
	return false
}

func stripAll(text string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		text = p.ReplaceAllString(text, " ")
	}
	text = spaceCollapse.ReplaceAllString(text, " ")
	return strings.Trim(text, edgeTrimCutset)
}
