package ruleengine

import "regexp"

// Config carries every keyword list, regular expression, and threshold the
// rule engine uses. Behavior differences between rulesets are data here,
// not code branches.
type Config struct {
	// Normalizer.
	ShorthandReplacements map[string]string
	PadMinLength          int
	PaddingSentence       string

	// Segmenter.
	HeaderPrefixes     []string
	BoilerplatePhrases []string
	MinSentenceLength  int

	// Extractor.
	ActionVerbs          []string
	DeclarationPatterns  []string
	DeclarationDirective string
	DeadlinePattern      *regexp.Regexp
	UrgentKeywords       []string
	HedgingPhrases       []string
	ConfusingLength      int
	ConfusionExplanation string
	LowercaseNextStep    bool

	// Summarizer.
	ImportantKeywords []string
	DateKeywords      []string
	ReadableMin       int
	ReadableMax       int
	SummaryTopN       int
	DecisionKeywords  []string
	ReasonKeywords    []string
	TimeframeKeywords []string

	// Highlighter.
	HighlightPhrases []string
}

var (
	deadlineStandard = regexp.MustCompile(`(?i)(today|tomorrow|until lifted|effective\s+\d{1,2}:\d{2}|before\s+\w+|by\s+\w+|on\s+\w+\s+\d{1,2}|end of week|(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}(?:,\s*\d{4})?)`)
	deadlineStrict   = regexp.MustCompile(`(?i)(today|tomorrow|before\s+\w+|by\s+\w+|on\s+\w+\s+\d{1,2}|end of week)`)
)

var sharedShorthand = map[string]string{
	"pls":  "please",
	"plz":  "please",
	"u":    "you",
	"ur":   "your",
	"tmrw": "tomorrow",
	"thru": "through",
	"govt": "government",
}

var sharedActionVerbs = []string{
	"submit", "attend", "pay", "respond", "bring", "fill out",
	"register", "watch", "send", "reply",
}

var sharedDeclarations = []string{
	"is hereby declared", "suspension of", "suspend face-to-face",
}

var sharedUrgentKeywords = []string{
	"today", "immediately", "asap", "urgent", "final notice",
	"effective", "until lifted", "tropical cyclone", "heavy rainfall",
}

var sharedHedging = []string{
	"as necessary", "subject to", "accordingly",
}

var sharedImportantKeywords = []string{
	"suspension", "suspended", "effective", "until lifted",
	"face-to-face", "classes", "deadline", "urgent", "important",
	"must", "required", "submit",
}

var sharedDateKeywords = []string{
	"today", "tomorrow", "monday", "tuesday", "wednesday", "thursday",
	"friday", "saturday", "sunday", "week", "month",
}

var sharedHighlightPhrases = []string{
	"suspension of classes", "face-to-face classes", "classes are suspended",
	"is hereby declared", "effective immediately", "tropical cyclone",
	"heavy rainfall", "until lifted", "final notice", "no classes",
	"end of week", "stay at home", "fill out", "today", "tomorrow",
	"immediately", "asap", "urgent", "important", "deadline", "required",
	"must", "submit", "attend", "register", "respond", "reply", "send",
	"bring", "watch", "pay",
}

// Standard is the canonical ruleset: short-form sentence minimum, the wider
// readable band, and the extended deadline pattern.
func Standard() Config {
	return Config{
		ShorthandReplacements: sharedShorthand,
		PadMinLength:          30,
		PaddingSentence:       "No further details were provided in the original message.",

		HeaderPrefixes:     []string{"to:", "from:", "re:", "date:"},
		BoilerplatePhrases: []string{"office of the", "memorandum"},
		MinSentenceLength:  20,

		ActionVerbs:          sharedActionVerbs,
		DeclarationPatterns:  sharedDeclarations,
		DeclarationDirective: "Comply with the announced suspension until it is lifted.",
		DeadlinePattern:      deadlineStandard,
		UrgentKeywords:       sharedUrgentKeywords,
		HedgingPhrases:       sharedHedging,
		ConfusingLength:      120,
		ConfusionExplanation: "This sentence is long or open-ended and may be hard to act on.",
		LowercaseNextStep:    false,

		ImportantKeywords: sharedImportantKeywords,
		DateKeywords:      sharedDateKeywords,
		ReadableMin:       40,
		ReadableMax:       300,
		SummaryTopN:       2,
		DecisionKeywords:  []string{"suspension", "suspended", "hereby declared", "cancelled", "postponed"},
		ReasonKeywords:    []string{"tropical cyclone", "heavy rainfall", "weather", "typhoon", "flood", "due to"},
		TimeframeKeywords: []string{"effective", "until lifted", "today", "tomorrow", "starting"},

		HighlightPhrases: sharedHighlightPhrases,
	}
}

// Strict is the variant ruleset with longer sentence minimums, a tighter
// readable band, the short deadline pattern, and lower-cased next steps.
func Strict() Config {
	cfg := Standard()
	cfg.MinSentenceLength = 40
	cfg.ConfusingLength = 150
	cfg.DeadlinePattern = deadlineStrict
	cfg.ReadableMin = 30
	cfg.ReadableMax = 250
	cfg.SummaryTopN = 3
	cfg.LowercaseNextStep = true
	return cfg
}

// ConfigFor maps a ruleset name to its Config, defaulting to Standard.
func ConfigFor(name string) Config {
	if name == "strict" {
		return Strict()
	}
	return Standard()
}
