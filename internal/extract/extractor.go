package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const unknownName = "Unknown"

// Fields holds the structured values extracted from one document. RawText is
// retained only until scoring completes and must never reach an output record.
type Fields struct {
	Name       string
	Email      string
	Skills     []string
	Experience Experience
	Education  string
	RawText    string
}

// Extractor turns raw document text into structured fields. Every method is a
// pure function of its input: internal failures degrade to a neutral value and
// are logged, never raised.
type Extractor struct {
	lex    *Lexicon
	logger *zap.Logger
}

func New(lex *Lexicon, logger *zap.Logger) *Extractor {
	if lex == nil {
		lex = DefaultLexicon()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{lex: lex, logger: logger}
}

// Fields runs every extractor over the text.
func (e *Extractor) Fields(text string) *Fields {
	return &Fields{
		Name:       e.Name(text),
		Email:      e.Email(text),
		Skills:     e.Skills(text),
		Experience: e.Experience(text),
		Education:  e.Education(text),
		RawText:    text,
	}
}

var (
	emailRe = regexp.MustCompile(`[\w.-]+@[\w.-]+`)

	// A person-name line: two to four capitalized tokens, initials allowed.
	nameLineRe = regexp.MustCompile(`^(?:[A-Z][A-Za-z'’-]+|[A-Z]\.?)(?:\s+(?:[A-Z][A-Za-z'’-]+|[A-Z]\.?)){1,3}$`)
)

// Lines a resume commonly opens with that look nothing like a person name but
// would otherwise slip past the shape check.
var nameHeadingBlocklist = []string{"resume", "curriculum vitae", "cv"}

// Name returns the first line near the top of the document that has the shape
// of a person's name. Only the first line of a multi-line candidate is ever
// used. Falls back to "Unknown".
func (e *Extractor) Name(text string) string {
	scanned := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		scanned++
		if scanned > 10 {
			break
		}

		if strings.ContainsAny(line, "@0123456789") {
			continue
		}

		lowered := strings.ToLower(line)
		blocked := false
		for _, heading := range nameHeadingBlocklist {
			if strings.Contains(lowered, heading) {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		if nameLineRe.MatchString(line) {
			return line
		}
	}

	return unknownName
}

// Email returns the first email-looking match in the text, or "". First match
// wins even if a later one is more plausible.
func (e *Extractor) Email(text string) string {
	return emailRe.FindString(text)
}

// Skills returns the lexicon terms present in the text, in lexicon order. A
// term matched more than once still appears once.
func (e *Extractor) Skills(text string) []string {
	found := make([]string, 0)
	for i, re := range e.lex.skillRes {
		if re.MatchString(text) {
			found = append(found, e.lex.Skills[i])
		}
	}
	return found
}

// Education filters the text line by line, keeping lines that look like a
// degree or qualification and joining them with "; ". Lines shorter than 15 or
// longer than 150 characters are skipped, as are lines matching the noise
// patterns.
func (e *Extractor) Education(text string) string {
	kept := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(strings.TrimSpace(line), ".;")
		if length := utf8.RuneCountInString(line); length < 15 || length > 150 {
			continue
		}
		if e.lex.degreeRe.MatchString(line) && !e.lex.noiseRe.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "; ")
}
