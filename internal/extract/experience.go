package extract

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ExperienceKind tags the four possible outcomes of experience extraction.
// "No experience found" (Absent), "experience exists but is unquantifiable"
// (Unquantified) and "ambiguous signal" (Indeterminate) are deliberately
// distinct values and must not be collapsed downstream.
type ExperienceKind int

const (
	ExperienceAbsent ExperienceKind = iota
	ExperienceKnown
	ExperienceUnquantified
	ExperienceIndeterminate
)

// Experience is the tagged result of the experience extractor. Years is only
// meaningful when Kind is ExperienceKnown.
type Experience struct {
	Kind  ExperienceKind
	Years float64
}

func Known(years float64) Experience { return Experience{Kind: ExperienceKnown, Years: years} }

// String renders the value for tabular output: a number, "N/A", "0", or the
// empty string for an indeterminate signal.
func (e Experience) String() string {
	switch e.Kind {
	case ExperienceKnown:
		return strconv.FormatFloat(e.Years, 'f', -1, 64)
	case ExperienceUnquantified:
		return "N/A"
	case ExperienceAbsent:
		return "0"
	default:
		return ""
	}
}

func (e Experience) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case ExperienceKnown:
		return json.Marshal(e.Years)
	case ExperienceUnquantified:
		return json.Marshal("N/A")
	case ExperienceAbsent:
		return json.Marshal(0)
	default:
		return []byte("null"), nil
	}
}

// Plausible bounds for a years-of-experience signal. Values outside are noise,
// e.g. phone-number digits misread as years.
const (
	minPlausibleYears = 0.5
	maxPlausibleYears = 50
)

var timeNow = time.Now

var (
	// "<number>(+) years/yrs/yoe/y/o", optionally hedged. The leading
	// character class stands in for Python-style lookbehinds: the number must
	// not continue a preceding word or digit run.
	yearMentionRe = regexp.MustCompile(`(?:^|[^0-9a-z_])(?:(?:over|about|approximately|around)\s+)?(\d{1,2}(?:\.\d{1,2})?)\+?\s*(?:years?|yrs?|yoe|y/o)\b`)

	// "YYYY-YYYY" or "YYYY-present/current/now".
	yearRangeRe = regexp.MustCompile(`((?:19|20)\d{2})\s*[-–]\s*((?:19|20)\d{2}|present|current|now)(?:\s|$)`)

	experienceSectionRe = regexp.MustCompile(`(?:^|\s)(?:work|employment|professional|experience)(?:\s*(?:history|background|section))?(?:\s|$)`)
	rolePhraseRe        = regexp.MustCompile(`(?:worked\s+as|position\s+of|role\s+as)\s+\w+`)
)

// experienceRule is one tier of the fallback chain. It reports whether it
// produced a result; the first rule that does wins.
type experienceRule func(text string) (Experience, bool)

// Experience estimates years of experience with a four-tier fallback chain:
// direct year mentions, date ranges, vague role clues, then "no signal". Any
// internal failure degrades to an indeterminate result and is logged.
func (e *Extractor) Experience(text string) (exp Experience) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("experience extraction failed", zap.Any("panic", r))
			exp = Experience{Kind: ExperienceIndeterminate}
		}
	}()

	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))

	rules := []experienceRule{
		directMentions,
		dateRanges,
		vagueRoleClue,
	}

	for _, rule := range rules {
		if result, ok := rule(normalized); ok {
			return result
		}
	}

	return Experience{Kind: ExperienceAbsent}
}

// directMentions returns the largest explicit year mention within plausible
// bounds.
func directMentions(text string) (Experience, bool) {
	best := 0.0
	found := false
	for _, match := range yearMentionRe.FindAllStringSubmatch(text, -1) {
		years, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if years < minPlausibleYears || years > maxPlausibleYears {
			continue
		}
		if !found || years > best {
			best = years
			found = true
		}
	}

	if !found {
		return Experience{}, false
	}
	return Known(best), true
}

// dateRanges averages the span of every valid YYYY-YYYY range. An average
// outside the plausible bounds is an ambiguous signal, reported as
// indeterminate rather than falling through to the next tier.
func dateRanges(text string) (Experience, bool) {
	currentYear := timeNow().Year()

	total := 0
	ranges := 0
	for _, match := range yearRangeRe.FindAllStringSubmatch(text, -1) {
		start, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		end := currentYear
		switch match[2] {
		case "present", "current", "now":
		default:
			end, err = strconv.Atoi(match[2])
			if err != nil {
				continue
			}
		}

		if start < 1900 || start > currentYear || start > end {
			continue
		}

		total += end - start
		ranges++
	}

	if ranges == 0 {
		return Experience{}, false
	}

	avg := round1(float64(total) / float64(ranges))
	if avg < minPlausibleYears || avg > maxPlausibleYears {
		return Experience{Kind: ExperienceIndeterminate}, true
	}
	return Known(avg), true
}

// vagueRoleClue fires when an experience section heading and a role-assignment
// phrase are present but no numeric signal was found by the earlier tiers.
func vagueRoleClue(text string) (Experience, bool) {
	if experienceSectionRe.MatchString(text) && rolePhraseRe.MatchString(text) {
		return Experience{Kind: ExperienceUnquantified}, true
	}
	return Experience{}, false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
