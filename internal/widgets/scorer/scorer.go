// Package scorer rates how readable a short definition is.
package scorer

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Limit is the recommended definition length in characters.
const Limit = 155

// Weights of each analysis in the final score.
const (
	WeightReadability = 0.15
	WeightClarity     = 0.25
	WeightJargon      = 0.15
	WeightStructure   = 0.15
	WeightBalance     = 0.15
	WeightVoice       = 0.15
)

var (
	uxTerms = []string{"usability", "accessibility", "wireframe", "prototype", "user interface", "ui", "ux",
		"user experience", "interaction design", "information architecture", "user research", "user testing",
		"heuristic", "affordance", "persona", "user journey", "user flow", "sitemap", "navigation", "mockup",
		"storyboard", "user-centered", "a/b testing", "conversion", "responsive", "iteration", "ideation",
		"empathy map", "pain point", "stakeholder"}
	abstractTerms = []string{"concept", "theory", "methodology", "approach", "framework", "principle", "strategy",
		"philosophy", "paradigm", "perspective", "insight", "innovation", "creativity", "abstraction", "ideation",
		"intuition", "perception", "cognition", "evaluation", "analysis", "synthesis", "process", "quality",
		"value", "experience", "engagement", "interaction", "satisfaction", "emotional", "psychological"}
	concreteTerms = []string{"button", "screen", "device", "click", "tap", "layout", "menu", "icon", "link", "page",
		"scroll", "swipe", "keyboard", "mouse", "touch", "display", "image", "video", "audio", "text", "font",
		"color", "size", "shape", "position", "desktop", "mobile", "tablet", "app", "website", "interface",
		"component", "element"}
	passiveMarkers = []string{"is used", "are used", "was used", "were used", "is created", "are created",
		"was created", "were created", "is defined", "are defined", "was defined", "were defined",
		"is designed", "are designed", "was designed", "were designed", "is developed", "are developed",
		"was developed", "were developed", "is implemented", "are implemented", "was implemented",
		"were implemented", "is built", "are built", "was built", "were built", "is made", "are made",
		"was made", "were made"}

	sentenceRe    = regexp.MustCompile(`[.!?]+`)
	wordRe        = regexp.MustCompile(`\b\w+\b`)
	letterRe      = regexp.MustCompile(`[A-Za-z]`)
	nonLetterRe   = regexp.MustCompile(`[^a-z]`)
	conjunctionRe = regexp.MustCompile(`(?i)\b(and|but|or|yet|so|for|nor|because|if|when|while|although|since)\b`)
	relativeRe    = regexp.MustCompile(`(?i)\b(that|which|who|whom|whose)\b`)
)

// Analysis holds the component scores, each in [0, 100].
type Analysis struct {
	Readability float64
	Clarity     float64
	Jargon      float64
	Structure   float64
	Balance     float64
	Voice       float64
}

// Analyze runs every analysis on text.
func Analyze(text string) Analysis {
	return Analysis{
		Readability: readability(text),
		Clarity:     clarity(text),
		Jargon:      jargon(text),
		Structure:   structure(text),
		Balance:     balance(text),
		Voice:       voice(text),
	}
}

// Total is the rounded weighted sum of the analyses.
func (a Analysis) Total() int {
	return int(math.Round(a.Readability*WeightReadability +
		a.Clarity*WeightClarity +
		a.Jargon*WeightJargon +
		a.Structure*WeightStructure +
		a.Balance*WeightBalance +
		a.Voice*WeightVoice))
}

// Score rates text from 0 to 100. Blank text scores 0.
func Score(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return Analyze(text).Total()
}

// Counter describes the length of text against Limit and reports whether
// the limit is exceeded.
func Counter(text string) (string, bool) {
	n := utf8.RuneCountInString(text)
	return fmt.Sprintf("%d / %d characters", n, Limit), n > Limit
}

// Band names the score range: "low", "medium" or "good".
func Band(score int) string {
	switch {
	case score < 50:
		return "low"
	case score < 70:
		return "medium"
	}
	return "good"
}

func sentences(text string) []string {
	var out []string
	for _, s := range sentenceRe.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func clamp(f float64) float64 {
	return math.Max(0, math.Min(100, f))
}

func readability(text string) float64 {
	var words []string
	for _, w := range strings.Fields(text) {
		if letterRe.MatchString(w) {
			words = append(words, w)
		}
	}
	sents := sentences(text)
	if len(sents) == 0 || len(words) == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	grade := 0.39*(float64(len(words))/float64(len(sents))) +
		11.8*(float64(syllables)/float64(len(words))) - 15.59
	return clamp(100 - math.Abs(grade-10)*5)
}

func countSyllables(word string) int {
	word = nonLetterRe.ReplaceAllString(strings.ToLower(word), "")
	if len(word) <= 3 {
		return 1
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}

	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	return max(1, count)
}

func clarity(text string) float64 {
	sents := sentences(text)
	words := wordRe.FindAllString(text, -1)

	long := 0
	for _, s := range sents {
		if len(wordRe.FindAllString(s, -1)) > 25 {
			long++
		}
	}
	longWords := 0
	for _, w := range words {
		if len(w) > 8 {
			longWords++
		}
	}

	var longSentencePct, longWordPct float64
	if len(sents) > 0 {
		longSentencePct = float64(long) / float64(len(sents)) * 100
	}
	if len(words) > 0 {
		longWordPct = float64(longWords) / float64(len(words)) * 100
	}

	score := 100.0
	if longSentencePct > 0 {
		score -= longSentencePct * 2
	}
	if longWordPct > 15 {
		score -= (longWordPct - 15) * 1.5
	}
	return clamp(score)
}

func countTerms(lower string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			n++
		}
	}
	return n
}

func jargon(text string) float64 {
	words := wordRe.FindAllString(text, -1)
	if len(words) == 0 {
		return 0
	}
	pct := float64(countTerms(strings.ToLower(text), uxTerms)) / float64(len(words)) * 100

	var score float64
	switch {
	case pct <= 5:
		score = pct * 10
	case pct <= 20:
		score = 100 - math.Abs(pct-15)*3
	default:
		score = 100 - (pct-20)*4
	}
	return clamp(score)
}

func structure(text string) float64 {
	sents := sentences(text)
	if len(sents) == 0 {
		return 0
	}

	var total float64
	for _, s := range sents {
		clauses := 1 + len(conjunctionRe.FindAllString(s, -1)) + len(relativeRe.FindAllString(s, -1))
		words := len(wordRe.FindAllString(s, -1))
		total += float64(words) / float64(clauses)
	}
	avg := total / float64(len(sents))

	var score float64
	switch {
	case avg < 8:
		score = avg * 10
	case avg <= 15:
		score = 100 - math.Abs(avg-12)*5
	default:
		score = 100 - (avg-15)*8
	}
	return clamp(score)
}

func balance(text string) float64 {
	lower := strings.ToLower(text)
	concrete := countTerms(lower, concreteTerms)
	abstract := countTerms(lower, abstractTerms)
	if concrete == 0 && abstract == 0 {
		return 0
	}

	ratio := 3.0
	if abstract > 0 {
		ratio = float64(concrete) / float64(abstract)
	}

	var score float64
	switch {
	case ratio == 0:
		score = 40
	case ratio < 0.5:
		score = 40 + ratio*60
	case ratio <= 2.5:
		score = 100 - math.Abs(ratio-1.5)*20
	default:
		score = math.Max(40, 100-(ratio-2.5)*15)
	}
	return clamp(score)
}

func voice(text string) float64 {
	sents := sentences(text)
	if len(sents) == 0 {
		return 0
	}

	passive := 0
	for _, s := range sents {
		lower := strings.ToLower(s)
		for _, m := range passiveMarkers {
			if strings.Contains(lower, m) {
				passive++
				break
			}
		}
	}
	pct := float64(passive) / float64(len(sents)) * 100

	var score float64
	switch {
	case pct <= 20:
		score = 100 - pct*1.5
	case pct <= 50:
		score = 70 - (pct-20)*1.3
	default:
		score = 30 - (pct - 50)
	}
	return clamp(score)
}
