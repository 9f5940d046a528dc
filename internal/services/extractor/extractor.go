// Package extractor parses raw query text into an ordered list of candidate
// asset mentions.
package extractor

import (
	"regexp"
	"strings"

	"github.com/pallas-ai/pallas/internal/common"
	"github.com/pallas-ai/pallas/internal/interfaces"
	"github.com/pallas-ai/pallas/internal/models"
)

// MaxCandidates bounds downstream provider fan-out.
const MaxCandidates = 4

var (
	stockRegex   = regexp.MustCompile(`^[A-Z]{1,5}(\.[A-Z])?$`)
	cryptoRegex  = regexp.MustCompile(`^[A-Z]{3,6}/?[A-Z]{0,6}$`)
	forexRegex   = regexp.MustCompile(`^[A-Z]{3}/?[A-Z]{3}$`)
	futuresRegex = regexp.MustCompile(`^[A-Z]{1,3}[FGHJKMNQUVXZ]\d{2}$`)

	phrasePattern = regexp.MustCompile(`(?i)\b(what's|how's|tell me about|price of|info on|show me|give me|can you|please)\b`)
)

// stopWords are query words that can never be asset mentions.
var stopWords = map[string]bool{
	"the": true, "and": true, "or": true, "but": true, "not": true,
	"are": true, "was": true, "has": true, "had": true, "can": true,
	"may": true, "will": true, "get": true, "set": true, "new": true,
	"old": true, "big": true, "all": true, "any": true, "for": true,
	"who": true, "why": true, "how": true, "when": true, "where": true,
	"here": true, "there": true, "long": true, "short": true, "buy": true,
	"sell": true, "good": true, "bad": true, "best": true, "worst": true,
	"high": true, "low": true, "should": true, "would": true, "could": true,
	"might": true, "like": true, "want": true, "need": true, "help": true,
	"today": true, "doing": true, "look": true, "going": true, "what": true,
	"is": true, "about": true, "analysis": true, "price": true, "chart": true,
	"rsi": true, "ema": true, "sma": true, "dema": true, "market": true,
	"stock": true, "ticker": true, "me": true, "my": true, "of": true,
	"on": true, "in": true, "a": true, "an": true, "to": true, "it": true,
	"show": true, "tell": true, "give": true, "compare": true, "check": true,
	"reading": true, "readings": true, "level": true, "levels": true,
	"data": true, "info": true, "vs": true, "versus": true,
}

// fillerWords are generic asset nouns stripped from multi-word mentions only
// when meaningful context survives the stripping.
var fillerWords = map[string]bool{
	"token": true, "coin": true, "crypto": true, "cryptocurrency": true,
}

// Extractor implements the SymbolExtractor interface. Extraction is a pure
// function of the query text.
type Extractor struct {
	logger *common.Logger
}

// New creates an extractor.
func New(logger *common.Logger) *Extractor {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Extractor{logger: logger}
}

// Extract returns candidate asset mentions in confidence order, capped at
// MaxCandidates. Dollar-prefixed tickers rank highest, then uppercase
// ticker-shaped words from the raw text, then remaining significant words
// and multi-word phrases.
func (e *Extractor) Extract(query *models.Query) []models.CandidateSymbol {
	if query == nil || query.IsEmpty() {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []models.CandidateSymbol
	add := func(text string, confidence float64) {
		key := strings.ToUpper(text)
		if text == "" || seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, models.CandidateSymbol{Text: text, Confidence: confidence})
	}

	rawWords := strings.Fields(phrasePattern.ReplaceAllString(query.Raw, " "))

	// Tier 1: $-prefixed mentions are explicit.
	for _, word := range rawWords {
		if strings.HasPrefix(word, "$") && len(word) > 1 {
			add(strings.ToUpper(trimPunct(word[1:])), 1.0)
		}
	}

	// Tier 2: uppercase ticker-shaped words as written by the user.
	// Indicator names and question words are uppercase-proof via stopWords.
	for _, word := range rawWords {
		cleaned := trimPunct(word)
		if cleaned != strings.ToUpper(cleaned) {
			continue
		}
		if stopWords[strings.ToLower(cleaned)] || fillerWords[strings.ToLower(cleaned)] {
			continue
		}
		if looksLikeTicker(cleaned) {
			add(cleaned, 0.9)
		}
	}

	// Tier 3: remaining significant words, with multi-word runs joined into
	// a phrase candidate so instrument names survive tokenization.
	var run []string
	flushRun := func() {
		if len(run) == 0 {
			return
		}
		phrase := strings.Join(run, " ")
		if len(run) > 1 {
			add(applyFillerRemoval(phrase), 0.6)
		} else if !fillerWords[run[0]] {
			add(run[0], 0.5)
		}
		run = nil
	}
	for _, token := range query.Tokens {
		token = strings.TrimPrefix(token, "$")
		if token == "" || stopWords[token] {
			flushRun()
			continue
		}
		if seen[strings.ToUpper(token)] {
			flushRun()
			continue
		}
		run = append(run, token)
	}
	flushRun()

	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}

	e.logger.Debug().Int("candidates", len(candidates)).Str("query", query.Normalized).Msg("symbols extracted")
	return candidates
}

// applyFillerRemoval strips generic asset nouns from a phrase only when at
// least one word longer than three characters remains; otherwise the phrase
// is kept verbatim so the search signal is not destroyed.
func applyFillerRemoval(phrase string) string {
	words := strings.Fields(phrase)
	var kept []string
	significant := false
	for _, word := range words {
		if fillerWords[word] {
			continue
		}
		kept = append(kept, word)
		if len(word) > 3 {
			significant = true
		}
	}
	if !significant || len(kept) == 0 {
		return phrase
	}
	return strings.Join(kept, " ")
}

func looksLikeTicker(word string) bool {
	if len(word) < 2 || len(word) > 8 {
		return false
	}
	return stockRegex.MatchString(word) ||
		cryptoRegex.MatchString(word) ||
		forexRegex.MatchString(word) ||
		futuresRegex.MatchString(word)
}

func trimPunct(word string) string {
	return strings.TrimFunc(word, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') && !('0' <= r && r <= '9')
	})
}

var _ interfaces.SymbolExtractor = (*Extractor)(nil)
