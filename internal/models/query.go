// Package models defines data structures for Pallas
package models

import (
	"strings"
	"unicode"
)

// Query is the immutable request-scoped representation of a raw user query.
// Created once per request and never mutated.
type Query struct {
	Raw        string   `json:"raw"`
	Normalized string   `json:"normalized"`
	Tokens     []string `json:"tokens"`
}

// NewQuery builds a Query from raw text, normalizing to lowercase and
// tokenizing on non-alphanumeric boundaries. An empty or blank query yields
// a Query with no tokens; downstream components degrade to their defaults.
func NewQuery(raw string) Query {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	tokens := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '$'
	})
	return Query{
		Raw:        raw,
		Normalized: normalized,
		Tokens:     tokens,
	}
}

// IsEmpty reports whether the query carries no usable text.
func (q Query) IsEmpty() bool {
	return q.Normalized == ""
}

// HasToken reports whether the normalized word set contains token.
func (q Query) HasToken(token string) bool {
	for _, t := range q.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

// Category is a closed set of topical query categories.
type Category int

// Categories in fixed priority order: when a query matches several, the
// risk context of the highest-priority match wins regardless of match order.
const (
	CategoryOptions Category = iota
	CategoryDayTrading
	CategoryCrypto
	CategoryForex
	CategoryEconomic
)

// AllCategories lists every category in priority order (highest first).
var AllCategories = []Category{
	CategoryOptions,
	CategoryDayTrading,
	CategoryCrypto,
	CategoryForex,
	CategoryEconomic,
}

func (c Category) String() string {
	switch c {
	case CategoryOptions:
		return "options"
	case CategoryDayTrading:
		return "daytrading"
	case CategoryCrypto:
		return "crypto"
	case CategoryForex:
		return "forex"
	case CategoryEconomic:
		return "economic"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so categories serialize as
// their names in JSON output.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// RiskContext maps guidance keys to advisory strings for the matched
// category. Exactly one RiskContext is active per classification.
type RiskContext map[string]string

// QueryClassification tags a query with topical categories and the active
// risk context. Built once, read-only thereafter.
type QueryClassification struct {
	Categories  []Category  `json:"categories"`
	RiskContext RiskContext `json:"risk_context"`
}

// HasCategory reports whether the classification includes c.
func (qc QueryClassification) HasCategory(c Category) bool {
	for _, cat := range qc.Categories {
		if cat == c {
			return true
		}
	}
	return false
}

// CandidateSymbol is a token extracted from the query, ranked by extraction
// confidence. Only the first few candidates are material downstream.
type CandidateSymbol struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}
