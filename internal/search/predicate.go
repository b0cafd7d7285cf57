package search

import (
	"fmt"
	"regexp"
	"strings"
)

// PredicateKind discriminates the enumerated predicate shapes from §4.C6.
type PredicateKind string

const (
	PredEquals             PredicateKind = "equals"
	PredContains            PredicateKind = "contains"
	PredContainsIgnoreCase PredicateKind = "contains-ignore-case"
	PredRegexPartial       PredicateKind = "regex-partial"
	PredRegexFull          PredicateKind = "regex-full"
	PredPrefix              PredicateKind = "prefix"
	PredSuffix              PredicateKind = "suffix"
	PredAnything            PredicateKind = "anything"
)

// Predicate is one compiled matcher, carrying the short stable identifier
// (Kind) used in logs and query-cache keys.
type Predicate struct {
	Kind  PredicateKind
	Value string

	re *regexp.Regexp
}

// Equals builds an equals(s) predicate.
func Equals(s string) Predicate { return Predicate{Kind: PredEquals, Value: s} }

// Contains builds a contains(s) predicate.
func Contains(s string) Predicate { return Predicate{Kind: PredContains, Value: s} }

// ContainsIgnoreCase builds a contains-ignore-case(s) predicate.
func ContainsIgnoreCase(s string) Predicate {
	return Predicate{Kind: PredContainsIgnoreCase, Value: s}
}

// Prefix builds a prefix(s) predicate.
func Prefix(s string) Predicate { return Predicate{Kind: PredPrefix, Value: s} }

// Suffix builds a suffix(s) predicate.
func Suffix(s string) Predicate { return Predicate{Kind: PredSuffix, Value: s} }

// Anything builds the match-anything predicate.
func Anything() Predicate { return Predicate{Kind: PredAnything} }

// RegexPartial compiles a regex-partial(r) predicate: r may match anywhere
// in the candidate string.
func RegexPartial(pattern string) (Predicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Predicate{}, fmt.Errorf("regex-partial: %w", err)
	}
	return Predicate{Kind: PredRegexPartial, Value: pattern, re: re}, nil
}

// RegexFull compiles a regex-full(r) predicate: r must match the entire
// candidate string.
func RegexFull(pattern string) (Predicate, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return Predicate{}, fmt.Errorf("regex-full: %w", err)
	}
	return Predicate{Kind: PredRegexFull, Value: pattern, re: re}, nil
}

// Match reports whether candidate satisfies the predicate.
func (p Predicate) Match(candidate string) bool {
	switch p.Kind {
	case PredEquals:
		return candidate == p.Value
	case PredContains:
		return strings.Contains(candidate, p.Value)
	case PredContainsIgnoreCase:
		return strings.Contains(strings.ToLower(candidate), strings.ToLower(p.Value))
	case PredRegexPartial, PredRegexFull:
		if p.re == nil {
			return false
		}
		return p.re.MatchString(candidate)
	case PredPrefix:
		return strings.HasPrefix(candidate, p.Value)
	case PredSuffix:
		return strings.HasSuffix(candidate, p.Value)
	case PredAnything:
		return true
	default:
		return false
	}
}

// Find locates the first occurrence of p's match within candidate,
// returning its byte offsets. Used by FileQuery to center its ±50-char
// content snippet on the actual hit rather than the start of the file.
func (p Predicate) Find(candidate string) (start, end int, ok bool) {
	switch p.Kind {
	case PredEquals:
		if candidate == p.Value {
			return 0, len(candidate), true
		}
		return 0, 0, false
	case PredContains:
		i := strings.Index(candidate, p.Value)
		if i < 0 {
			return 0, 0, false
		}
		return i, i + len(p.Value), true
	case PredContainsIgnoreCase:
		i := strings.Index(strings.ToLower(candidate), strings.ToLower(p.Value))
		if i < 0 {
			return 0, 0, false
		}
		return i, i + len(p.Value), true
	case PredRegexPartial, PredRegexFull:
		if p.re == nil {
			return 0, 0, false
		}
		loc := p.re.FindStringIndex(candidate)
		if loc == nil {
			return 0, 0, false
		}
		return loc[0], loc[1], true
	case PredPrefix:
		if strings.HasPrefix(candidate, p.Value) {
			return 0, len(p.Value), true
		}
		return 0, 0, false
	case PredSuffix:
		if strings.HasSuffix(candidate, p.Value) {
			start := len(candidate) - len(p.Value)
			return start, len(candidate), true
		}
		return 0, 0, false
	case PredAnything:
		return 0, 0, true
	default:
		return 0, 0, false
	}
}

// MatchOptional applies p when non-nil, and reports true (match-anything)
// when p is nil — the documented "null predicate means match anything"
// shape used by ReferenceQuery and DeclarationQuery's owner/name/desc slots.
func MatchOptional(p *Predicate, candidate string) bool {
	if p == nil {
		return true
	}
	return p.Match(candidate)
}
