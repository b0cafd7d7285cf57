package search

import "testing"

func TestPredicate_AllKinds(t *testing.T) {
	cases := []struct {
		name string
		p    Predicate
		in   string
		want bool
	}{
		{"equals-match", Equals("Foo"), "Foo", true},
		{"equals-no-match", Equals("Foo"), "foo", false},
		{"contains", Contains("oo"), "Foo", true},
		{"contains-ignore-case", ContainsIgnoreCase("OO"), "Foo", true},
		{"prefix", Prefix("Fo"), "Foo", true},
		{"suffix", Suffix("oo"), "Foo", true},
		{"anything", Anything(), "anything at all", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.p.Match(c.in); got != c.want {
				t.Errorf("%s: got %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestRegexPartial_MatchesSubstring(t *testing.T) {
	p, err := RegexPartial(`\d+`)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Match("value=123") {
		t.Error("expected partial regex match")
	}
}

func TestRegexPartial_InvalidPatternErrors(t *testing.T) {
	_, err := RegexPartial("(unclosed")
	if err == nil {
		t.Error("expected error for invalid regex")
	}
}

func TestMatchOptional_NilMeansAnything(t *testing.T) {
	if !MatchOptional(nil, "whatever") {
		t.Error("expected nil predicate to match anything")
	}
}
