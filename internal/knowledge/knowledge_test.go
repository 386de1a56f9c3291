package knowledge

import (
	"strings"
	"testing"
)

func newTestMatcher() *Matcher {
	return NewMatcher("FAQ — quick answers:", DefaultEntries())
}

func TestMatchReturnsAnswerForKnownKeyword(t *testing.T) {
	m := newTestMatcher()

	answer, ok := m.Match("What time are your working hours?")
	if !ok {
		t.Fatal("Match() ok = false, want true")
	}
	if answer != "We're open daily 9 AM – 7 PM PT." {
		t.Fatalf("Match() = %q, want hours answer", answer)
	}
}

func TestMatchIsCaseInsensitive(t *testing.T) {
	m := newTestMatcher()

	answer, ok := m.Match("REFUND please")
	if !ok {
		t.Fatal("Match() ok = false, want true")
	}
	if !strings.Contains(answer, "order number") {
		t.Fatalf("Match() = %q, want refund answer", answer)
	}
}

func TestMatchReturnsNothingWithoutKeyword(t *testing.T) {
	m := newTestMatcher()

	if answer, ok := m.Match("how do I reset password"); ok {
		t.Fatalf("Match() = %q, want no match", answer)
	}
}

func TestMatchFirstEntryWins(t *testing.T) {
	m := NewMatcher("header", []Entry{
		{Keys: []string{"alpha"}, Answer: "first"},
		{Keys: []string{"alpha", "beta"}, Answer: "second"},
	})

	answer, ok := m.Match("alpha and beta")
	if !ok || answer != "first" {
		t.Fatalf("Match() = %q, %v, want %q in declaration order", answer, ok, "first")
	}
}

func TestRenderAllListsEveryEntry(t *testing.T) {
	m := newTestMatcher()

	s := m.RenderAll()
	if !strings.Contains(s, "FAQ — quick answers") {
		t.Fatalf("RenderAll() missing header: %q", s)
	}
	if !strings.Contains(s, "working hours") {
		t.Fatalf("RenderAll() missing entry keys: %q", s)
	}
	if !strings.Contains(s, "refund") {
		t.Fatalf("RenderAll() missing refund entry: %q", s)
	}
}
