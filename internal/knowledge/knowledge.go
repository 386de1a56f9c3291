package knowledge

import (
	"fmt"
	"strings"
)

// Entry is one static FAQ rule: any of Keys appearing as a substring of
// the (lowercased) input selects Answer.
type Entry struct {
	Keys   []string
	Answer string
}

// Matcher answers messages straight from a static rule table, declared
// order significant. Read-only after construction, safe for concurrent
// use.
type Matcher struct {
	entries []Entry
	header  string
}

func NewMatcher(header string, entries []Entry) *Matcher {
	return &Matcher{
		entries: entries,
		header:  header,
	}
}

// DefaultEntries returns the built-in FAQ table.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Keys:   []string{"hours", "working hours", "what time"},
			Answer: "We're open daily 9 AM – 7 PM PT.",
		},
		{
			Keys:   []string{"price", "pricing"},
			Answer: "Basic support plan is $49/mo. Tell us what you need — we'll suggest an option.",
		},
		{
			Keys:   []string{"refund"},
			Answer: "For a refund, reply with your order number and a short description. We resolve most cases within 48 hours.",
		},
	}
}

// Match returns the answer of the first entry with any key contained in
// text. The second result is false when no entry matches; that is a
// normal outcome, not an error.
func (m *Matcher) Match(text string) (string, bool) {
	t := strings.ToLower(text)
	for _, e := range m.entries {
		for _, key := range e.Keys {
			if key != "" && strings.Contains(t, key) {
				return e.Answer, true
			}
		}
	}
	return "", false
}

// RenderAll renders every entry's keys and answer as a help listing,
// entries in declaration order.
func (m *Matcher) RenderAll() string {
	lines := []string{m.header + "\n"}
	for _, e := range m.entries {
		lines = append(lines, fmt.Sprintf("• %s → %s", strings.Join(e.Keys, ", "), e.Answer))
	}
	return strings.Join(lines, "\n")
}
