package tagging

import "strings"

// Rule maps a topic tag to the keywords that trigger it.
type Rule struct {
	Tag  string
	Keys []string
}

// Classifier assigns topic tags from a static keyword table. Read-only
// after construction, safe for concurrent use.
type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// DefaultRules returns the built-in topic table.
func DefaultRules() []Rule {
	return []Rule{
		{Tag: "billing", Keys: []string{"price", "pricing", "refund", "invoice", "payment"}},
		{Tag: "tech", Keys: []string{"error", "bug", "install", "setup", "integration", "timeout"}},
		{Tag: "sales", Keys: []string{"buy", "purchase", "demo", "trial"}},
	}
}

// Classify returns the tags whose rule has at least one keyword
// contained in text, in rule declaration order. May be empty.
func (c *Classifier) Classify(text string) []string {
	t := strings.ToLower(text)
	var tags []string
	for _, r := range c.rules {
		for _, key := range r.Keys {
			if strings.Contains(t, key) {
				tags = append(tags, r.Tag)
				break
			}
		}
	}
	return tags
}
