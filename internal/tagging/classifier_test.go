package tagging

import (
	"reflect"
	"testing"
)

func TestClassifyMatchesBilling(t *testing.T) {
	c := NewClassifier(DefaultRules())

	tags := c.Classify("I need a refund for my invoice")
	if !reflect.DeepEqual(tags, []string{"billing"}) {
		t.Fatalf("Classify() = %v, want [billing]", tags)
	}
}

func TestClassifyMatchesTech(t *testing.T) {
	c := NewClassifier(DefaultRules())

	tags := c.Classify("integration error 500")
	if !reflect.DeepEqual(tags, []string{"tech"}) {
		t.Fatalf("Classify() = %v, want [tech]", tags)
	}
}

func TestClassifyEmptyForNeutralText(t *testing.T) {
	c := NewClassifier(DefaultRules())

	if tags := c.Classify("hello"); len(tags) != 0 {
		t.Fatalf("Classify() = %v, want empty", tags)
	}
}

func TestClassifyPreservesDeclarationOrder(t *testing.T) {
	c := NewClassifier(DefaultRules())

	tags := c.Classify("pricing bug when I try to buy")
	want := []string{"billing", "tech", "sales"}
	if !reflect.DeepEqual(tags, want) {
		t.Fatalf("Classify() = %v, want %v", tags, want)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	c := NewClassifier(DefaultRules())

	tags := c.Classify("PAYMENT failed")
	if !reflect.DeepEqual(tags, []string{"billing"}) {
		t.Fatalf("Classify() = %v, want [billing]", tags)
	}
}
