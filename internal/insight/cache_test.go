package insight

import (
	"testing"
)

func TestCache_GetSet(t *testing.T) {
	c := NewCache(2)
	if v, ok := c.Get("a"); ok || v != nil {
		t.Fatal("expected miss")
	}
	c.Set("a", TagSet{TagHeatDamage: true})
	v, ok := c.Get("a")
	if !ok || !v.Has(TagHeatDamage) {
		t.Errorf("Get: got %v, %v", v, ok)
	}
	c.Set("b", TagSet{})
	c.Get("a")           // a becomes most recent
	c.Set("c", TagSet{}) // evicts b
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to remain")
	}
	if c.Len() != 2 {
		t.Errorf("Len=%d", c.Len())
	}
}

func TestCache_ZeroCapacity(t *testing.T) {
	c := NewCache(0)
	c.Set("a", TagSet{})
	if _, ok := c.Get("a"); ok {
		t.Error("zero capacity cache should not store")
	}
}

func TestTagSet(t *testing.T) {
	tags := NewTagSet(map[string]bool{
		TagScalpIssues: true,
		TagHeatDamage:  false,
		"made_up":      true,
	})
	if _, ok := tags["made_up"]; ok {
		t.Error("unknown keys must be dropped")
	}
	if !tags.Has(TagScalpIssues) || tags.Has(TagHeatDamage) {
		t.Errorf("unexpected tags: %v", tags)
	}
	if got := tags.Active(); len(got) != 1 || got[0] != TagScalpIssues {
		t.Errorf("Active: %v", got)
	}
	if tags.Empty() {
		t.Error("set with a true tag is not empty")
	}
	if !(TagSet{TagHeatDamage: false}).Empty() {
		t.Error("all-false set is empty")
	}
}
