package proxy

import (
	"testing"
)

func TestRotation(t *testing.T) {
	pool := NewPool([]string{"p1", "p2", "p3"})

	want := []string{"p1", "p2", "p3", "p1"}
	for i, w := range want {
		if got := pool.Next(); got != w {
			t.Errorf("call %d: expected %s, got %s", i, w, got)
		}
	}
}

func TestFailedProxySkipped(t *testing.T) {
	pool := NewPool([]string{"p1", "p2", "p3"})

	pool.Next() // p1, index now at p2
	pool.MarkFailed("p2")

	if got := pool.Next(); got != "p3" {
		t.Errorf("expected p3 (skipping failed p2), got %s", got)
	}
	if got := pool.Next(); got != "p1" {
		t.Errorf("expected p1, got %s", got)
	}
	if got := pool.Next(); got != "p3" {
		t.Errorf("expected p3 again while p2 cools down, got %s", got)
	}

	pool.MarkHealthy("p2")

	if got := pool.Next(); got != "p1" {
		t.Errorf("expected p1, got %s", got)
	}
	if got := pool.Next(); got != "p2" {
		t.Errorf("expected p2 after recovery, got %s", got)
	}
}

func TestEmptyPool(t *testing.T) {
	pool := NewPool(nil)
	if got := pool.Next(); got != "" {
		t.Errorf("empty pool should return empty string, got %q", got)
	}
}

func TestParseList(t *testing.T) {
	got := ParseList(" http://p1:8080 ,, http://p2:8080")
	if len(got) != 2 || got[0] != "http://p1:8080" || got[1] != "http://p2:8080" {
		t.Errorf("unexpected parse result: %v", got)
	}
	if ParseList("") != nil {
		t.Error("empty input should parse to nil")
	}
}
