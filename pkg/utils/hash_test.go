package utils

import "testing"

func TestKeyHash(t *testing.T) {
	a := KeyHash("캠핑")
	if len(a) != 32 {
		t.Fatalf("Expected 32 hex chars, got %d", len(a))
	}
	if a != KeyHash("캠핑") {
		t.Error("Expected stable hash")
	}
	if a == KeyHash("캠핑용품") {
		t.Error("Expected different keywords to differ")
	}
	if KeyHash("") != "" {
		t.Error("Expected empty hash for empty input")
	}
	if ShortHash("캠핑") != a[:8] {
		t.Errorf("Expected short hash prefix, got %s", ShortHash("캠핑"))
	}
}
