package util

import "testing"

func TestSanitizeFileNameRejectsTraversal(t *testing.T) {
	if _, err := SanitizeFileName("../etc/passwd"); err == nil {
		t.Fatalf("expected error for traversal name")
	}
}

func TestSanitizeFileNameReplacesSeparators(t *testing.T) {
	got, err := SanitizeFileName("school/notice.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "school_notice.pdf" {
		t.Fatalf("unexpected result: %s", got)
	}
}

func TestHashUserKeyStableHex(t *testing.T) {
	id := "guest:abc"
	got := HashUserKey(id)
	if got != HashUserKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
}
