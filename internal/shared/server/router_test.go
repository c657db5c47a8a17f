package server

import (
	"testing"

	"wsid-backend/internal/llm"
	"wsid-backend/internal/shared/config"
)

func TestBuildLLMClientNoneProvider(t *testing.T) {
	client := buildLLMClient(config.Config{LLMProvider: "none"}, llm.NewKeyTable(nil))
	if client != nil {
		t.Fatalf("expected no client for the none provider, got %T", client)
	}
}

func TestBuildLLMClientOpenRouterWithoutKeys(t *testing.T) {
	client := buildLLMClient(config.Config{LLMProvider: "openrouter", LLMModel: "m"}, llm.NewKeyTable(nil))
	if client != nil {
		t.Fatalf("expected no client without credentials, got %T", client)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{
		"":      ":8080",
		"9090":  ":9090",
		":7070": ":7070",
	}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
