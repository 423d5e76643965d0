package out_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	insightout "bjjflow/internal/modules/insight/adapter/out"
)

func TestOpenAIGeneratorSendsSystemAndUserMessages(t *testing.T) {
	t.Parallel()
	var got struct {
		Model    string `json:"model"`
		Stream   bool   `json:"stream"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"Frame before you shrimp."},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	gen := insightout.NewOpenAIGenerator(insightout.OpenAIConfig{BaseURL: server.URL + "/", APIKey: "secret", Model: "gemini-test"})
	text, err := gen.Generate(context.Background(), "be a coach", "my sessions")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "Frame before you shrimp." {
		t.Fatalf("unexpected text %q", text)
	}
	if got.Model != "gemini-test" || got.Stream {
		t.Fatalf("unexpected request %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "my sessions" {
		t.Fatalf("unexpected messages %+v", got.Messages)
	}
}

func TestOpenAIGeneratorSurfacesErrors(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	gen := insightout.NewOpenAIGenerator(insightout.OpenAIConfig{BaseURL: server.URL, APIKey: "k", Model: "m"})
	if _, err := gen.Generate(context.Background(), "s", "p"); err == nil {
		t.Fatalf("expected error from failing endpoint")
	}

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c2","object":"chat.completion","choices":[]}`))
	}))
	defer empty.Close()
	gen = insightout.NewOpenAIGenerator(insightout.OpenAIConfig{BaseURL: empty.URL, APIKey: "k", Model: "m"})
	if _, err := gen.Generate(context.Background(), "s", "p"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestEstimateTokens(t *testing.T) {
	t.Parallel()
	if insightout.EstimateTokens("") != 0 || insightout.EstimateTokens("abcd") != 1 || insightout.EstimateTokens("abcde") != 2 {
		t.Fatalf("unexpected estimates")
	}
}
