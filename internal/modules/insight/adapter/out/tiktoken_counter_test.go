package out_test

import (
	"testing"

	insightout "bjjflow/internal/modules/insight/adapter/out"
)

func TestEstimateTokensRoundsUp(t *testing.T) {
	t.Parallel()
	cases := map[string]int{
		"":          0,
		"a":         1,
		"abcd":      1,
		"abcde":     2,
		"joão":      1,
		"triangulo": 3,
	}
	for text, want := range cases {
		if got := insightout.EstimateTokens(text); got != want {
			t.Fatalf("%q: expected %d, got %d", text, want, got)
		}
	}
}

func TestUnknownEncodingFallsBackToEstimate(t *testing.T) {
	t.Parallel()
	counter := insightout.NewTiktokenCounter("no_such_encoding")
	text := "closed guard retention drills"
	if got, want := counter.Count(text), insightout.EstimateTokens(text); got != want {
		t.Fatalf("expected estimate %d, got %d", want, got)
	}
	if counter.Count("") != 0 {
		t.Fatal("empty text has no tokens")
	}
}
