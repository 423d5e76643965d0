package slug_test

import (
	"testing"

	"bjjflow/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Foco na Passagem de Guarda": "foco-na-passagem-de-guarda",
		"Drill/Técnica":              "drill-tecnica",
		"  Competição 2024! ":        "competicao-2024",
		"***":                        "untitled",
		"":                           "untitled",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}
