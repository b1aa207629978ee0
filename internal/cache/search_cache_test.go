package cache

import (
	"strings"
	"testing"
)

func TestKey_Normalizes(t *testing.T) {
	a := Key("web_search", "Best  Negroni   recipe", "5")
	b := Key("web_search", "  best negroni recipe ", "5")

	if a != b {
		t.Errorf("expected equal keys, got %q and %q", a, b)
	}
	if !strings.HasPrefix(a, "recipe-agent:cache:web_search:") {
		t.Errorf("unexpected key prefix: %q", a)
	}
}

func TestKey_Distinguishes(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"different query", Key("web_search", "negroni"), Key("web_search", "boulevardier")},
		{"different namespace", Key("web_search", "negroni"), Key("fetch_recipe_page", "negroni")},
		{"different params", Key("web_search", "negroni", "3"), Key("web_search", "negroni", "5")},
		{"parts are not concatenated", Key("ns", "ab", "c"), Key("ns", "a", "bc")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a == tt.b {
				t.Errorf("keys collide: %q", tt.a)
			}
		})
	}
}
