package guardrails

import (
	"strings"
	"testing"
)

func TestInjectSoftDeleteFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "existing where",
			query: "SELECT * FROM saved_recipes WHERE name LIKE '%x%'",
			want:  "SELECT * FROM saved_recipes WHERE is_deleted = false AND  name LIKE '%x%'",
		},
		{
			name:  "order by",
			query: "SELECT name FROM saved_recipes ORDER BY saved_at DESC",
			want:  "SELECT name FROM saved_recipes WHERE is_deleted = false ORDER BY saved_at DESC",
		},
		{
			name:  "limit",
			query: "SELECT name FROM saved_recipes LIMIT 5",
			want:  "SELECT name FROM saved_recipes WHERE is_deleted = false LIMIT 5",
		},
		{
			name:  "group by",
			query: "SELECT recipe_type, count(*) FROM saved_recipes GROUP BY recipe_type",
			want:  "SELECT recipe_type, count(*) FROM saved_recipes WHERE is_deleted = false GROUP BY recipe_type",
		},
		{
			name:  "order by wins over limit",
			query: "SELECT name FROM saved_recipes LIMIT 3 ORDER BY name",
			want:  "SELECT name FROM saved_recipes LIMIT 3 WHERE is_deleted = false ORDER BY name",
		},
		{
			name:  "trailing semicolon dropped when appending",
			query: "SELECT name FROM saved_recipes ;",
			want:  "SELECT name FROM saved_recipes WHERE is_deleted = false",
		},
		{
			name:  "where inside string literal",
			query: "SELECT name, 'where to buy' AS hint FROM saved_recipes",
			want:  "SELECT name, 'where to buy' AS hint FROM saved_recipes WHERE is_deleted = false",
		},
		{
			name:  "where as quoted identifier",
			query: `SELECT name FROM "where"`,
			want:  `SELECT name FROM "where" WHERE is_deleted = false`,
		},
		{
			name:  "order by inside literal before real where",
			query: "SELECT 'order by' AS o FROM saved_recipes WHERE servings > 2",
			want:  "SELECT 'order by' AS o FROM saved_recipes WHERE is_deleted = false AND  servings > 2",
		},
		{
			name:  "limit inside dollar quote",
			query: "SELECT $$limit$$ AS l FROM saved_recipes",
			want:  "SELECT $$limit$$ AS l FROM saved_recipes WHERE is_deleted = false",
		},
		{
			name:  "lowercase where keeps its case",
			query: "select name from saved_recipes where servings > 2",
			want:  "select name from saved_recipes where is_deleted = false AND  servings > 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InjectSoftDeleteFilter(tt.query); got != tt.want {
				t.Errorf("InjectSoftDeleteFilter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInjectSoftDeleteFilter_Twice(t *testing.T) {
	queries := []string{
		"SELECT name FROM saved_recipes",
		"SELECT name FROM saved_recipes WHERE recipe_type = 'dessert'",
		"SELECT name FROM saved_recipes ORDER BY name",
	}

	for _, q := range queries {
		once := InjectSoftDeleteFilter(q)
		twice := InjectSoftDeleteFilter(once)

		// the second pass only adds another identical conjunct to the same WHERE
		if strings.Count(strings.ToUpper(twice), "WHERE") != 1 {
			t.Errorf("second injection opened a new WHERE: %q", twice)
		}
		if strings.Count(twice, softDeleteCondition) != 2 {
			t.Errorf("expected two identical filters in %q", twice)
		}

		normalized := strings.Replace(twice, softDeleteCondition+" AND ", "", 1)
		if strings.Join(strings.Fields(normalized), " ") != strings.Join(strings.Fields(once), " ") {
			t.Errorf("second injection changed more than a duplicate conjunct:\n once: %q\ntwice: %q", once, twice)
		}
	}
}

func TestInjectSoftDeleteFilter_AlwaysFiltersExplicitDeletedQueries(t *testing.T) {
	got := ValidateSQL("SELECT name FROM saved_recipes WHERE is_deleted = true")
	if !got.Accepted {
		t.Fatalf("rejected: %s", got.Reason)
	}
	if !strings.Contains(got.Query, "is_deleted = false AND") {
		t.Errorf("filter not injected: %q", got.Query)
	}
}
