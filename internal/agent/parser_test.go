package agent

import (
	"errors"
	"testing"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantTool  string
		wantInput string
		wantFinal string
		isFinal   bool
		wantErr   bool
	}{
		{
			name:      "tool call",
			reply:     "ACTION: web_search\nINPUT: {\"query\": \"negroni\"}",
			wantTool:  "web_search",
			wantInput: `{"query":"negroni"}`,
		},
		{
			name:      "thought before action and fenced input",
			reply:     "I should look this up.\nACTION: web_search\nINPUT: ```json\n{\"query\": \"paella\", \"max_results\": 3}\n```",
			wantTool:  "web_search",
			wantInput: `{"query":"paella","max_results":3}`,
		},
		{
			name:      "indented markers",
			reply:     "  ACTION: explore_recipes_db\n  INPUT: {\"sql_query\": \"SELECT name FROM saved_recipes\"}",
			wantTool:  "explore_recipes_db",
			wantInput: `{"sql_query":"SELECT name FROM saved_recipes"}`,
		},
		{
			name:      "action without input",
			reply:     "ACTION: list_things",
			wantTool:  "list_things",
			wantInput: `{}`,
		},
		{
			name:      "final answer",
			reply:     "FINAL: Stir with ice for 30 seconds.",
			wantFinal: "Stir with ice for 30 seconds.",
			isFinal:   true,
		},
		{
			name:      "final wins when first",
			reply:     "FINAL: Use the web_search tool next time.\nACTION: web_search",
			wantFinal: "Use the web_search tool next time.\nACTION: web_search",
			isFinal:   true,
		},
		{
			name:      "marker inside a sentence is not a marker",
			reply:     "The line FINAL: is just text here.",
			wantFinal: "The line FINAL: is just text here.",
			isFinal:   true,
		},
		{
			name:      "plain text is final",
			reply:     "  Here is your recipe.  ",
			wantFinal: "Here is your recipe.",
			isFinal:   true,
		},
		{
			name:    "broken json",
			reply:   "ACTION: web_search\nINPUT: {\"query\": ",
			wantErr: true,
		},
		{
			name:    "non object input",
			reply:   "ACTION: web_search\nINPUT: negroni",
			wantErr: true,
		},
		{
			name:    "missing tool name",
			reply:   "ACTION:\nINPUT: {}",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecision(tt.reply)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedAction) {
					t.Fatalf("err = %v, want ErrMalformedAction", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.IsFinal != tt.isFinal {
				t.Fatalf("IsFinal = %v, want %v", got.IsFinal, tt.isFinal)
			}
			if got.Final != tt.wantFinal {
				t.Errorf("Final = %q, want %q", got.Final, tt.wantFinal)
			}
			if got.Tool != tt.wantTool {
				t.Errorf("Tool = %q, want %q", got.Tool, tt.wantTool)
			}
			if tt.wantInput != "" && string(got.Input) != tt.wantInput {
				t.Errorf("Input = %s, want %s", got.Input, tt.wantInput)
			}
		})
	}
}
