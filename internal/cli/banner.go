package cli

import (
	"strings"
)

// Status is what the startup banner reports about the configuration.
type Status struct {
	Model            string
	PromptFile       string
	PromptFound      bool
	Anthropic        bool
	OpenAI           bool
	Tavily           bool
	LangSmith        bool
	LangSmithProject string
}

func (s Status) providers() []string {
	var providers []string
	if s.Anthropic {
		providers = append(providers, "Anthropic")
	}
	if s.OpenAI {
		providers = append(providers, "OpenAI")
	}
	if s.Tavily {
		providers = append(providers, "Tavily")
	}
	return providers
}

func Banner(theme Theme, s Status) string {
	mark := func(ok bool) string {
		if ok {
			return theme.OK.Render("✓")
		}
		return theme.Fail.Render("✗")
	}

	lines := []string{
		theme.Title.Render("Recipe Agent Ready!"),
		"",
		theme.Muted.Render("Model:") + " " + theme.Value.Render(s.Model),
		theme.Muted.Render("Prompt:") + " " + s.PromptFile + " " + mark(s.PromptFound),
	}

	if providers := s.providers(); len(providers) > 0 {
		lines = append(lines, theme.Muted.Render("APIs:")+" "+theme.OK.Render(strings.Join(providers, ", ")))
	} else {
		lines = append(lines, theme.Muted.Render("APIs:")+" "+theme.Fail.Render("None"))
	}

	if s.LangSmith {
		lines = append(lines, theme.Muted.Render("LangSmith:")+" "+mark(true)+" "+s.LangSmithProject)
	}

	lines = append(lines, "", theme.Muted.Render("Type 'quit' or 'exit' to stop."))

	return theme.Box.Render(strings.Join(lines, "\n"))
}
