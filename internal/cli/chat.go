package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/recipe-agent/internal/agent"
)

// Chatter is satisfied by agent.Service.
type Chatter interface {
	Chat(ctx context.Context, req agent.ChatRequest) (agent.ChatResponse, error)
}

// Loop is the interactive chat. It shares in with the terminal approver so
// approval answers and chat lines come from the same buffer.
type Loop struct {
	chatter   Chatter
	in        *bufio.Reader
	out       io.Writer
	theme     Theme
	sessionID string
}

func NewLoop(chatter Chatter, in *bufio.Reader, out io.Writer, theme Theme) *Loop {
	return &Loop{chatter: chatter, in: in, out: out, theme: theme}
}

// Run reads prompts until quit, EOF or ctx is cancelled. Agent errors are
// printed and the loop carries on.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(l.out, l.theme.Warning.Render("\nInterrupted. Goodbye!"))
			return nil
		}

		fmt.Fprint(l.out, "\n"+l.theme.User.Render("You:")+" ")

		line, err := l.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read input: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		input := strings.TrimSpace(line)
		if input == "" {
			if eof {
				fmt.Fprintln(l.out)
				return nil
			}
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			fmt.Fprintln(l.out, l.theme.Warning.Render("Goodbye! Happy cooking!"))
			return nil
		}

		l.ask(ctx, input)

		if eof {
			return nil
		}
	}
}

func (l *Loop) ask(ctx context.Context, input string) {
	fmt.Fprintln(l.out, l.theme.Muted.Render("Thinking..."))

	resp, err := l.chatter.Chat(ctx, agent.ChatRequest{Prompt: input, SessionID: l.sessionID})
	if err != nil {
		fmt.Fprintln(l.out, l.theme.Fail.Render("Error: "+err.Error()))
		return
	}
	l.sessionID = resp.SessionID

	fmt.Fprintln(l.out, "\n"+l.theme.Assistant.Render("Assistant:"))
	fmt.Fprintln(l.out, resp.Content)
}
