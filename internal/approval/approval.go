package approval

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type Action string

const (
	Approve Action = "approve"
	Edit    Action = "edit"
	Reject  Action = "reject"
)

// Request describes a tool call waiting for a human decision.
type Request struct {
	Tool    string
	Summary string
	Payload string
}

// Decision is the reviewer's answer. Payload holds the text to use when the
// action is Edit.
type Decision struct {
	Action     Action
	Payload    string
	UserAction string
}

type Approver interface {
	Review(ctx context.Context, req Request) (Decision, error)
}

func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PolicyApprover answers every request the same way. Used where nobody is
// at a terminal (HTTP API, MCP).
type PolicyApprover struct {
	action Action
}

func NewPolicyApprover(action Action) *PolicyApprover {
	return &PolicyApprover{action: action}
}

func (p *PolicyApprover) Review(ctx context.Context, req Request) (Decision, error) {
	return Decision{Action: p.action, Payload: req.Payload, UserAction: "policy_" + string(p.action)}, nil
}

// FromMode maps the SAVE_APPROVAL setting to an approver. "ask" prompts on
// the terminal and rejects when stdin is not one.
func FromMode(mode string, in *bufio.Reader, out io.Writer) (Approver, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "ask":
		return NewTerminalApprover(in, out), nil
	case "approve":
		return NewPolicyApprover(Approve), nil
	case "reject":
		return NewPolicyApprover(Reject), nil
	default:
		return nil, fmt.Errorf("unknown approval mode %q (want ask, approve or reject)", mode)
	}
}

// TerminalApprover asks on out and reads the answer from in. in must be the
// same reader the chat loop uses so buffered input is not lost.
type TerminalApprover struct {
	in          *bufio.Reader
	out         io.Writer
	interactive func() bool
}

func NewTerminalApprover(in *bufio.Reader, out io.Writer) *TerminalApprover {
	return &TerminalApprover{in: in, out: out, interactive: IsInteractive}
}

func (a *TerminalApprover) Review(ctx context.Context, req Request) (Decision, error) {
	if !a.interactive() {
		return Decision{Action: Reject, UserAction: "auto_reject_non_interactive"}, nil
	}

	fmt.Fprintln(a.out, "")
	fmt.Fprintln(a.out, "╔══════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(a.out, "║                      APPROVAL REQUIRED                       ║")
	fmt.Fprintln(a.out, "╚══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(a.out, "")
	fmt.Fprintf(a.out, "Tool: %s\n", req.Tool)
	if req.Summary != "" {
		fmt.Fprintf(a.out, "%s\n", req.Summary)
	}
	fmt.Fprintln(a.out, "")
	fmt.Fprintln(a.out, req.Payload)
	fmt.Fprintln(a.out, "")
	fmt.Fprintln(a.out, "Options:")
	fmt.Fprintln(a.out, "  [a] Approve - save as shown")
	fmt.Fprintln(a.out, "  [e] Edit    - replace the recipe text")
	fmt.Fprintln(a.out, "  [n] Notes   - append your notes to the recipe text")
	fmt.Fprintln(a.out, "  [r] Reject  - do not save")
	fmt.Fprintln(a.out, "")

	for {
		if err := ctx.Err(); err != nil {
			return Decision{}, err
		}

		fmt.Fprint(a.out, "Your choice [a/e/n/r]: ")
		input, err := a.in.ReadString('\n')
		if err != nil && input == "" {
			return Decision{Action: Reject, UserAction: "error_reading_input"}, nil
		}

		switch strings.TrimSpace(strings.ToLower(input)) {
		case "a", "approve", "yes", "y":
			return Decision{Action: Approve, Payload: req.Payload, UserAction: "approve"}, nil
		case "r", "reject", "no":
			return Decision{Action: Reject, UserAction: "reject"}, nil
		case "e", "edit":
			text, err := a.readBlock("Enter the corrected recipe.")
			if err != nil || strings.TrimSpace(text) == "" {
				return Decision{Action: Reject, UserAction: "empty_edit"}, nil
			}
			return Decision{Action: Edit, Payload: text, UserAction: "edit"}, nil
		case "n", "notes":
			text, err := a.readBlock("Enter your notes.")
			if err != nil || strings.TrimSpace(text) == "" {
				return Decision{Action: Approve, Payload: req.Payload, UserAction: "approve"}, nil
			}
			return Decision{Action: Edit, Payload: req.Payload + "\n\nUser notes: " + text, UserAction: "append_notes"}, nil
		default:
			fmt.Fprintln(a.out, "Invalid input. Please enter 'a', 'e', 'n' or 'r'.")
		}
	}
}

// readBlock reads lines until one containing only "." or EOF.
func (a *TerminalApprover) readBlock(prompt string) (string, error) {
	fmt.Fprintf(a.out, "%s Finish with a line containing only '.'\n", prompt)

	var lines []string
	for {
		line, err := a.in.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "." {
			break
		}
		if trimmed != "" || err == nil {
			lines = append(lines, trimmed)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return "", err
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
