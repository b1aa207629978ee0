package agent

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	actionPrefix = "ACTION:"
	inputPrefix  = "INPUT:"
	finalPrefix  = "FINAL:"
)

var ErrMalformedAction = errors.New("malformed action")

// Decision is what the model chose to do on one step: call a tool or answer.
type Decision struct {
	Tool    string
	Input   json.RawMessage
	Final   string
	IsFinal bool
}

// ParseDecision reads a model reply written in the ACTION/INPUT/FINAL
// protocol. Whichever of ACTION or FINAL comes first wins. A reply with
// neither marker is taken as the final answer.
func ParseDecision(reply string) (Decision, error) {
	text := strings.TrimSpace(reply)

	actionAt := markerIndex(text, actionPrefix)
	finalAt := markerIndex(text, finalPrefix)

	switch {
	case finalAt >= 0 && (actionAt < 0 || finalAt < actionAt):
		return Decision{Final: strings.TrimSpace(text[finalAt+len(finalPrefix):]), IsFinal: true}, nil
	case actionAt < 0:
		return Decision{Final: text, IsFinal: true}, nil
	}

	rest := text[actionAt+len(actionPrefix):]
	tool, rest, _ := strings.Cut(rest, "\n")
	tool = strings.Trim(strings.TrimSpace(tool), "`\"'")
	if tool == "" {
		return Decision{}, fmt.Errorf("%w: ACTION has no tool name", ErrMalformedAction)
	}

	input, err := parseInput(rest)
	if err != nil {
		return Decision{}, err
	}

	return Decision{Tool: tool, Input: input}, nil
}

func parseInput(rest string) (json.RawMessage, error) {
	at := markerIndex(rest, inputPrefix)
	if at < 0 {
		return json.RawMessage("{}"), nil
	}

	body := rest[at+len(inputPrefix):]
	start := strings.IndexByte(body, '{')
	if start < 0 {
		return nil, fmt.Errorf("%w: INPUT must be a JSON object", ErrMalformedAction)
	}

	// Decode one value so trailing text or a closing code fence is ignored.
	var raw json.RawMessage
	if err := json.NewDecoder(strings.NewReader(body[start:])).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: INPUT is not valid JSON: %v", ErrMalformedAction, err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return raw, nil
	}
	return compact.Bytes(), nil
}

// markerIndex finds marker at the start of a line, ignoring indentation.
func markerIndex(text, marker string) int {
	offset := 0
	for {
		i := strings.Index(text[offset:], marker)
		if i < 0 {
			return -1
		}
		at := offset + i
		lineStart := strings.LastIndexByte(text[:at], '\n') + 1
		if strings.TrimSpace(text[lineStart:at]) == "" {
			return at
		}
		offset = at + len(marker)
	}
}
