package llm

import "strings"

type LLMRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	// StopSequences end generation as soon as the model emits one of them.
	StopSequences []string
}

type LLMResponse struct {
	Content      string
	StopReason   string
	InputTokens  int
	OutputTokens int
}

type StreamCallback func(chunk string) error

// TrimAtStop cuts content at the first stop sequence. Providers that cannot
// pass stop sequences through apply it to the full reply.
func TrimAtStop(content string, stops []string) (string, bool) {
	cut := -1
	for _, stop := range stops {
		if stop == "" {
			continue
		}
		if i := strings.Index(content, stop); i >= 0 && (cut < 0 || i < cut) {
			cut = i
		}
	}
	if cut < 0 {
		return content, false
	}
	return content[:cut], true
}
