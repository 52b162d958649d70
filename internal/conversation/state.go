package conversation

import (
	"fmt"
	"strings"

	"formchat/internal/classifier"
)

// Phase is where the engine is in its submit/reply cycle.
type Phase int

const (
	AwaitingInput Phase = iota
	Sending
	// IdleWithError accepts input exactly like AwaitingInput; it only records
	// that the last relay call failed.
	IdleWithError
)

func (p Phase) String() string {
	switch p {
	case AwaitingInput:
		return "awaiting_input"
	case Sending:
		return "sending"
	case IdleWithError:
		return "idle_with_error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var transitions = map[Phase][]Phase{
	AwaitingInput: {Sending},
	IdleWithError: {Sending},
	Sending:       {AwaitingInput, IdleWithError},
}

func canTransition(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Message is one transcript entry. Entries are never edited once appended.
type Message struct {
	ID          string               `json:"id"`
	Text        string               `json:"text"`
	IsUser      bool                 `json:"isUser"`
	InputType   classifier.InputType `json:"inputType,omitempty"`
	Options     []string             `json:"options,omitempty"`
	Placeholder string               `json:"placeholder,omitempty"`
}

// DisplayText is how a transcript entry is shown. Select prompts tend to
// repeat their choices after the question, so only the question is kept.
func DisplayText(m Message) string {
	if m.InputType != classifier.InputSelect {
		return m.Text
	}
	if i := strings.Index(m.Text, "?"); i >= 0 {
		return m.Text[:i+1]
	}
	return m.Text
}

// State is a snapshot of the conversation. Slices are copies.
type State struct {
	Transcript   []Message
	InputType    classifier.InputType
	Options      []string
	Placeholder  string
	PendingInput string
	Phase        Phase
	LastError    error
}

func (s State) IsLoading() bool { return s.Phase == Sending }

func (s State) clone() State {
	out := s
	out.Transcript = make([]Message, len(s.Transcript))
	for i, m := range s.Transcript {
		m.Options = append([]string(nil), m.Options...)
		out.Transcript[i] = m
	}
	out.Options = append([]string{}, s.Options...)
	return out
}
