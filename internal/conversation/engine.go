// Package conversation holds the chat transcript and decides which input
// widget is active. At most one message is in flight at a time.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"formchat/internal/classifier"
)

const (
	WelcomeText = "Hola! 😊 Completa este breve form para conocer mejor tu caso y negocio, y aplicar para que te ayudemos a posicionar y escalar tu Marca Personal🚀   Si vemos que podemos ayudarte, mi equipo te contactará para contarte los próximos pasos.✨   PD: Sólo podremos plantear tu plan de acción, si llegas hasta el final. Por ello, no abandones esta ventana hasta completar el proceso. ¿Lista? Primero, cuéntame tu nombre👇🏼"
	ErrorText   = "Lo siento, ha ocurrido un error al procesar tu solicitud. Por favor, intenta de nuevo."

	defaultTimeout = 30 * time.Second
)

var (
	ErrEmptyInput        = errors.New("conversation: input is empty")
	ErrBusy              = errors.New("conversation: a message is already being sent")
	ErrUnknownOption     = errors.New("conversation: not one of the offered options")
	ErrInvalidTransition = errors.New("conversation: invalid phase transition")
)

// Relay delivers one user message and returns the bot's reply text.
type Relay interface {
	Send(ctx context.Context, message string) (string, error)
}

// RelayFunc adapts a plain function to Relay.
type RelayFunc func(ctx context.Context, message string) (string, error)

func (f RelayFunc) Send(ctx context.Context, message string) (string, error) { return f(ctx, message) }

type Engine struct {
	relay      Relay
	classifier *classifier.Classifier
	timeout    time.Duration
	observers  []func(State)
	log        *slog.Logger

	mu    sync.Mutex
	state State
}

type Option func(*Engine)

func WithClassifier(c *classifier.Classifier) Option {
	return func(e *Engine) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithTimeout bounds each relay call; a call that runs over fails like any
// other relay error.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithObserver registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that caused the change, outside the engine lock.
func WithObserver(fn func(State)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func New(relay Relay, opts ...Option) (*Engine, error) {
	if relay == nil {
		return nil, errors.New("conversation: relay must not be nil")
	}
	e := &Engine{
		relay:      relay,
		classifier: classifier.Default(),
		timeout:    defaultTimeout,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = State{
		Transcript: []Message{{
			ID:        "welcome",
			Text:      WelcomeText,
			InputType: classifier.InputText,
		}},
		InputType:   classifier.InputText,
		Options:     []string{},
		Placeholder: classifier.DefaultPlaceholder,
		Phase:       AwaitingInput,
	}
	return e, nil
}

// State returns a snapshot of the conversation.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

func (e *Engine) Transcript() []Message {
	return e.State().Transcript
}

// SetInput replaces the pending input. The widget is disabled while sending.
func (e *Engine) SetInput(text string) error {
	e.mu.Lock()
	if e.state.Phase == Sending {
		e.mu.Unlock()
		return ErrBusy
	}
	e.state.PendingInput = text
	snap := e.state.clone()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// Submit sends the pending input verbatim and blocks until the reply (or
// failure) has been recorded. Concurrent callers get ErrBusy.
func (e *Engine) Submit(ctx context.Context) error {
	e.mu.Lock()
	if e.state.Phase == Sending {
		e.mu.Unlock()
		return ErrBusy
	}
	text := e.state.PendingInput
	if strings.TrimSpace(text) == "" {
		e.mu.Unlock()
		return ErrEmptyInput
	}
	e.state.PendingInput = ""
	return e.sendLocked(ctx, text)
}

// ChooseOption sends label, which must be one of the active select options.
// The pending input is left untouched.
func (e *Engine) ChooseOption(ctx context.Context, label string) error {
	e.mu.Lock()
	if e.state.Phase == Sending {
		e.mu.Unlock()
		return ErrBusy
	}
	if e.state.InputType != classifier.InputSelect || !slices.Contains(e.state.Options, label) {
		e.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownOption, label)
	}
	return e.sendLocked(ctx, label)
}

// sendLocked must be called with e.mu held; it releases it.
func (e *Engine) sendLocked(ctx context.Context, text string) error {
	if err := e.transitionLocked(Sending); err != nil {
		e.mu.Unlock()
		return err
	}
	e.state.Transcript = append(e.state.Transcript, Message{
		ID:     "user-" + uuid.NewString(),
		Text:   text,
		IsUser: true,
	})
	snap := e.state.clone()
	e.mu.Unlock()
	e.notify(snap)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	reply, err := e.relay.Send(ctx, text)
	cancel()

	e.mu.Lock()
	if err != nil {
		e.log.Warn("relay call failed", "err", err)
		e.failLocked(err)
	} else {
		e.replyLocked(reply)
	}
	snap = e.state.clone()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

func (e *Engine) replyLocked(reply string) {
	res := e.classifier.Classify(reply)
	e.state.Transcript = append(e.state.Transcript, Message{
		ID:          "bot-" + uuid.NewString(),
		Text:        reply,
		InputType:   res.InputType,
		Options:     append([]string(nil), res.Options...),
		Placeholder: res.Placeholder,
	})
	e.state.InputType = res.InputType
	e.state.Options = append([]string{}, res.Options...)
	e.state.Placeholder = res.Placeholder
	e.state.LastError = nil
	e.mustTransitionLocked(AwaitingInput)
}

func (e *Engine) failLocked(err error) {
	e.state.Transcript = append(e.state.Transcript, Message{
		ID:        "error-" + uuid.NewString(),
		Text:      ErrorText,
		InputType: classifier.InputText,
	})
	e.state.InputType = classifier.InputText
	e.state.Options = []string{}
	e.state.Placeholder = classifier.DefaultPlaceholder
	e.state.LastError = err
	e.mustTransitionLocked(IdleWithError)
}

func (e *Engine) transitionLocked(to Phase) error {
	from := e.state.Phase
	if !canTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	e.state.Phase = to
	return nil
}

// mustTransitionLocked is used where only the engine itself can be in the
// source phase; failing here means the table and the code disagree.
func (e *Engine) mustTransitionLocked(to Phase) {
	if err := e.transitionLocked(to); err != nil {
		panic(err)
	}
}

func (e *Engine) notify(s State) {
	for _, fn := range e.observers {
		fn(s)
	}
}
