// Command formchat is a terminal front-end for the relay: it shows the
// conversation and collects each answer with the widget the bot asked for.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/chzyer/readline"

	"formchat/internal/chatclient"
	"formchat/internal/classifier"
	"formchat/internal/config"
	"formchat/internal/conversation"
	"formchat/internal/widget"
)

const width = 80

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := run(cfg); err != nil {
		slog.Error("formchat exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	client, err := chatclient.NewClient(cfg.RelayURL)
	if err != nil {
		return err
	}
	cls, err := classifier.Load(cfg.ClassifierRules)
	if err != nil {
		return err
	}

	rl, err := readline.New("")
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	defer func() { _ = rl.Close() }()

	printed := 0
	render := func(s conversation.State) {
		for ; printed < len(s.Transcript); printed++ {
			fmt.Fprintln(rl.Stdout(), widget.RenderMessage(s.Transcript[printed], width))
		}
	}

	engine, err := conversation.New(client,
		conversation.WithClassifier(cls),
		conversation.WithTimeout(cfg.WebhookTimeout+5*time.Second),
		conversation.WithObserver(render),
	)
	if err != nil {
		return err
	}
	render(engine.State())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for ctx.Err() == nil {
		s := engine.State()
		if s.InputType == classifier.InputSelect {
			fmt.Fprintln(rl.Stdout(), widget.RenderOptions(s.Options))
		}
		fmt.Fprintln(rl.Stdout(), widget.Hint(s))
		rl.SetPrompt(widget.Prompt(s))

		line, err := readTurn(rl, s.InputType)
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := answer(ctx, engine, s, line); err != nil {
			fmt.Fprintln(rl.Stdout(), err)
		}
	}
	return nil
}

// readTurn reads one answer. A textarea keeps reading lines until an empty one.
func readTurn(rl *readline.Instance, t classifier.InputType) (string, error) {
	line, err := rl.Readline()
	if err != nil || t != classifier.InputTextarea {
		return line, err
	}
	text := line
	for {
		rl.SetPrompt("... ")
		next, err := rl.Readline()
		if err != nil {
			return "", err
		}
		if next == "" {
			return text, nil
		}
		text += "\n" + next
	}
}

func answer(ctx context.Context, engine *conversation.Engine, s conversation.State, line string) error {
	if s.InputType == classifier.InputSelect {
		label, err := widget.ResolveOption(s.Options, line)
		if err != nil {
			return err
		}
		return engine.ChooseOption(ctx, label)
	}
	value, err := widget.Normalize(s.InputType, line)
	if err != nil {
		return err
	}
	if err := engine.SetInput(value); err != nil {
		return err
	}
	if err := engine.Submit(ctx); err != nil && !errors.Is(err, conversation.ErrEmptyInput) {
		return err
	}
	return nil
}
