package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"formchat/internal/classifier"
	"formchat/internal/conversation"
	"formchat/internal/widget"
)

func TestAnswer_DrivesEngineThroughWidgets(t *testing.T) {
	replies := []string{
		"Opciones:\n1. Rojo\n2. Verde",
		"¿Cuál es tu correo electrónico?",
		"Gracias",
	}
	var sent []string
	relay := conversation.RelayFunc(func(_ context.Context, message string) (string, error) {
		sent = append(sent, message)
		r := replies[0]
		replies = replies[1:]
		return r, nil
	})
	engine, err := conversation.New(relay)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, answer(ctx, engine, engine.State(), "   "))
	require.Empty(t, sent)

	require.NoError(t, answer(ctx, engine, engine.State(), "Ana"))
	s := engine.State()
	require.Equal(t, classifier.InputSelect, s.InputType)
	require.Equal(t, []string{"Rojo", "Verde"}, s.Options)

	require.Error(t, answer(ctx, engine, s, "9"))
	require.NoError(t, answer(ctx, engine, s, "2"))
	s = engine.State()
	require.Equal(t, classifier.InputEmail, s.InputType)

	require.ErrorIs(t, answer(ctx, engine, s, "no-es-correo"), widget.ErrInvalidEmail)
	require.NoError(t, answer(ctx, engine, s, " ana@example.com "))

	require.Equal(t, []string{"Ana", "Verde", "ana@example.com"}, sent)
	require.Equal(t, classifier.InputText, engine.State().InputType)
}
