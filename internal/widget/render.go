package widget

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"formchat/internal/classifier"
	"formchat/internal/conversation"
)

var (
	botStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1f1f1f")).
			Background(lipgloss.Color("#F89082")).
			Padding(0, 1)
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#545454")).
			Background(lipgloss.Color("#FFC969")).
			Padding(0, 1)
	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#2383A2")).
			Padding(0, 1)
	hintStyle = lipgloss.NewStyle().Faint(true)
)

// RenderMessage draws one transcript entry, user messages right-aligned
// within width.
func RenderMessage(m conversation.Message, width int) string {
	text := conversation.DisplayText(m)
	bubbleWidth := width * 4 / 5
	if m.IsUser {
		bubble := userStyle.Width(min(bubbleWidth, lipgloss.Width(text)+2)).Render(text)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
	}
	return botStyle.Width(min(bubbleWidth, lipgloss.Width(text)+2)).Render(text)
}

// RenderOptions lists select choices as numbered buttons.
func RenderOptions(options []string) string {
	buttons := make([]string, 0, len(options))
	for i, o := range options {
		buttons = append(buttons, optionStyle.Render(fmt.Sprintf("%d. %s", i+1, o)))
	}
	return strings.Join(buttons, " ")
}

// Prompt is the readline prompt for the active widget.
func Prompt(s conversation.State) string {
	if s.IsLoading() {
		return hintStyle.Render("…") + " "
	}
	label := string(s.InputType)
	if s.InputType == classifier.InputSelect {
		label = "1-" + fmt.Sprint(len(s.Options))
	}
	return fmt.Sprintf("[%s] ", label)
}

// Hint is the faint placeholder shown above the prompt.
func Hint(s conversation.State) string {
	return hintStyle.Render(s.Placeholder)
}
