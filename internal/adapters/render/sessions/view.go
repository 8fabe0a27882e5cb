package sessions

import (
	"fmt"
	"strings"

	"github.com/bnema/pocketbot/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	// Path is shown under the title so the operator knows which file was read.
	Path string
	// ShowTokens prints access tokens in full instead of masked.
	ShowTokens bool
}

// Render lays out one line per stored session under a short header.
func Render(entries []domain.SessionEntry, opts RenderOptions) string {
	s := newStyles()
	lines := []string{
		s.title.Render("PocketBot Sessions"),
		s.header.Render(fmt.Sprintf("sessions: %d", len(entries))),
	}
	if opts.Path != "" {
		lines = append(lines, s.header.Render("file: "+opts.Path))
	}

	if len(entries) == 0 {
		lines = append(lines, s.empty.Render("Nobody is logged in."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	width := 0
	for _, entry := range entries {
		width = max(width, lipgloss.Width("@"+string(entry.Identity)))
	}

	for _, entry := range entries {
		name := "@" + string(entry.Identity)
		padding := strings.Repeat(" ", width-lipgloss.Width(name))
		token := entry.AccessToken
		if !opts.ShowTokens {
			token = maskToken(token)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			s.identity.Render(name), padding, "  ", s.token.Render(token)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// maskToken keeps the first and last four characters of long tokens.
func maskToken(token string) string {
	runes := []rune(token)
	if len(runes) <= 8 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:4]) + strings.Repeat("*", len(runes)-8) + string(runes[len(runes)-4:])
}
