package cmd

import (
	"fmt"

	"github.com/payoffhq/payoff/internal/tui"
	"github.com/payoffhq/payoff/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Explore the plan interactively",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	req, _, err := s.request(cmd.Context())
	if err != nil {
		return err
	}

	if name := s.cfg.Appearance.Theme; !theme.Valid(name) {
		progress("  Unknown theme %q, using %s\n", name, theme.Default.Name)
	}
	theme.SetActive(s.cfg.Appearance.Theme)

	// Force TrueColor so background fills always emit ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	p := tea.NewProgram(tui.NewApp(s.planner, req, s.user), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
