package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// isTerminal checks if stdin is connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection.
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...)
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// RunSetup interactively captures server connection settings on first run
// and returns the resulting config. The caller is responsible for testing
// the connection and saving.
func RunSetup() (Config, error) {
	cfg := DefaultConfig()

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Description("Base URL of your CI server, e.g. https://ci.example.com/").
				Value(&cfg.URL).
				Validate(func(s string) error {
					u, err := url.Parse(s)
					if err != nil {
						return fmt.Errorf("invalid url: %w", err)
					}
					if u.Scheme != "http" && u.Scheme != "https" {
						return fmt.Errorf("scheme must be http or https")
					}
					return nil
				}),
			huh.NewInput().
				Title("Username").
				Value(&cfg.Username),
			huh.NewInput().
				Title("API token").
				Description("Generated under your user's security settings on the server.").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Token),
		),
	)

	if err := form.Run(); err != nil {
		return cfg, fmt.Errorf("setup aborted: %w", err)
	}
	return cfg, nil
}
