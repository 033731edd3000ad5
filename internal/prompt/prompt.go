package prompt

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the user leaves a prompt with esc or
// ctrl+c.
var ErrCancelled = errors.New("cancelled")

type InputConfig struct {
	Title       string
	Description string
	Placeholder string
	Secret      bool
	Validate    func(string) error
}

type ConfirmConfig struct {
	Title       string
	Description string
	Affirmative string
	Negative    string
	Default     bool
}

type SelectOption struct {
	Label string
	Value string
}

// SelectConfig describes a single-choice list. Default preselects the
// option with that value.
type SelectConfig struct {
	Title   string
	Options []SelectOption
	Default string
}

// Prompter asks the user for input. Commands go through Default so tests
// can substitute a Mock.
type Prompter interface {
	Input(cfg InputConfig) (string, error)
	Confirm(cfg ConfirmConfig) (bool, error)
	Select(cfg SelectConfig) (string, error)
}

var Default Prompter = &Huh{}

// SetDefault replaces the package-level prompter.
func SetDefault(p Prompter) {
	Default = p
}

// Huh prompts with single-field huh forms.
type Huh struct{}

func (h *Huh) Input(cfg InputConfig) (string, error) {
	var value string
	f := huh.NewInput().Title(cfg.Title).Description(cfg.Description).Value(&value)
	if cfg.Placeholder != "" {
		f.Placeholder(cfg.Placeholder)
	}
	if cfg.Secret {
		f.EchoMode(huh.EchoModePassword)
	}
	if cfg.Validate != nil {
		f.Validate(cfg.Validate)
	}
	return value, run(f)
}

func (h *Huh) Confirm(cfg ConfirmConfig) (bool, error) {
	value := cfg.Default
	f := huh.NewConfirm().Title(cfg.Title).Description(cfg.Description).Value(&value)
	if cfg.Affirmative != "" {
		f.Affirmative(cfg.Affirmative)
	}
	if cfg.Negative != "" {
		f.Negative(cfg.Negative)
	}
	return value, run(f)
}

func (h *Huh) Select(cfg SelectConfig) (string, error) {
	value := cfg.Default
	opts := make([]huh.Option[string], 0, len(cfg.Options))
	for _, o := range cfg.Options {
		opts = append(opts, huh.NewOption(o.Label, o.Value))
	}
	f := huh.NewSelect[string]().Title(cfg.Title).Options(opts...).Value(&value)
	return value, run(f)
}

// run shows field as a one-group form. Esc aborts like ctrl+c does.
func run(field huh.Field) error {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"))

	err := huh.NewForm(huh.NewGroup(field)).WithKeyMap(km).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}
