package console

import (
	"context"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// Prompter asks the user questions on the terminal
type Prompter interface {
	Select(title string, options []string) (string, error)
	Confirm(title string, defaultValue bool) (bool, error)
	Input(title string) (string, error)
	// Spin shows title while action runs and returns the action's error
	Spin(ctx context.Context, title string, action func(ctx context.Context) error) error
}

// HuhPrompter is a Prompter built on huh forms
type HuhPrompter struct {
	accessible bool
}

// NewHuhPrompter creates a prompter. Accessible mode replaces the interactive
// widgets with plain line prompts.
func NewHuhPrompter(accessible bool) *HuhPrompter {
	return &HuhPrompter{accessible: accessible}
}

// Select asks the user to pick one of options
func (p *HuhPrompter) Select(title string, options []string) (string, error) {
	var choice string
	err := p.run(huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Height(12).
		Value(&choice))
	return choice, err
}

// Confirm asks a yes/no question
func (p *HuhPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	answer := defaultValue
	err := p.run(huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&answer))
	return answer, err
}

// Input asks for a line of free text
func (p *HuhPrompter) Input(title string) (string, error) {
	var value string
	err := p.run(huh.NewInput().
		Title(title).
		Value(&value))
	return value, err
}

// Spin runs action behind a spinner
func (p *HuhPrompter) Spin(ctx context.Context, title string, action func(ctx context.Context) error) error {
	var actionErr error
	err := spinner.New().
		Title(title).
		Context(ctx).
		Accessible(p.accessible).
		Action(func() { actionErr = action(ctx) }).
		Run()
	if err != nil {
		return err
	}
	return actionErr
}

func (p *HuhPrompter) run(field huh.Field) error {
	return huh.NewForm(huh.NewGroup(field)).
		WithAccessible(p.accessible).
		Run()
}
