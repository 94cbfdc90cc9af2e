// Package prompt wraps the interactive terminal prompts the CLI uses to
// pick views and confirm runs. The Driver interface keeps survey behind a
// seam so tools and tests can substitute a scripted implementation.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user aborted a prompt (e.g., Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// PickConfig configures a view selection prompt.
type PickConfig struct {
	Message  string
	Options  []string
	Defaults []string
	Help     string
	PageSize int
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// Driver abstracts the terminal so selection logic runs without a real TTY.
type Driver interface {
	Pick(ctx context.Context, cfg PickConfig) (string, error)
	PickMany(ctx context.Context, cfg PickConfig) ([]string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Info(ctx context.Context, msg string) error
}

// NewDriver returns the survey-backed terminal driver.
func NewDriver() Driver {
	return &surveyDriver{}
}

type surveyDriver struct{}

func (d *surveyDriver) Pick(ctx context.Context, cfg PickConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	sel := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.PageSize > 0 {
		sel.PageSize = cfg.PageSize
	}
	if len(cfg.Defaults) > 0 {
		sel.Default = cfg.Defaults[0]
	}
	if err := survey.AskOne(sel, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) PickMany(ctx context.Context, cfg PickConfig) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []string
	sel := &survey.MultiSelect{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if cfg.PageSize > 0 {
		sel.PageSize = cfg.PageSize
	}
	if len(cfg.Defaults) > 0 {
		sel.Default = cfg.Defaults
	}
	if err := survey.AskOne(sel, &out); err != nil {
		return nil, translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var out bool
	confirm := &survey.Confirm{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(confirm, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(os.Stdout, msg)
	return err
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
