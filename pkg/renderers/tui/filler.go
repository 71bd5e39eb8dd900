// Package tui drives a form session from a terminal: an interactive fill
// loop built on survey prompts, plus a read-only text renderer for the
// current session state.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/view"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

// Option configures the TUI surfaces.
type Option func(*settings)

type settings struct {
	driver    PromptDriver
	maxPasses int
}

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *settings) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithMaxPasses caps how many correction rounds the fill loop runs before
// giving up with the remaining field errors.
func WithMaxPasses(passes int) Option {
	return func(s *settings) {
		if passes > 0 {
			s.maxPasses = passes
		}
	}
}

func newSettings(options []Option) settings {
	s := settings{
		driver:    newSurveyDriver(),
		maxPasses: 3,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&s)
	}
	return s
}

// Filler prompts for every field of a session and binds the collected
// answers back through the session, re-prompting invalid fields until the
// form validates or the pass limit runs out.
type Filler struct {
	driver    PromptDriver
	maxPasses int
}

// NewFiller constructs a Filler with the survey-backed driver by default.
func NewFiller(options ...Option) *Filler {
	s := newSettings(options)
	return &Filler{driver: s.driver, maxPasses: s.maxPasses}
}

// Fill runs the interactive loop. An informational form prints its text and
// returns without prompting.
func (f *Filler) Fill(ctx context.Context, sess *session.Session) error {
	tree := sess.View()

	if title := strings.TrimSpace(tree.Title); title != "" {
		if err := f.driver.Info(ctx, title); err != nil {
			return err
		}
	}
	if desc := strings.TrimSpace(tree.Description); desc != "" {
		if err := f.driver.Info(ctx, desc); err != nil {
			return err
		}
	}
	if tree.Informational {
		return nil
	}

	onlyErrored := false
	for pass := 0; pass < f.maxPasses; pass++ {
		if err := f.fillNodes(ctx, sess, tree.Children, onlyErrored); err != nil {
			return err
		}
		if sess.ValidateForm() {
			return nil
		}

		tree = sess.View()
		onlyErrored = true
		if err := f.driver.Info(ctx, "Some answers need correcting:"); err != nil {
			return err
		}
	}

	return fmt.Errorf("tui: form still invalid after %d passes: %d field(s) in error", f.maxPasses, len(sess.FieldErrors()))
}

func (f *Filler) fillNodes(ctx context.Context, sess *session.Session, nodes []view.Node, onlyErrored bool) error {
	for _, node := range nodes {
		if node.Group {
			if !onlyErrored {
				if title := strings.TrimSpace(node.Title); title != "" {
					if err := f.driver.Info(ctx, title); err != nil {
						return err
					}
				}
			}
			if err := f.fillNodes(ctx, sess, node.Children, onlyErrored); err != nil {
				return err
			}
			continue
		}
		if onlyErrored && node.Error == "" {
			continue
		}
		if err := f.fillField(ctx, sess, node); err != nil {
			return err
		}
	}
	return nil
}

func (f *Filler) fillField(ctx context.Context, sess *session.Session, node view.Node) error {
	help := strings.TrimSpace(node.Description)
	if node.Error != "" {
		help = node.Error
	}
	message := promptMessage(node)

	switch node.Widget {
	case widgets.KindStatic:
		if len(node.Choices) > 0 {
			return f.driver.Info(ctx, fmt.Sprintf("%s: %s", node.Title, node.Choices[0].Label))
		}
		return nil

	case widgets.KindCheckbox:
		current, _ := node.Value.(bool)
		value, err := f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current, Help: help})
		if err != nil {
			return err
		}
		sess.SetValue(node.Path, value)
		return nil

	case widgets.KindSelect, widgets.KindRadioGroup:
		cfg := SelectConfig{
			Message:      message,
			Options:      choiceValues(node.Choices),
			DefaultIndex: selectedIndex(node.Choices),
			Help:         help,
		}
		index, err := f.driver.Select(ctx, cfg)
		if err != nil {
			return err
		}
		if index >= 0 && index < len(node.Choices) {
			sess.SetValue(node.Path, node.Choices[index].Value)
		}
		return nil

	case widgets.KindMultiSelect, widgets.KindCheckboxGroup:
		cfg := SelectConfig{
			Message:  message,
			Options:  choiceValues(node.Choices),
			Defaults: selectedIndices(node.Choices),
			Help:     help,
		}
		indices, err := f.driver.MultiSelect(ctx, cfg)
		if err != nil {
			return err
		}
		values := make([]string, 0, len(indices))
		for _, index := range indices {
			if index >= 0 && index < len(node.Choices) {
				values = append(values, node.Choices[index].Value)
			}
		}
		sess.SetValue(node.Path, values)
		return nil

	case widgets.KindTextarea:
		value, err := f.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: currentString(node.Value),
			Help:    help,
		})
		if err != nil {
			return err
		}
		sess.SetValue(node.Path, value)
		return nil

	case widgets.KindNumber:
		cfg := InputConfig{
			Message:   message,
			Default:   currentString(node.Value),
			Help:      help,
			Validator: numberValidator,
		}
		raw, err := f.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		if raw == "" {
			sess.SetValue(node.Path, nil)
			return nil
		}
		parsed, parseErr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if parseErr != nil {
			sess.SetValue(node.Path, raw)
			return nil
		}
		sess.SetValue(node.Path, parsed)
		return nil

	default:
		value, err := f.driver.Input(ctx, InputConfig{
			Message: message,
			Default: currentString(node.Value),
			Help:    help,
		})
		if err != nil {
			return err
		}
		sess.SetValue(node.Path, value)
		return nil
	}
}

func promptMessage(node view.Node) string {
	title := strings.TrimSpace(node.Title)
	if title == "" {
		title = node.Name
	}
	if node.Required {
		return title + " *"
	}
	return title
}

func choiceValues(choices []view.Choice) []string {
	out := make([]string, 0, len(choices))
	for _, choice := range choices {
		out = append(out, choice.Label)
	}
	return out
}

func selectedIndex(choices []view.Choice) int {
	for i, choice := range choices {
		if choice.Selected {
			return i
		}
	}
	return -1
}

func selectedIndices(choices []view.Choice) []int {
	var out []int
	for i, choice := range choices {
		if choice.Selected {
			out = append(out, i)
		}
	}
	return out
}

func currentString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func numberValidator(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}
