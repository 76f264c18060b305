// Package prompt collects generate options interactively. The survey-backed
// driver talks to the terminal; tests script a stub driver instead.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-rivegen/pkg/render"
	"github.com/goliatone/go-rivegen/pkg/renderers/obs"
	"github.com/goliatone/go-rivegen/pkg/schema"
	"github.com/goliatone/go-rivegen/pkg/triggers"
)

const noTrigger = "(none)"

// Answers are the values gathered by the wizard. Zero values mean "not
// asked" and leave the corresponding request field untouched.
type Answers struct {
	Template   string
	Filename   string
	Triggers   triggers.Names
	OutAfterMs *float64
	VMDefaults map[string]any
	Preset     bool
}

// Options merges the answers into base using the option keys the selected
// template understands.
func (a Answers) Options(base render.Options) render.Options {
	out := base
	if out == nil {
		out = render.Options{}
	}
	player := isPlayer(a.Template)

	if a.Triggers != (triggers.Names{}) {
		key := "casparTriggers"
		if player {
			key = "triggers"
		}
		out = out.With(key, a.Triggers)
	}
	if player && a.OutAfterMs != nil {
		out = out.With("outAfterMs", *a.OutAfterMs)
	}
	if player && len(a.VMDefaults) > 0 {
		out = out.With("vmDefaults", a.VMDefaults)
	}
	return out
}

// Wizard walks the user through template, filename, trigger and default
// choices for one schema.
type Wizard struct {
	driver Driver
}

// NewWizard builds a wizard on driver, defaulting to the survey driver.
func NewWizard(driver Driver) *Wizard {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	return &Wizard{driver: driver}
}

// Run prompts for every answer, pre-selecting the values in current.
func (w *Wizard) Run(ctx context.Context, templates []render.Descriptor, s schema.Schema, current Answers) (Answers, error) {
	if len(templates) == 0 {
		return Answers{}, errors.New("prompt: no templates available")
	}
	answers := current

	template, err := w.chooseTemplate(ctx, templates, current.Template)
	if err != nil {
		return Answers{}, err
	}
	answers.Template = template

	filename := current.Filename
	if filename == "" {
		filename = render.DefaultFilename
	}
	answers.Filename, err = w.driver.Input(ctx, InputConfig{
		Message: "Output filename",
		Default: filename,
		Validator: func(v string) error {
			if strings.TrimSpace(v) == "" {
				return errors.New("filename is required")
			}
			return nil
		},
	})
	if err != nil {
		return Answers{}, err
	}

	if names := s.Triggers(); len(names) > 0 {
		if answers.Triggers, err = w.chooseTriggers(ctx, names, current.Triggers); err != nil {
			return Answers{}, err
		}
	} else {
		_ = w.driver.Info(ctx, "Schema declares no trigger properties; lifecycle verbs only resume and halt playback.")
	}

	if isPlayer(template) {
		if answers.OutAfterMs, err = w.askOutAfter(ctx, current.OutAfterMs); err != nil {
			return Answers{}, err
		}
		if answers.VMDefaults, err = w.askDefaults(ctx, s); err != nil {
			return Answers{}, err
		}
	} else {
		answers.Preset, err = w.driver.Confirm(ctx, ConfirmConfig{
			Message: "Write a CasparCG preset next to the document?",
			Default: current.Preset,
		})
		if err != nil {
			return Answers{}, err
		}
	}
	return answers, nil
}

func (w *Wizard) chooseTemplate(ctx context.Context, templates []render.Descriptor, current string) (string, error) {
	options := make([]string, len(templates))
	defaultIdx := 0
	for i, desc := range templates {
		options[i] = fmt.Sprintf("%s: %s", desc.Key, desc.Description)
		if desc.Key == current {
			defaultIdx = i
		}
	}
	idx, err := w.driver.Select(ctx, SelectConfig{
		Message:      "Template",
		Options:      options,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(templates) {
		return "", fmt.Errorf("prompt: template selection %d out of range", idx)
	}
	return templates[idx].Key, nil
}

func (w *Wizard) chooseTriggers(ctx context.Context, names []string, current triggers.Names) (triggers.Names, error) {
	options := append([]string{noTrigger}, names...)
	pick := func(message, currentName string) (string, error) {
		idx, err := w.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: max(indexOf(options, currentName), 0),
		})
		if err != nil {
			return "", err
		}
		if idx <= 0 || idx >= len(options) {
			return "", nil
		}
		return options[idx], nil
	}

	var out triggers.Names
	var err error
	if out.In, err = pick("Trigger fired on play", current.In); err != nil {
		return triggers.Names{}, err
	}
	if out.Out, err = pick("Trigger fired on stop", current.Out); err != nil {
		return triggers.Names{}, err
	}
	if out.Next, err = pick("Trigger fired on next", current.Next); err != nil {
		return triggers.Names{}, err
	}
	return out, nil
}

func (w *Wizard) askOutAfter(ctx context.Context, current *float64) (*float64, error) {
	def := strconv.Itoa(obs.DefaultOutAfterMs)
	if current != nil {
		def = strconv.FormatFloat(*current, 'f', -1, 64)
	}
	raw, err := w.driver.Input(ctx, InputConfig{
		Message: "Fire the out trigger after (ms, -1 to disable)",
		Default: def,
		Validator: func(v string) error {
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				return errors.New("enter a number")
			}
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil, fmt.Errorf("prompt: out delay %q: %w", raw, err)
	}
	return &n, nil
}

// askDefaults lets the user override baked property defaults. Only
// properties that accept values are offered.
func (w *Wizard) askDefaults(ctx context.Context, s schema.Schema) (map[string]any, error) {
	var props []schema.Property
	var labels []string
	for _, prop := range s.ViewModelProperties {
		if prop.Type == schema.PropertyTrigger {
			continue
		}
		props = append(props, prop)
		labels = append(labels, fmt.Sprintf("%s (%s)", prop.Name, prop.Type))
	}
	if len(props) == 0 {
		return nil, nil
	}

	picked, err := w.driver.MultiSelect(ctx, SelectConfig{
		Message: "Override baked defaults for",
		Options: labels,
	})
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	for _, idx := range picked {
		if idx < 0 || idx >= len(props) {
			continue
		}
		prop := props[idx]
		current, _ := prop.FormatValue()
		raw, err := w.driver.Input(ctx, InputConfig{
			Message: prop.Name,
			Default: current,
			Validator: func(v string) error {
				if schema.CoerceValue(prop.Type, v) == nil {
					return fmt.Errorf("not a valid %s", prop.Type)
				}
				return nil
			},
		})
		if err != nil {
			return nil, err
		}
		value := schema.CoerceValue(prop.Type, raw)
		if value == nil {
			return nil, fmt.Errorf("prompt: %s: not a valid %s", prop.Name, prop.Type)
		}
		out[prop.Name] = value
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func isPlayer(template string) bool {
	return template == obs.KeyPlayer || template == obs.KeyEmbeddedPlayer
}
