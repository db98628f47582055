// Package wizard holds the linear creation steppers: named steps, each with
// its own validation. Nothing is persisted between steps.
package wizard

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Saad-Labelenergie/CRM.2.0-sub000/internal/lib/validate"
)

// Done is returned as the next step after the last one.
const Done = "done"

var (
	ErrUnknownWizard = errors.New("unknown wizard")
	ErrUnknownStep   = errors.New("unknown step")
)

type Step[T any] struct {
	Name  string
	Check func(draft T, v validate.Violations)
}

type Wizard[T any] struct {
	kind  string
	steps []Step[T]
}

func New[T any](kind string, steps ...Step[T]) *Wizard[T] {
	return &Wizard[T]{kind: kind, steps: steps}
}

func (w *Wizard[T]) Kind() string { return w.kind }

func (w *Wizard[T]) Steps() []string {
	names := make([]string, 0, len(w.steps))
	for _, s := range w.steps {
		names = append(names, s.Name)
	}
	return names
}

// Check validates draft for one step and returns the step that follows.
func (w *Wizard[T]) Check(step string, draft T) (string, error) {
	for i, s := range w.steps {
		if s.Name != step {
			continue
		}

		v := make(validate.Violations)
		s.Check(draft, v)
		if err := v.Err(); err != nil {
			return step, err
		}

		if i+1 < len(w.steps) {
			return w.steps[i+1].Name, nil
		}
		return Done, nil
	}

	return "", fmt.Errorf("%s/%s: %w", w.kind, step, ErrUnknownStep)
}

// Validate runs every step. It is what a save goes through.
func (w *Wizard[T]) Validate(draft T) error {
	v := make(validate.Violations)
	for _, s := range w.steps {
		s.Check(draft, v)
	}
	return v.Err()
}

// CheckJSON decodes raw as T, then behaves like Check.
func (w *Wizard[T]) CheckJSON(step string, raw []byte) (string, error) {
	var draft T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &draft); err != nil {
			return step, validate.Violations{"draft": "invalid_json"}
		}
	}
	return w.Check(step, draft)
}

// Runner is the untyped face of a Wizard used by the HTTP layer.
type Runner interface {
	Kind() string
	Steps() []string
	CheckJSON(step string, raw []byte) (string, error)
}

type Registry map[string]Runner

func NewRegistry(runners ...Runner) Registry {
	r := make(Registry, len(runners))
	for _, w := range runners {
		r[w.Kind()] = w
	}
	return r
}

func (r Registry) Check(kind, step string, raw []byte) (string, error) {
	w, ok := r[kind]
	if !ok {
		return "", fmt.Errorf("%s: %w", kind, ErrUnknownWizard)
	}
	return w.CheckJSON(step, raw)
}
