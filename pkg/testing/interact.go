package testing

import (
	"fmt"

	"github.com/go-drift/compose/pkg/toolkit"
)

// The interaction helpers act on the first component matched by a finder
// under root, the way a user would, then pump the loop so queued handlers
// run.

type textEditor interface{ Edit(text string) }

type clicker interface{ Click() }

type toggler interface{ Toggle() }

type selector interface{ Select(text string) error }

type stepper interface{ StepBy(n int) }

func (t *Tester) target(op string, root toolkit.Component, f Finder) (toolkit.Component, error) {
	c := Find(root, f).FirstOrNil()
	if c == nil {
		return nil, fmt.Errorf("%s: finder matched no components: %s", op, f.Description())
	}
	return c, nil
}

// EnterText types text into the matched component.
func (t *Tester) EnterText(root toolkit.Component, f Finder, text string) error {
	c, err := t.target("EnterText", root, f)
	if err != nil {
		return err
	}
	e, ok := c.(textEditor)
	if !ok {
		return fmt.Errorf("EnterText: %T does not accept text input", c)
	}
	e.Edit(text)
	t.Pump()
	return nil
}

// Tap clicks the matched component.
func (t *Tester) Tap(root toolkit.Component, f Finder) error {
	c, err := t.target("Tap", root, f)
	if err != nil {
		return err
	}
	b, ok := c.(clicker)
	if !ok {
		return fmt.Errorf("Tap: %T is not clickable", c)
	}
	b.Click()
	t.Pump()
	return nil
}

// Toggle flips the matched checkable component.
func (t *Tester) Toggle(root toolkit.Component, f Finder) error {
	c, err := t.target("Toggle", root, f)
	if err != nil {
		return err
	}
	b, ok := c.(toggler)
	if !ok {
		return fmt.Errorf("Toggle: %T is not checkable", c)
	}
	b.Toggle()
	t.Pump()
	return nil
}

// Select picks item text in the matched choice component.
func (t *Tester) Select(root toolkit.Component, f Finder, text string) error {
	c, err := t.target("Select", root, f)
	if err != nil {
		return err
	}
	s, ok := c.(selector)
	if !ok {
		return fmt.Errorf("Select: %T has no items", c)
	}
	if err := s.Select(text); err != nil {
		return fmt.Errorf("Select: %w", err)
	}
	t.Pump()
	return nil
}

// Step moves the matched numeric component by n steps.
func (t *Tester) Step(root toolkit.Component, f Finder, n int) error {
	c, err := t.target("Step", root, f)
	if err != nil {
		return err
	}
	s, ok := c.(stepper)
	if !ok {
		return fmt.Errorf("Step: %T is not steppable", c)
	}
	s.StepBy(n)
	t.Pump()
	return nil
}
