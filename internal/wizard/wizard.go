package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/onlybigcars/carbook/internal/selection"
)

var (
	// ErrUnknownBrand is returned for a brand missing from Brands.
	ErrUnknownBrand = errors.New("wizard: unknown brand")
	// ErrUnknownModel is returned for a model missing from the brand's list.
	ErrUnknownModel = errors.New("wizard: unknown model")
	// ErrStepOrder is returned when a step runs before the one it depends on.
	ErrStepOrder = errors.New("wizard: previous step not completed")
)

// Step identifies the next screen of the wizard.
type Step int

const (
	StepCity Step = iota
	StepBrand
	StepModel
	StepFuel
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepCity:
		return "city"
	case StepBrand:
		return "brand"
	case StepModel:
		return "model"
	case StepFuel:
		return "fuel"
	case StepDone:
		return "done"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// NextStep returns the first screen s still needs.
func NextStep(s selection.Selection) Step {
	switch {
	case s.City == "":
		return StepCity
	case s.Brand == "":
		return StepBrand
	case s.Model == "":
		return StepModel
	case s.Fuel == "" || !s.IsComplete:
		return StepFuel
	default:
		return StepDone
	}
}

type cityInput struct {
	City string `validate:"required,max=64"`
}

type nameInput struct {
	Name string `validate:"required,max=64"`
}

type fuelInput struct {
	Fuel string `validate:"required,oneof=Petrol Diesel CNG Electric Hybrid LPG"`
}

// Wizard runs the city, brand, model, fuel flow against a container.
type Wizard struct {
	container *selection.Container
	validate  *validator.Validate
}

// New returns a Wizard dispatching into c.
func New(c *selection.Container) *Wizard {
	return &Wizard{container: c, validate: validator.New(validator.WithRequiredStructEnabled())}
}

// ChooseCity sets the city. Any non-empty name is accepted so users outside
// the listed cities can still proceed.
func (w *Wizard) ChooseCity(city string) error {
	in := cityInput{City: strings.TrimSpace(city)}
	if err := w.validate.Struct(in); err != nil {
		return fmt.Errorf("wizard: city: %w", err)
	}
	if opt, ok := Find(Cities, in.City); ok {
		in.City = opt.Name
	}
	w.container.Dispatch(selection.SetCity{City: in.City})
	return nil
}

// ChooseBrand sets the brand and its logo.
func (w *Wizard) ChooseBrand(brand string) error {
	in := nameInput{Name: strings.TrimSpace(brand)}
	if err := w.validate.Struct(in); err != nil {
		return fmt.Errorf("wizard: brand: %w", err)
	}
	opt, ok := Find(Brands, in.Name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBrand, in.Name)
	}
	w.container.Dispatch(selection.SetBrand{Brand: opt.Name, Logo: opt.Image})
	return nil
}

// ChooseModel sets the model for the selected brand.
func (w *Wizard) ChooseModel(model string) error {
	in := nameInput{Name: strings.TrimSpace(model)}
	if err := w.validate.Struct(in); err != nil {
		return fmt.Errorf("wizard: model: %w", err)
	}
	brand := w.container.State().Brand
	if brand == "" {
		return fmt.Errorf("%w: choose a brand first", ErrStepOrder)
	}
	opt := Option{Name: in.Name, Image: placeholder}
	if known := Models(brand); len(known) > 0 {
		found, ok := Find(known, in.Name)
		if !ok {
			return fmt.Errorf("%w: %q for %s", ErrUnknownModel, in.Name, brand)
		}
		opt = found
	}
	w.container.Dispatch(selection.SetModel{Model: opt.Name, Image: opt.Image})
	return nil
}

// ChooseFuel finishes the wizard with a single SetCompleteData carrying
// every field, so subscribers see one complete transition.
func (w *Wizard) ChooseFuel(fuel string) (selection.Selection, error) {
	name := strings.TrimSpace(fuel)
	if opt, ok := Find(Fuels, name); ok {
		name = opt.Name
	}
	if err := w.validate.Struct(fuelInput{Fuel: name}); err != nil {
		return selection.Selection{}, fmt.Errorf("wizard: fuel: %w", err)
	}
	cur := w.container.State()
	if !cur.HasCar() {
		return selection.Selection{}, fmt.Errorf("%w: choose brand and model first", ErrStepOrder)
	}
	opt, _ := Find(Fuels, name)
	cur.Fuel = opt.Name
	cur.FuelImage = opt.Image
	next := w.container.Dispatch(selection.SetCompleteData{Data: selection.Complete(cur)})
	return next, nil
}
