package selection

// Action is one of the closed set of selection mutations. Implementations
// outside this package are accepted by Reduce but leave state unchanged.
type Action interface {
	actionName() string
}

// SetCity sets the city and leaves every other field untouched.
type SetCity struct{ City string }

// SetBrand sets the brand together with its logo.
type SetBrand struct{ Brand, Logo string }

// SetModel sets the model together with its image.
type SetModel struct{ Model, Image string }

// SetFuel sets the fuel together with its image and completes the selection.
type SetFuel struct{ Fuel, Image string }

// Partial holds optional fields for SetCompleteData. Nil fields are not merged.
type Partial struct {
	City       *string
	Brand      *string
	BrandLogo  *string
	Model      *string
	ModelImage *string
	Fuel       *string
	FuelImage  *string
}

// SetCompleteData merges a partial selection and completes it.
type SetCompleteData struct{ Data Partial }

// LoadFromStore replaces the whole state with a persisted selection.
type LoadFromStore struct{ Selection Selection }

// Clear resets to the empty selection.
type Clear struct{}

// MarkComplete sets the completion flag only.
type MarkComplete struct{}

// ResetCompletion unsets the completion flag only.
type ResetCompletion struct{}

func (SetCity) actionName() string         { return "set_city" }
func (SetBrand) actionName() string        { return "set_brand" }
func (SetModel) actionName() string        { return "set_model" }
func (SetFuel) actionName() string         { return "set_fuel" }
func (SetCompleteData) actionName() string { return "set_complete_data" }
func (LoadFromStore) actionName() string   { return "load_from_store" }
func (Clear) actionName() string           { return "clear" }
func (MarkComplete) actionName() string    { return "mark_complete" }
func (ResetCompletion) actionName() string { return "reset_completion" }

// Name returns a stable identifier for logging. Unknown actions report "unknown".
func Name(a Action) string {
	if a == nil {
		return "unknown"
	}
	switch a.(type) {
	case SetCity, SetBrand, SetModel, SetFuel, SetCompleteData,
		LoadFromStore, Clear, MarkComplete, ResetCompletion:
		return a.actionName()
	}
	return "unknown"
}

// Complete builds a Partial with every field set, as collected by the last
// wizard step.
func Complete(s Selection) Partial {
	return Partial{
		City:       ptr(s.City),
		Brand:      ptr(s.Brand),
		BrandLogo:  ptr(s.BrandLogo),
		Model:      ptr(s.Model),
		ModelImage: ptr(s.ModelImage),
		Fuel:       ptr(s.Fuel),
		FuelImage:  ptr(s.FuelImage),
	}
}

func ptr(v string) *string { return &v }

// Reduce applies a to s and returns the next selection. It never fails and has
// no side effects.
func Reduce(s Selection, a Action) Selection {
	switch act := a.(type) {
	case SetCity:
		s.City = act.City
	case SetBrand:
		s.Brand = act.Brand
		s.BrandLogo = act.Logo
	case SetModel:
		s.Model = act.Model
		s.ModelImage = act.Image
	case SetFuel:
		s.Fuel = act.Fuel
		s.FuelImage = act.Image
		s.IsComplete = true
	case SetCompleteData:
		s = merge(s, act.Data)
		s.IsComplete = true
	case LoadFromStore:
		return act.Selection
	case Clear:
		return Selection{}
	case MarkComplete:
		s.IsComplete = true
	case ResetCompletion:
		s.IsComplete = false
	}
	return s
}

func merge(s Selection, p Partial) Selection {
	if p.City != nil {
		s.City = *p.City
	}
	if p.Brand != nil {
		s.Brand = *p.Brand
	}
	if p.BrandLogo != nil {
		s.BrandLogo = *p.BrandLogo
	}
	if p.Model != nil {
		s.Model = *p.Model
	}
	if p.ModelImage != nil {
		s.ModelImage = *p.ModelImage
	}
	if p.Fuel != nil {
		s.Fuel = *p.Fuel
	}
	if p.FuelImage != nil {
		s.FuelImage = *p.FuelImage
	}
	return s
}
