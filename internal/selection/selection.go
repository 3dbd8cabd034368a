package selection

import "strings"

// Selection is the user's car and city context used for pricing.
// Empty strings mean "absent".
type Selection struct {
	City       string `json:"selectedCity,omitempty"`
	Brand      string `json:"selectedBrand,omitempty"`
	BrandLogo  string `json:"brandLogo,omitempty"`
	Model      string `json:"selectedModel,omitempty"`
	ModelImage string `json:"modelImage,omitempty"`
	Fuel       string `json:"selectedFuel,omitempty"`
	FuelImage  string `json:"fuelImage,omitempty"`
	IsComplete bool   `json:"hasCompletedSelection"`
}

const noCarText = "Select Your Car"

// Empty reports whether no field is set and the selection is not complete.
func (s Selection) Empty() bool {
	return s == Selection{}
}

// HasCar reports whether both brand and model are present.
func (s Selection) HasCar() bool {
	return s.Brand != "" && s.Model != ""
}

// HasCompleteDetails reports whether brand, model and fuel are all present.
func (s Selection) HasCompleteDetails() bool {
	return s.HasCar() && s.Fuel != ""
}

// DisplayText returns a short label for headers and buttons.
func (s Selection) DisplayText() string {
	switch {
	case s.HasCar():
		return s.Brand + " " + s.Model
	case s.Brand != "":
		return s.Brand
	default:
		return noCarText
	}
}

// Normalize trims surrounding whitespace from every field. A paired image is
// dropped when its name field ends up empty.
func (s Selection) Normalize() Selection {
	s.City = strings.TrimSpace(s.City)
	s.Brand = strings.TrimSpace(s.Brand)
	s.BrandLogo = strings.TrimSpace(s.BrandLogo)
	s.Model = strings.TrimSpace(s.Model)
	s.ModelImage = strings.TrimSpace(s.ModelImage)
	s.Fuel = strings.TrimSpace(s.Fuel)
	s.FuelImage = strings.TrimSpace(s.FuelImage)
	if s.Brand == "" {
		s.BrandLogo = ""
	}
	if s.Model == "" {
		s.ModelImage = ""
	}
	if s.Fuel == "" {
		s.FuelImage = ""
	}
	return s
}
