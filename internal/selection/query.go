package selection

import (
	"net/url"
	"strings"
)

// NoCarFingerprint is the fingerprint of any incomplete selection.
const NoCarFingerprint = "no-car-selected"

// Query parameter names understood by the pricing API.
const (
	ParamBrand = "brand"
	ParamModel = "model"
	ParamFuel  = "fuel"
	ParamCity  = "city"
)

// Param is a single query key/value pair.
type Param struct {
	Key   string
	Value string
}

// Fingerprint identifies the pricing-relevant part of s. Edits made while the
// selection is incomplete never change it.
func Fingerprint(s Selection) string {
	if !s.IsComplete {
		return NoCarFingerprint
	}
	return strings.Join([]string{s.Brand, s.Model, s.Fuel, s.City}, "-")
}

// QueryParams returns brand, model, fuel and city in that order, omitting
// absent fields.
func QueryParams(s Selection) []Param {
	params := make([]Param, 0, 4)
	if s.Brand != "" {
		params = append(params, Param{Key: ParamBrand, Value: s.Brand})
	}
	if s.Model != "" {
		params = append(params, Param{Key: ParamModel, Value: s.Model})
	}
	if s.Fuel != "" {
		params = append(params, Param{Key: ParamFuel, Value: s.Fuel})
	}
	if s.City != "" {
		params = append(params, Param{Key: ParamCity, Value: s.City})
	}
	return params
}

// EncodeQuery renders params as a URL query string, keeping their order.
// url.Values.Encode would sort the keys.
func EncodeQuery(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// PricingContext returns "{brand} {model} ({fuel})" for display next to
// prices. The fuel suffix is only added when fuel is present. ok is false when
// brand or model is missing.
func PricingContext(s Selection) (label string, ok bool) {
	if !s.HasCar() {
		return "", false
	}
	label = s.Brand + " " + s.Model
	if s.Fuel != "" {
		label += " (" + s.Fuel + ")"
	}
	return label, true
}
