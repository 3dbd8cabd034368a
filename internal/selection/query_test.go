package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_StableUntilComplete(t *testing.T) {
	s := Selection{}
	assert.Equal(t, NoCarFingerprint, Fingerprint(s))

	s = Reduce(s, SetCity{City: "Pune"})
	assert.Equal(t, NoCarFingerprint, Fingerprint(s))

	s = Reduce(s, SetBrand{Brand: "Honda"})
	s = Reduce(s, SetModel{Model: "City"})
	assert.Equal(t, NoCarFingerprint, Fingerprint(s))
}

func TestFingerprint_DeterministicWhenComplete(t *testing.T) {
	data := Partial{City: strp("Pune"), Brand: strp("Honda"), Model: strp("City"), Fuel: strp("Petrol")}
	a := Reduce(Selection{}, SetCompleteData{Data: data})
	b := Reduce(Reduce(Selection{}, SetCity{City: "Delhi"}), SetCompleteData{Data: data})

	assert.Equal(t, "Honda-City-Petrol-Pune", Fingerprint(a))
	assert.Equal(t, Fingerprint(a), Fingerprint(b))

	// Display-only fields do not affect pricing.
	c := a
	c.BrandLogo = "other.png"
	assert.Equal(t, Fingerprint(a), Fingerprint(c))
}

func TestQueryParams_OmitsAbsentFields(t *testing.T) {
	params := QueryParams(Selection{Brand: "Honda", Model: "City"})
	assert.Equal(t, []Param{{ParamBrand, "Honda"}, {ParamModel, "City"}}, params)

	params = QueryParams(Selection{City: "Pune", Fuel: "CNG", Brand: "Tata", Model: "Nexon"})
	assert.Equal(t, []Param{
		{ParamBrand, "Tata"},
		{ParamModel, "Nexon"},
		{ParamFuel, "CNG"},
		{ParamCity, "Pune"},
	}, params)

	assert.Empty(t, QueryParams(Selection{}))
}

func TestEncodeQuery_KeepsOrderAndEscapes(t *testing.T) {
	got := EncodeQuery(QueryParams(Selection{Brand: "Land Rover", Model: "Range Rover", City: "Pune"}))
	assert.Equal(t, "brand=Land+Rover&model=Range+Rover&city=Pune", got)
	assert.Equal(t, "", EncodeQuery(nil))
}

func TestPricingContext(t *testing.T) {
	cases := []struct {
		name   string
		in     Selection
		want   string
		wantOK bool
	}{
		{"empty", Selection{}, "", false},
		{"brand only", Selection{Brand: "Honda"}, "", false},
		{"model only", Selection{Model: "City"}, "", false},
		{"no fuel", Selection{Brand: "Honda", Model: "City"}, "Honda City", true},
		{"with fuel", Selection{Brand: "Honda", Model: "City", Fuel: "Petrol"}, "Honda City (Petrol)", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := PricingContext(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
