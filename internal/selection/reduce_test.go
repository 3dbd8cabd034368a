package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bogusAction struct{}

func (bogusAction) actionName() string { return "bogus" }

func strp(s string) *string { return &s }

func TestReduce_StepActionsTouchOnlyTheirFields(t *testing.T) {
	s := Reduce(Selection{}, SetCity{City: "Pune"})
	assert.Equal(t, Selection{City: "Pune"}, s)

	s = Reduce(s, SetBrand{Brand: "Honda", Logo: "honda.png"})
	assert.Equal(t, Selection{City: "Pune", Brand: "Honda", BrandLogo: "honda.png"}, s)

	s = Reduce(s, SetModel{Model: "City", Image: "city.png"})
	assert.Equal(t, "City", s.Model)
	assert.Equal(t, "city.png", s.ModelImage)
	assert.False(t, s.IsComplete)
}

func TestReduce_SetFuelCompletes(t *testing.T) {
	s := Reduce(Selection{Brand: "Honda", Model: "City"}, SetFuel{Fuel: "Petrol", Image: "p.png"})
	assert.True(t, s.IsComplete)
	assert.Equal(t, "Petrol", s.Fuel)
	assert.Equal(t, "p.png", s.FuelImage)
}

func TestReduce_SetCompleteDataMergesNonNilFields(t *testing.T) {
	start := Selection{City: "Delhi", Brand: "Kia", BrandLogo: "kia.png"}
	s := Reduce(start, SetCompleteData{Data: Partial{
		Brand: strp("Honda"),
		Model: strp("City"),
		Fuel:  strp("Petrol"),
	}})

	assert.Equal(t, "Delhi", s.City, "nil city must not overwrite")
	assert.Equal(t, "Honda", s.Brand)
	assert.Equal(t, "kia.png", s.BrandLogo, "nil logo must not overwrite")
	assert.Equal(t, "City", s.Model)
	assert.Equal(t, "Petrol", s.Fuel)
	assert.True(t, s.IsComplete)
}

func TestReduce_LoadFromStoreReplaces(t *testing.T) {
	start := Selection{City: "Delhi", Brand: "Kia", IsComplete: true}
	loaded := Selection{Brand: "Honda"}
	assert.Equal(t, loaded, Reduce(start, LoadFromStore{Selection: loaded}))
}

func TestReduce_ClearIsIdempotent(t *testing.T) {
	s := Selection{City: "Pune", Brand: "Honda", Model: "City", Fuel: "Petrol", IsComplete: true}
	once := Reduce(s, Clear{})
	twice := Reduce(once, Clear{})
	assert.Equal(t, Selection{}, once)
	assert.Equal(t, once, twice)
}

func TestReduce_CompletionToggles(t *testing.T) {
	s := Selection{Brand: "Honda"}
	s = Reduce(s, MarkComplete{})
	assert.Equal(t, Selection{Brand: "Honda", IsComplete: true}, s)
	s = Reduce(s, ResetCompletion{})
	assert.Equal(t, Selection{Brand: "Honda"}, s)
}

func TestReduce_UnknownActionsAreNoOps(t *testing.T) {
	s := Selection{City: "Pune", Brand: "Honda", IsComplete: true}
	assert.Equal(t, s, Reduce(s, bogusAction{}))
	assert.Equal(t, s, Reduce(s, nil))
	assert.Equal(t, "unknown", Name(bogusAction{}))
	assert.Equal(t, "unknown", Name(nil))
	assert.Equal(t, "set_fuel", Name(SetFuel{}))
}

// isComplete tracks the most recent terminal action (SetFuel or
// SetCompleteData) until a Clear.
func TestReduce_CompletionFollowsTerminalActions(t *testing.T) {
	sequences := []struct {
		name    string
		actions []Action
		want    bool
	}{
		{"empty", nil, false},
		{"wizard steps only", []Action{SetCity{"Pune"}, SetBrand{"Honda", ""}, SetModel{"City", ""}}, false},
		{"fuel last", []Action{SetBrand{"Honda", ""}, SetFuel{"Petrol", ""}}, true},
		{"edits after fuel", []Action{SetFuel{"Petrol", ""}, SetCity{"Delhi"}, SetBrand{"Kia", ""}}, true},
		{"complete data", []Action{SetCompleteData{Data: Complete(Selection{Brand: "Honda"})}}, true},
		{"clear after fuel", []Action{SetFuel{"Petrol", ""}, Clear{}}, false},
		{"fuel after clear", []Action{SetFuel{"Petrol", ""}, Clear{}, SetCity{"Pune"}, SetFuel{"CNG", ""}}, true},
	}
	for _, tc := range sequences {
		t.Run(tc.name, func(t *testing.T) {
			var s Selection
			for _, a := range tc.actions {
				s = Reduce(s, a)
			}
			require.Equal(t, tc.want, s.IsComplete)
		})
	}
}

func TestComplete_SetsEveryField(t *testing.T) {
	src := Selection{City: "Pune", Brand: "Honda", BrandLogo: "l", Model: "City", ModelImage: "m", Fuel: "Petrol", FuelImage: "f"}
	got := Reduce(Selection{}, SetCompleteData{Data: Complete(src)})
	want := src
	want.IsComplete = true
	assert.Equal(t, want, got)
}

func TestSelection_DerivedHelpers(t *testing.T) {
	assert.Equal(t, "Select Your Car", Selection{}.DisplayText())
	assert.Equal(t, "Honda", Selection{Brand: "Honda"}.DisplayText())
	assert.Equal(t, "Honda City", Selection{Brand: "Honda", Model: "City"}.DisplayText())

	assert.False(t, Selection{Brand: "Honda"}.HasCar())
	assert.True(t, Selection{Brand: "Honda", Model: "City"}.HasCar())
	assert.False(t, Selection{Brand: "Honda", Model: "City"}.HasCompleteDetails())
	assert.True(t, Selection{Brand: "Honda", Model: "City", Fuel: "CNG"}.HasCompleteDetails())

	assert.True(t, Selection{}.Empty())
	assert.False(t, Selection{IsComplete: true}.Empty())
}

func TestSelection_Normalize(t *testing.T) {
	got := Selection{City: " Pune ", BrandLogo: "orphan.png", Model: "\tCity", ModelImage: "m.png"}.Normalize()
	assert.Equal(t, Selection{City: "Pune", Model: "City", ModelImage: "m.png"}, got)
}
