package wizard

import (
	"slices"
	"strings"
)

// Option is one selectable entry on a wizard screen.
type Option struct {
	Name  string
	Image string
}

const (
	logoBase    = "https://onlybigcars.com/latest/wp-content/uploads/"
	placeholder = "/api/placeholder/60/60"
)

// Cities served by the workshop network.
var Cities = []Option{
	{"Gurugram", logoBase + "2024/12/building-1.png"},
	{"Delhi", logoBase + "2024/12/10-City-Monument-Icons-Sketch-Freebie-16-e1733222735926.jpeg"},
	{"Faridabad", logoBase + "2024/12/the-taj-mahal-in-india-free-vector.jpg"},
	{"Ghaziabad", logoBase + "2025/04/urban-scaled.jpg"},
	{"Rohtak", logoBase + "2025/04/city-scaled.jpg"},
	{"Noida", logoBase + "2025/04/noida_city-e1743486704534.jpg"},
	{"Kanpur", logoBase + "2024/12/kanpur.jpg"},
	{"Dehradun", logoBase + "2024/12/istockphoto-1413469691-612x612-1.jpg"},
	{"Chandigarh", logoBase + "2024/12/chandigarh.jpg"},
	{"Bangalore", logoBase + "2024/12/10-City-Monument-Icons-Sketch-Freebie-8-e1733222318753.jpeg"},
	{"Jaipur", logoBase + "2024/12/10-City-Monument-Icons-Sketch-Freebie-9-e1733222396551.jpeg"},
	{"Lucknow", logoBase + "2024/12/10-City-Monument-Icons-Sketch-Freebie-5-e1733221488547.jpeg"},
	{"Chennai", logoBase + "2024/12/10-City-Monument-Icons-Sketch-Freebie-12-e1733222549440.jpeg"},
	{"Kolkata", logoBase + "2024/12/10-City-Monument-Icons-Sketch-Freebie-10-e1733222620526.jpeg"},
	{"Mumbai", logoBase + "2024/12/10-City-Monument-Icons-Sketch-Freebie-11-e1733222583292.jpeg"},
	{"Hyderabad", logoBase + "2024/12/10-City-Monument-Icons-Sketch-Freebie-13-e1733222489379.jpeg"},
	{"Pune", logoBase + "2024/12/10-City-Monument-Icons-Sketch-Freebie-7-e1733222111878.jpeg"},
	{"Ahmedabad", logoBase + "2024/12/10-City-Monument-Icons-Sketch-Freebie-4-e1733221309770.jpeg"},
}

// Brands with their logos, in display order.
var Brands = []Option{
	{"Aston Martin", logoBase + "2024/11/brand-17.jpeg"},
	{"Audi", logoBase + "2025/01/audi-logo.jpg"},
	{"Bentley", logoBase + "2024/11/brand-19.jpeg"},
	{"BMW", logoBase + "2024/11/brand-20.jpeg"},
	{"Citroen", logoBase + "2024/11/brand-43.png"},
	{"Ferrari", logoBase + "2024/11/brand-21.jpeg"},
	{"Hummer", "https://onlybigcars.com/wp-content/uploads/2025/05/HUMMER.jpeg"},
	{"Jaguar", logoBase + "2024/11/brand-22.jpeg"},
	{"Lamborghini", logoBase + "2024/11/brand-23.jpeg"},
	{"Land Rover", logoBase + "2024/11/brand-24.jpeg"},
	{"Lexus", logoBase + "2024/11/brand-42.jpeg"},
	{"Maserati", logoBase + "2024/11/brand-25.jpeg"},
	{"Mercedes", logoBase + "2024/11/brand-26.jpeg"},
	{"Mini", logoBase + "2024/11/brand-27.jpeg"},
	{"Porsche", logoBase + "2024/11/brand-28.jpeg"},
	{"Rolls Royce", logoBase + "2024/11/brand-29.jpeg"},
	{"Volvo", logoBase + "2024/12/vol.jpeg"},
	{"Toyota", logoBase + "2025/01/brand-15.jpeg"},
	{"Kia", logoBase + "2025/01/brand-38-1.jpeg"},
	{"Jeep", logoBase + "2025/01/brand-34-1.jpeg"},
	{"Mahindra", logoBase + "2025/01/brand-8.jpeg"},
	{"Skoda", logoBase + "2025/01/brand-13.jpeg"},
	{"Volkswagen", logoBase + "2025/01/brand-16.jpeg"},
	{"Isuzu", logoBase + "2025/01/brand-32.jpeg"},
	{"DC", logoBase + "2025/01/DC.jpeg"},
	{"Honda", logoBase + "2025/02/honda-logo.jpeg"},
	{"Ford", logoBase + "2025/01/brand-5.jpeg"},
}

func models(names ...string) []Option {
	out := make([]Option, len(names))
	for i, n := range names {
		out[i] = Option{Name: n, Image: placeholder}
	}
	return out
}

// modelsByBrand is keyed by lower-cased brand name. Brands without an entry
// accept any model name.
var modelsByBrand = map[string][]Option{
	"mahindra":   models("XUV700", "Thar", "Scorpio", "XUV300"),
	"honda":      models("City", "Amaze", "WR-V", "Jazz"),
	"mercedes":   models("A-Class", "C-Class", "E-Class", "GLA"),
	"toyota":     models("Innova", "Fortuner", "Glanza", "Urban Cruiser"),
	"skoda":      models("Kushaq", "Slavia", "Octavia", "Superb"),
	"volkswagen": models("Taigun", "Virtus", "Polo", "Vento"),
	"isuzu":      models("D-Max", "MU-X", "V-Cross", "Hi-Lander"),
}

// Fuels in display order.
var Fuels = models("Petrol", "Diesel", "CNG", "Electric", "Hybrid", "LPG")

// Models returns the known models for brand, or nil when any model is
// accepted.
func Models(brand string) []Option {
	return slices.Clone(modelsByBrand[strings.ToLower(strings.TrimSpace(brand))])
}

// Find returns the option whose name matches name, ignoring case.
func Find(opts []Option, name string) (Option, bool) {
	name = strings.TrimSpace(name)
	for _, o := range opts {
		if strings.EqualFold(o.Name, name) {
			return o, true
		}
	}
	return Option{}, false
}

// Names returns the option names in order.
func Names(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Name
	}
	return out
}
