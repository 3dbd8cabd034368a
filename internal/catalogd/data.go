package catalogd

import (
	"slices"
	"strings"

	"github.com/onlybigcars/carbook/internal/catalog"
)

// Price is one row of the price sheet. An empty Model (or "generic") applies
// to every model of the brand.
type Price struct {
	Brand           string
	Model           string
	ProductName     string
	DiscountedPrice string
}

// Catalog is the in-memory data set served by the dev API.
type Catalog struct {
	Categories []catalog.Category
	Prices     []Price
}

func strp(s string) *string { return &s }

// DefaultCatalog returns a small seed data set.
func DefaultCatalog() Catalog {
	return Catalog{
		Categories: []catalog.Category{
			{
				ID: 1, Name: "Car Service", Slug: "car-service", Icon: "car",
				Description: "Periodic maintenance packages",
				Services: []catalog.Service{
					{ID: 1, Header: "Basic Service", Details: "Engine Oil, Oil Filter, Car Wash", Price: strp("2499.00"), Duration: "4 hrs"},
					{ID: 2, Header: "Standard Service", Details: "Engine Oil, Oil Filter, Air Filter, Car Wash, Coolant Top-up", Price: strp("3999.00"), Duration: "6 hrs"},
					{ID: 3, Header: "Comprehensive Service", Details: "Engine Oil, All Filters, Brake Service, AC Check, Car Wash, Interior Cleaning", Price: strp("5999.00"), Duration: "8 hrs", IsFeatured: true},
				},
			},
			{
				ID: 2, Name: "AC Service", Slug: "ac-service", Icon: "snowflake",
				Description: "Cooling system care",
				Services: []catalog.Service{
					{ID: 4, Header: "AC Gas Refill", Details: "Gas Top-up, Leak Test", Price: strp("1999.00"), Duration: "2 hrs"},
					{ID: 5, Header: "AC Comprehensive Service", Details: "Gas Refill, Condenser Cleaning, Cabin Filter", Price: strp("3499.00"), Duration: "4 hrs"},
				},
			},
			{
				ID: 3, Name: "Denting Painting", Slug: "denting-painting", Icon: "brush",
				Description: "Bodywork and paint",
				Services: []catalog.Service{
					{ID: 6, Header: "Bumper Paint", Details: "Front or Rear Bumper", Price: nil, Duration: "1 day"},
				},
			},
		},
		Prices: []Price{
			{Brand: "Honda", Model: "City", ProductName: "Honda City Basic Service", DiscountedPrice: "2799.00"},
			{Brand: "Honda", Model: "City", ProductName: "Honda City Comprehensive Service", DiscountedPrice: "6499.00"},
			{Brand: "Honda", ProductName: "Honda Standard Service", DiscountedPrice: "4299.00"},
			{Brand: "Mercedes", Model: "generic", ProductName: "Mercedes Basic Service", DiscountedPrice: "8999.00"},
			{Brand: "Toyota", Model: "Fortuner", ProductName: "Fortuner AC Gas Refill", DiscountedPrice: "2599.00"},
		},
	}
}

// findCategory matches by slug, then by name with dashes read as spaces.
func (c Catalog) findCategory(ident string) (catalog.Category, bool) {
	for _, cat := range c.Categories {
		if cat.Slug == ident {
			return cat, true
		}
	}
	name := strings.ReplaceAll(ident, "-", " ")
	for _, cat := range c.Categories {
		if strings.EqualFold(cat.Name, name) {
			return cat, true
		}
	}
	return catalog.Category{}, false
}

// realPrice returns the model-specific price for header, else the
// brand-generic one.
func (c Catalog) realPrice(brand, model, header string) (string, bool) {
	h := strings.ToLower(header)
	matches := func(p Price) bool {
		return strings.EqualFold(p.Brand, brand) && strings.Contains(strings.ToLower(p.ProductName), h)
	}
	for _, p := range c.Prices {
		if matches(p) && p.Model != "" && strings.EqualFold(p.Model, model) {
			return p.DiscountedPrice, true
		}
	}
	for _, p := range c.Prices {
		if matches(p) && (p.Model == "" || strings.EqualFold(p.Model, "generic")) {
			return p.DiscountedPrice, true
		}
	}
	return "", false
}

// services prices cat for brand/model. Featured services come first.
func (c Catalog) services(cat catalog.Category, brand, model string) []catalog.Service {
	out := make([]catalog.Service, 0, len(cat.Services))
	priced := brand != "" && model != ""
	for _, s := range cat.Services {
		s.DetailsList = detailsList(s.Details)
		s.RealPrice = nil
		s.DisplayPrice = s.Price
		if priced {
			if p, ok := c.realPrice(brand, model, s.Header); ok {
				s.RealPrice = strp(p)
				s.DisplayPrice = s.RealPrice
			}
		}
		out = append(out, s)
	}
	slices.SortStableFunc(out, func(a, b catalog.Service) int {
		switch {
		case a.IsFeatured == b.IsFeatured:
			return 0
		case a.IsFeatured:
			return -1
		default:
			return 1
		}
	})
	return out
}

func detailsList(details string) []string {
	var out []string
	for _, d := range strings.Split(details, ",") {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
