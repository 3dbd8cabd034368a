package catalog

import (
	"slices"
	"strings"
)

// Category mirrors an entry of /api/services/categories/.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Slug        string    `json:"slug,omitempty"`
	Services    []Service `json:"services,omitempty"`
}

// Service is one bookable service. Prices are decimal strings and null when
// the API has none.
type Service struct {
	ID           int64    `json:"id"`
	Header       string   `json:"header"`
	Details      string   `json:"details"`
	PageDetails  string   `json:"pagedetails"`
	DetailsList  []string `json:"details_list"`
	Price        *string  `json:"price"`
	RealPrice    *string  `json:"real_price,omitempty"`
	DisplayPrice *string  `json:"display_price,omitempty"`
	Duration     string   `json:"duration"`
	Image        string   `json:"image"`
	IsFeatured   bool     `json:"is_featured"`
}

// EffectivePrice returns the price to show: display price, then real price,
// then the base price. ok is false when none is set.
func (s Service) EffectivePrice() (string, bool) {
	for _, p := range []*string{s.DisplayPrice, s.RealPrice, s.Price} {
		if p != nil && strings.TrimSpace(*p) != "" {
			return *p, true
		}
	}
	return "", false
}

// FormatPrice renders a decimal price string for display, e.g. "2499.00"
// becomes "₹2499". Fractional paise are kept when non-zero.
func FormatPrice(raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return ""
	}
	if whole, frac, ok := strings.Cut(p, "."); ok && strings.Trim(frac, "0") == "" {
		p = whole
	}
	return "₹" + p
}

// PricingContext reports which car the prices in a response were computed for.
type PricingContext struct {
	Brand          *string `json:"brand"`
	Model          *string `json:"model"`
	HasRealPricing bool    `json:"has_real_pricing"`
}

// ServicesResponse mirrors /api/services/categories/<slug>/.
type ServicesResponse struct {
	Category       Category       `json:"category"`
	Services       []Service      `json:"services"`
	TotalServices  int            `json:"total_services"`
	PricingContext PricingContext `json:"pricing_context"`
}

// Tokens is the login result of /api/otp/verify/.
type Tokens struct {
	Message   string `json:"message,omitempty"`
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	UserID    int64  `json:"user_id"`
	IsNewUser bool   `json:"is_new_user"`
}

type otpRequest struct {
	PhoneNumber string `json:"phone_number"`
	AppHash     string `json:"app_hash,omitempty"`
}

type otpVerify struct {
	PhoneNumber string `json:"phone_number"`
	OTPCode     string `json:"otp_code"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// serviceRank orders packages from most to least inclusive.
func serviceRank(header string) int {
	h := strings.ToLower(header)
	switch {
	case strings.Contains(h, "comprehensive"):
		return 0
	case strings.Contains(h, "standard"):
		return 1
	case strings.Contains(h, "basic"):
		return 2
	default:
		return 3
	}
}

// SortServices returns a copy of services with comprehensive packages first,
// then standard, then basic, then everything else. Order within a rank is
// kept.
func SortServices(services []Service) []Service {
	out := slices.Clone(services)
	slices.SortStableFunc(out, func(a, b Service) int {
		return serviceRank(a.Header) - serviceRank(b.Header)
	})
	return out
}
