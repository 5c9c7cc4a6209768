package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Product identifies which product line a calculation is for.
type Product string

const (
	ProductPraediAlert Product = "praedialert"
	ProductPraediGene  Product = "praedigene"
)

// ParseProduct normalizes a user-supplied product name.
func ParseProduct(s string) (Product, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "praedialert", "praedi_alert", "alert":
		return ProductPraediAlert, nil
	case "praedigene", "praedi_gene", "gene":
		return ProductPraediGene, nil
	}
	return "", eris.Errorf("model: unknown product %q", s)
}

// Title returns the display name of the product.
func (p Product) Title() string {
	switch p {
	case ProductPraediAlert:
		return "PraediAlert"
	case ProductPraediGene:
		return "PraediGene"
	}
	return string(p)
}

// SizeTier selects a default parameter set.
type SizeTier string

const (
	TierSmall  SizeTier = "small"
	TierMedium SizeTier = "medium"
	TierLarge  SizeTier = "large"
	TierVISN21 SizeTier = "visn21"
	TierCustom SizeTier = "custom"
)

// Tiers lists the tiers that carry a default parameter set.
var Tiers = []SizeTier{TierSmall, TierMedium, TierLarge, TierVISN21}

// ParseSizeTier accepts "medium", "Medium Hospital", "medium_hospital", "VISN21" and similar.
func ParseSizeTier(s string) (SizeTier, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "_", "-", "_").Replace(n)
	n = strings.TrimSuffix(n, "_hospital")
	switch n {
	case "small":
		return TierSmall, nil
	case "medium":
		return TierMedium, nil
	case "large":
		return TierLarge, nil
	case "visn21", "visn_21", "visn21_network":
		return TierVISN21, nil
	case "custom":
		return TierCustom, nil
	}
	return "", eris.Errorf("model: unknown size tier %q", s)
}

// Label returns the display label of the tier.
func (t SizeTier) Label() string {
	switch t {
	case TierSmall:
		return "Small Hospital"
	case TierMedium:
		return "Medium Hospital"
	case TierLarge:
		return "Large Hospital"
	case TierVISN21:
		return "VISN21 Network"
	case TierCustom:
		return "Custom"
	}
	return string(t)
}

// Investment is the annualized cost of deploying a product.
type Investment struct {
	Implementation float64 `json:"implementation_cost" yaml:"implementation_cost" mapstructure:"implementation_cost" validate:"gte=0"`
	Maintenance    float64 `json:"annual_maintenance" yaml:"annual_maintenance" mapstructure:"annual_maintenance" validate:"gte=0"`
	Training       float64 `json:"staff_training" yaml:"staff_training" mapstructure:"staff_training" validate:"gte=0"`
}

// Total returns implementation + maintenance + training.
func (i Investment) Total() float64 {
	return i.Implementation + i.Maintenance + i.Training
}

// OneTime returns the costs that are only paid in the first year.
func (i Investment) OneTime() float64 {
	return i.Implementation + i.Training
}

// OrganizationProfile describes the organization a report is prepared for.
type OrganizationProfile struct {
	Name       string     `json:"name" yaml:"name"`
	Tier       SizeTier   `json:"size_tier" yaml:"size_tier"`
	Investment Investment `json:"investment" yaml:"investment"`
}
