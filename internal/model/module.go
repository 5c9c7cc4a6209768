package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ModuleID identifies a calculator module.
type ModuleID string

const (
	ModuleIPCSurveillance          ModuleID = "ipc_surveillance"
	ModuleAntimicrobialStewardship ModuleID = "antimicrobial_stewardship"
	ModuleRegulatoryReporting      ModuleID = "regulatory_reporting"
	ModulePGx                      ModuleID = "pgx"
	ModuleTSO500                   ModuleID = "tso500"
	ModuleBIAS2015                 ModuleID = "bias2015"
	ModuleCytogenetics             ModuleID = "cytogenetics"
)

var moduleOrder = []ModuleID{
	ModuleIPCSurveillance,
	ModuleAntimicrobialStewardship,
	ModuleRegulatoryReporting,
	ModulePGx,
	ModuleTSO500,
	ModuleBIAS2015,
	ModuleCytogenetics,
}

// Modules returns the modules that make up a product, in report order.
func (p Product) Modules() []ModuleID {
	switch p {
	case ProductPraediAlert:
		return []ModuleID{ModuleIPCSurveillance, ModuleAntimicrobialStewardship, ModuleRegulatoryReporting}
	case ProductPraediGene:
		return []ModuleID{ModulePGx, ModuleTSO500, ModuleBIAS2015, ModuleCytogenetics}
	}
	return nil
}

// ParseModuleID accepts canonical IDs and a few display spellings.
func ParseModuleID(s string) (ModuleID, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "_", "-", "_").Replace(n)
	switch n {
	case "ipc", "ipc_surveillance":
		return ModuleIPCSurveillance, nil
	case "antimicrobial", "antimicrobial_stewardship", "stewardship":
		return ModuleAntimicrobialStewardship, nil
	case "regulatory", "regulatory_reporting":
		return ModuleRegulatoryReporting, nil
	case "pgx", "pharmacogenomics":
		return ModulePGx, nil
	case "tso500", "tso_500":
		return ModuleTSO500, nil
	case "bias2015", "bias_2015":
		return ModuleBIAS2015, nil
	case "cytogenetics", "cyto":
		return ModuleCytogenetics, nil
	}
	return "", eris.Errorf("model: unknown module %q", s)
}

// Product returns the product the module belongs to.
func (m ModuleID) Product() Product {
	switch m {
	case ModuleIPCSurveillance, ModuleAntimicrobialStewardship, ModuleRegulatoryReporting:
		return ProductPraediAlert
	case ModulePGx, ModuleTSO500, ModuleBIAS2015, ModuleCytogenetics:
		return ProductPraediGene
	}
	return ""
}

// Title returns the display name, also used as the workbook sheet name.
func (m ModuleID) Title() string {
	switch m {
	case ModuleIPCSurveillance:
		return "IPC Surveillance"
	case ModuleAntimicrobialStewardship:
		return "Antimicrobial Stewardship"
	case ModuleRegulatoryReporting:
		return "Regulatory Reporting"
	case ModulePGx:
		return "Pharmacogenomics"
	case ModuleTSO500:
		return "TSO500 Genomic Profiling"
	case ModuleBIAS2015:
		return "BIAS2015 Analysis"
	case ModuleCytogenetics:
		return "Cytogenetics"
	}
	return string(m)
}

func (m ModuleID) order() int {
	for i, id := range moduleOrder {
		if id == m {
			return i
		}
	}
	return len(moduleOrder)
}
