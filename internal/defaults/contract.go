package defaults

// ContractYear is one priced year of a multi-year contract.
type ContractYear struct {
	Label string  `json:"label" yaml:"label"`
	Cost  float64 `json:"cost" yaml:"cost"`
}

// ContractQuote is a base year plus option years for a hospital network.
type ContractQuote struct {
	Network      string         `json:"network" yaml:"network"`
	Hospitals    int            `json:"hospitals" yaml:"hospitals"`
	License      float64        `json:"license" yaml:"license"`
	Training     float64        `json:"training" yaml:"training"`
	Installation float64        `json:"installation" yaml:"installation"`
	OptionYears  []ContractYear `json:"option_years" yaml:"option_years"`
}

// BaseYear returns license + training + installation.
func (q ContractQuote) BaseYear() float64 {
	return q.License + q.Training + q.Installation
}

// Years returns the base year followed by every option year.
func (q ContractQuote) Years() []ContractYear {
	out := make([]ContractYear, 0, len(q.OptionYears)+1)
	out = append(out, ContractYear{Label: "Base Year", Cost: q.BaseYear()})
	return append(out, q.OptionYears...)
}

// Total returns the cost of the base year and all option years.
func (q ContractQuote) Total() float64 {
	var total float64
	for _, y := range q.Years() {
		total += y.Cost
	}
	return total
}

// VISN21Contract returns the VA VISN 21 network quote.
func VISN21Contract() ContractQuote {
	return ContractQuote{
		Network:      "VISN21",
		Hospitals:    7,
		License:      1350000,
		Training:     35000,
		Installation: 50000,
		OptionYears: []ContractYear{
			{Label: "Option Year 1", Cost: 1390500},
			{Label: "Option Year 2", Cost: 1432215},
			{Label: "Option Year 3", Cost: 1475181},
			{Label: "Option Year 4", Cost: 1519437},
		},
	}
}
