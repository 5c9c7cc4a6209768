package baseline

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/bitscopic/roi-calculator/internal/validation"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func createTestXLSX(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

const haiCSV = `facility,hai_type,rolling_12_months_rate,unit_of_measure
Hospital A,CDI,4.0,per 10000 patient days
Hospital B,cdi,5.0,per 10000 patient days
Hospital A,CLABSI,0.9,per 1000 line days
`

func TestParseHaiRates(t *testing.T) {
	t.Parallel()
	tbl, err := ReadBytes("hai.csv", []byte(haiCSV))
	require.NoError(t, err)

	src, err := Parse(KindHaiRates, "hai.csv", tbl, ParseOptions{})
	require.NoError(t, err)
	require.Len(t, src.HaiRates, 3)
	assert.Equal(t, "CDI", src.HaiRates[1].HaiType)
	assert.Equal(t, []string{"CDI", "CLABSI"}, src.HaiTypes())

	rate, ok := src.MeanHaiRate("CDI")
	require.True(t, ok)
	assert.InDelta(t, 4.5, rate, 0.0001)

	rate, ok = src.MeanHaiRate("SSI")
	require.True(t, ok)
	assert.InDelta(t, (4.0+5.0+0.9)/3, rate, 0.0001, "falls back to all records")
}

func TestParseMissingColumns(t *testing.T) {
	t.Parallel()
	tbl, err := ReadBytes("hai.csv", []byte("facility,hai_type\nHospital A,CDI\n"))
	require.NoError(t, err)

	_, err = Parse(KindHaiRates, "hai.csv", tbl, ParseOptions{})
	require.Error(t, err)

	var upErr *UploadError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, KindHaiRates, upErr.Kind)
	assert.Equal(t, []string{"rolling_12_months_rate", "unit_of_measure"}, upErr.Missing)
	assert.Contains(t, err.Error(), "missing columns: rolling_12_months_rate, unit_of_measure")
}

func TestParseBadCells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		kind   Kind
		csv    string
		reason string
		row    int
	}{
		{
			name:   "non numeric",
			kind:   KindBedDays,
			csv:    "facility,bed_days_annual\nA,100\nB,lots\n",
			reason: `"lots" is not a number`,
			row:    3,
		},
		{
			name:   "negative",
			kind:   KindBedDays,
			csv:    "facility,bed_days_annual\nA,-5\n",
			reason: "bed_days_annual: must be >= 0",
			row:    2,
		},
		{
			name:   "missing facility",
			kind:   KindAntibioticDot,
			csv:    "facility,quarter,year,dot_per_1000_days\n,Q1,2024,350\n",
			reason: "facility: is required",
			row:    2,
		},
		{
			name:   "empty number",
			kind:   KindAntibioticDot,
			csv:    "facility,quarter,year,dot_per_1000_days\nA,Q1,,350\n",
			reason: "year is empty",
			row:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tbl, err := ReadBytes("up.csv", []byte(tt.csv))
			require.NoError(t, err)

			_, err = Parse(tt.kind, "up.csv", tbl, ParseOptions{})
			var upErr *UploadError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, tt.row, upErr.Row)
			assert.Contains(t, upErr.Reason, tt.reason)
		})
	}
}

func TestParseFillsFacility(t *testing.T) {
	t.Parallel()
	tbl, err := ReadBytes("dot.csv", []byte("facility,quarter,year,dot_per_1000_days\n,q2,2024,400.5\n"))
	require.NoError(t, err)

	src, err := Parse(KindAntibioticDot, "dot.csv", tbl, ParseOptions{Facility: "Palo Alto"})
	require.NoError(t, err)
	require.Len(t, src.AntibioticDot, 1)
	assert.Equal(t, AntibioticDotRecord{Facility: "Palo Alto", Quarter: "Q2", Year: 2024, DotPer1000Days: 400.5}, src.AntibioticDot[0])
}

func TestReadBytesXLSX(t *testing.T) {
	t.Parallel()
	data := createTestXLSX(t, [][]string{
		{"Facility", " bed_days_annual "},
		{"Hospital A", "50,000"},
		{"", ""},
		{"Hospital B", "75000"},
	})

	src, kind, err := LoadUpload("beds.xlsx", data, "", ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, KindBedDays, kind)
	total, ok := src.TotalBedDays()
	require.True(t, ok)
	assert.InDelta(t, 125000, total, 0.001)
}

func TestReadBytesUnsupported(t *testing.T) {
	t.Parallel()
	_, err := ReadBytes("report.pdf", []byte("%PDF"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestLoadUploadRejectsGeneric(t *testing.T) {
	t.Parallel()
	_, kind, err := LoadUpload("misc.csv", []byte("a,b\n1,2\n"), "", ParseOptions{})
	assert.Equal(t, KindGeneric, kind)
	var upErr *UploadError
	require.True(t, errors.As(err, &upErr))
}

func TestDetectKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		header []string
		want   Kind
	}{
		{[]string{"facility", "hai_type", "rate"}, KindHaiRates},
		{[]string{"Infection_Rate"}, KindHaiRates},
		{[]string{"facility", "DOT_per_1000_days"}, KindAntibioticDot},
		{[]string{"antibiotic", "count"}, KindAntibioticDot},
		{[]string{"facility", "bed_days_annual"}, KindBedDays},
		{[]string{"patient_days"}, KindBedDays},
		{[]string{"\ufefftest_volume"}, KindGeneticTests},
		{[]string{"foo", "bar"}, KindGeneric},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectKind(tt.header), "%v", tt.header)
	}
}

func TestLoadDirMissingFiles(t *testing.T) {
	t.Parallel()
	res := LoadDir(t.TempDir(), DefaultFiles())

	assert.Nil(t, res.Source)
	assert.True(t, res.UsingDefaults())
	require.Len(t, res.Notices, 3)
	assert.Contains(t, res.Notices[0].Message, "not found")
	assert.Empty(t, res.Rejected)
}

func TestLoadDirRejectsMalformedAndKeepsOthers(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "beds.csv", "facility,bed_days_annual\nA,40000\nB,60000\n")
	writeFile(t, dir, "hai.csv", "facility,hai_type,unit_of_measure\nA,CDI,per 10000\n")

	res := LoadDir(dir, Files{BedDays: "beds.csv", HaiRates: "hai.csv"})

	require.NotNil(t, res.Source)
	total, ok := res.Source.TotalBedDays()
	require.True(t, ok)
	assert.InDelta(t, 100000, total, 0.001)
	assert.Empty(t, res.Source.HaiRates)

	require.Len(t, res.Rejected, 1)
	assert.Equal(t, []string{"rolling_12_months_rate"}, res.Rejected[0].Missing)
	assert.Len(t, res.Messages(), 3)
}

func TestMergeFacilities(t *testing.T) {
	t.Parallel()
	merged := MergeFacilities(map[string]*Source{
		"Long Beach": {HaiRates: []HaiRateRecord{{Facility: "x", HaiType: "CDI", Rolling12MoRate: 3}}},
		"Fresno":     {AntibioticDot: []AntibioticDotRecord{{Facility: "", Quarter: "Q1", Year: 2024, DotPer1000Days: 300}}},
		"Empty":      nil,
	})

	require.NotNil(t, merged)
	assert.Equal(t, "Long Beach", merged.HaiRates[0].Facility)
	assert.Equal(t, "Fresno", merged.AntibioticDot[0].Facility)
	assert.Equal(t, []string{"Fresno", "Long Beach"}, merged.Facilities())

	assert.Nil(t, Merge(nil, &Source{}))
}

func TestNilSourceAccessors(t *testing.T) {
	t.Parallel()
	var src *Source
	assert.True(t, src.Empty())
	_, ok := src.TotalBedDays()
	assert.False(t, ok)
	_, ok = src.MeanHaiRate("CDI")
	assert.False(t, ok)
	_, ok = src.MeanDotPer1000()
	assert.False(t, ok)
	assert.Nil(t, src.Facilities())
}

func TestTemplateParsesBack(t *testing.T) {
	t.Parallel()
	for _, kind := range Kinds {
		var buf bytes.Buffer
		require.NoError(t, WriteTemplate(&buf, kind))

		src, got, err := LoadUpload("template.csv", buf.Bytes(), "", ParseOptions{})
		require.NoError(t, err, kind)
		assert.Equal(t, kind, got)
		assert.False(t, src.Empty())
	}

	_, err := Template(KindGeneric)
	assert.Error(t, err)
}

func TestSourceValidate(t *testing.T) {
	t.Parallel()

	var nilSrc *Source
	require.NoError(t, nilSrc.Validate())

	good := &Source{
		BedDays:  []FacilityBedDays{{Facility: "Palo Alto", AnnualBedDays: 50000}},
		HaiRates: []HaiRateRecord{{Facility: "Palo Alto", HaiType: "CLABSI", Rolling12MoRate: 0.6}},
	}
	require.NoError(t, good.Validate())

	bad := &Source{
		BedDays:       []FacilityBedDays{{Facility: "Palo Alto", AnnualBedDays: -600000}},
		HaiRates:      []HaiRateRecord{{Rolling12MoRate: -4.2}},
		AntibioticDot: []AntibioticDotRecord{{Facility: "Palo Alto", Quarter: "Q1", Year: 2024, DotPer1000Days: 400}},
	}
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bed_days[0].bed_days_annual")

	var fields []string
	for _, f := range validation.Fields(err) {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{
		"bed_days[0].bed_days_annual",
		"hai_rates[0].facility",
		"hai_rates[0].hai_type",
		"hai_rates[0].rolling_12_months_rate",
	}, fields)
}
