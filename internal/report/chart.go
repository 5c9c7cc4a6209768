package report

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ChartType names a visualization.
type ChartType string

// Supported chart types.
const (
	ChartBar     ChartType = "bar"
	ChartPie     ChartType = "pie"
	ChartLine    ChartType = "line"
	ChartTornado ChartType = "tornado"
	ChartGrouped ChartType = "grouped_bar"
)

// Series is one named run of labeled values.
type Series struct {
	Name   string
	Labels []string
	Values []float64
}

// ChartRequest describes a chart without rendering it.
type ChartRequest struct {
	Type   ChartType
	Title  string
	Series []Series
}

// Image is an opaque handle to a rendered chart.
type Image struct {
	ID        string
	MediaType string
	Ref       string
	Data      []byte
}

// ChartRenderer resolves chart requests into images.
type ChartRenderer interface {
	Render(ctx context.Context, req ChartRequest) (Image, error)
}

// PlaceholderRenderer returns image handles without pixel data. It lets
// text renditions reference charts by name.
type PlaceholderRenderer struct{}

// Render implements ChartRenderer.
func (PlaceholderRenderer) Render(_ context.Context, req ChartRequest) (Image, error) {
	return Image{
		ID:        uuid.New().String(),
		MediaType: "application/vnd.roi.chart-placeholder",
		Ref:       "chart:" + Slug(req.Title),
	}, nil
}

// Slug lowercases s and joins its alphanumeric runs with dashes.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
