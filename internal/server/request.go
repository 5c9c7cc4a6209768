package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/model"
	"github.com/bitscopic/roi-calculator/internal/pipeline"
	"github.com/bitscopic/roi-calculator/internal/validation"
)

// calculateRequest is the body of /calculate and the base of the other
// POST bodies.
type calculateRequest struct {
	Product    string             `json:"product" validate:"required"`
	Tier       string             `json:"size_tier" validate:"required"`
	Name       string             `json:"organization_name" validate:"max=200"`
	Investment *model.Investment  `json:"investment,omitempty"`
	Parameters map[string]float64 `json:"parameters,omitempty"`
	Baseline   *baseline.Source   `json:"baseline,omitempty"`
}

type sensitivityRequest struct {
	calculateRequest
	Variables []model.SensitivityVariable `json:"variables,omitempty"`
}

type reportRequest struct {
	calculateRequest
	Sensitivity  bool     `json:"sensitivity"`
	IncludeStudy *bool    `json:"include_study,omitempty"`
	Notices      []string `json:"notices,omitempty"`
}

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// toRequest validates the body and converts it to a generation request.
func (c calculateRequest) toRequest() (pipeline.Request, []validation.FieldError) {
	fields := validation.Fields(validation.Struct(c))

	var req pipeline.Request
	if c.Product != "" {
		p, err := model.ParseProduct(c.Product)
		if err != nil {
			fields = append(fields, validation.FieldError{Field: "product", Message: "must be one of [praedialert praedigene]"})
		}
		req.Product = p
	}
	if c.Tier != "" {
		t, err := model.ParseSizeTier(c.Tier)
		if err != nil {
			fields = append(fields, validation.FieldError{Field: "size_tier", Message: "must be one of [small medium large visn21 custom]"})
		}
		req.Tier = t
	}
	for key := range c.Parameters {
		if _, _, err := model.ParseParameterKey(key); err != nil {
			fields = append(fields, validation.FieldError{Field: "parameters." + key, Message: "is not a known module.parameter"})
		}
	}
	if len(fields) > 0 {
		return req, fields
	}

	req.Name = c.Name
	req.Investment = c.Investment
	req.Overrides = c.Parameters
	req.Baseline = c.Baseline
	return req, nil
}

func variableFields(vars []model.SensitivityVariable) []validation.FieldError {
	var out []validation.FieldError
	for i, v := range vars {
		for _, f := range validation.Fields(validation.Struct(v)) {
			f.Field = fmt.Sprintf("variables[%d].%s", i, f.Field)
			out = append(out, f)
		}
	}
	return out
}

// inputFields maps computation errors caused by request values to field
// errors. It returns nil for anything else.
func inputFields(err error) []validation.FieldError {
	var out []validation.FieldError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		var re *model.RangeError
		if errors.As(e, &re) {
			if joined, ok := e.(interface{ Unwrap() []error }); ok {
				for _, inner := range joined.Unwrap() {
					walk(inner)
				}
				return
			}
			out = append(out, validation.FieldError{
				Field:   "parameters." + string(re.Module) + "." + re.Param,
				Message: fmt.Sprintf("must be within [%g, %g]", re.Min, re.Max),
			})
			return
		}
		if errors.Is(e, model.ErrUnknownParameter) {
			out = append(out, validation.FieldError{Field: "parameters", Message: e.Error()})
			return
		}
		for _, f := range validation.Fields(e) {
			f.Field = "baseline." + f.Field
			out = append(out, f)
		}
	}
	walk(err)
	return out
}

func badRequest(w http.ResponseWriter, r *http.Request, fields []validation.FieldError) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorResponse{Error: "invalid request", Fields: fields})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}
