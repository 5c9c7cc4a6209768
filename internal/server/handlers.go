package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/bitscopic/roi-calculator/internal/baseline"
	"github.com/bitscopic/roi-calculator/internal/export"
	"github.com/bitscopic/roi-calculator/internal/model"
	"github.com/bitscopic/roi-calculator/internal/pipeline"
	"github.com/bitscopic/roi-calculator/internal/validation"
)

type defaultsResponse struct {
	Product    model.Product                            `json:"product"`
	Tier       model.SizeTier                           `json:"size_tier"`
	Investment model.Investment                         `json:"investment"`
	Parameters map[model.ModuleID][]model.ParameterSpec `json:"parameters"`
	Maturity   []float64                                `json:"maturity"`
}

// defaults handles GET /api/v1/defaults/{product}/{tier}.
func (s *Server) defaults(w http.ResponseWriter, r *http.Request) {
	product, err := model.ParseProduct(chi.URLParam(r, "product"))
	if err != nil {
		badRequest(w, r, []validation.FieldError{{Field: "product", Message: "must be one of [praedialert praedigene]"}})
		return
	}
	tier, err := model.ParseSizeTier(chi.URLParam(r, "tier"))
	if err != nil {
		badRequest(w, r, []validation.FieldError{{Field: "size_tier", Message: "must be one of [small medium large visn21 custom]"}})
		return
	}

	cat := s.gen.Catalog()
	resp := defaultsResponse{
		Product:    product,
		Tier:       tier,
		Investment: cat.Investment(tier),
		Parameters: make(map[model.ModuleID][]model.ParameterSpec),
		Maturity:   cat.Maturity,
	}
	for _, id := range product.Modules() {
		specs, err := cat.Specs(tier, id)
		if err != nil {
			zap.L().Error("server: load defaults", zap.String("module", string(id)), zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "defaults unavailable")
			return
		}
		resp.Parameters[id] = specs
	}
	render.JSON(w, r, resp)
}

// calculate handles POST /api/v1/calculate.
func (s *Server) calculate(w http.ResponseWriter, r *http.Request) {
	var body calculateRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	req, fields := body.toRequest()
	if len(fields) > 0 {
		badRequest(w, r, fields)
		return
	}

	out, err := s.gen.Compute(req)
	if err != nil {
		s.computeFailed(w, r, err)
		return
	}
	render.JSON(w, r, out)
}

type sensitivityResponse struct {
	Result    model.AggregateResult       `json:"result"`
	Scenarios []model.SensitivityScenario `json:"scenarios"`
}

// sensitivity handles POST /api/v1/sensitivity. Without variables the
// default set is analyzed.
func (s *Server) sensitivity(w http.ResponseWriter, r *http.Request) {
	var body sensitivityRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	req, fields := body.toRequest()
	fields = append(fields, variableFields(body.Variables)...)
	if len(fields) > 0 {
		badRequest(w, r, fields)
		return
	}
	req.Sensitivity = true
	req.Variables = body.Variables

	out, err := s.gen.Compute(req)
	if err != nil {
		s.computeFailed(w, r, err)
		return
	}
	render.JSON(w, r, sensitivityResponse{Result: out.Result, Scenarios: out.Sensitivity})
}

// report handles POST /api/v1/report?format=. The body is written only
// after the export has fully rendered.
func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	format := export.FormatXLSX
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := export.ParseFormat(q)
		if err != nil {
			badRequest(w, r, []validation.FieldError{{Field: "format", Message: "must be one of [" + formatList(s.gen.Registry()) + "]"}})
			return
		}
		format = f
	}
	if _, err := s.gen.Registry().For(format); err != nil {
		badRequest(w, r, []validation.FieldError{{Field: "format", Message: "must be one of [" + formatList(s.gen.Registry()) + "]"}})
		return
	}

	var body reportRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	req, fields := body.toRequest()
	if len(fields) > 0 {
		badRequest(w, r, fields)
		return
	}
	req.Sensitivity = body.Sensitivity
	req.Notices = body.Notices
	req.IncludeStudy = s.study
	if body.IncludeStudy != nil {
		req.IncludeStudy = *body.IncludeStudy
	}
	req.Format = format

	out, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		var perr *pipeline.Error
		if errors.As(err, &perr) && perr.State == pipeline.StateCompiled {
			s.metrics.RecordExport(string(format), err)
			zap.L().Error("server: export failed", zap.String("format", string(format)), zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "export failed: "+perr.Reason)
			return
		}
		s.computeFailed(w, r, err)
		return
	}
	s.metrics.RecordExport(string(format), nil)

	name := fmt.Sprintf("%s-%s-roi-report.%s", req.Product, req.Tier, format)
	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Data); err != nil {
		zap.L().Warn("server: write report", zap.Error(err))
	}
}

type uploadResponse struct {
	File       string        `json:"file"`
	Kind       baseline.Kind `json:"kind"`
	Records    int           `json:"records"`
	Facilities []string      `json:"facilities"`
	HaiTypes   []string      `json:"hai_types,omitempty"`
}

// validateUpload handles POST /api/v1/uploads/validate with a multipart
// "file" and optional "kind" and "facility" fields.
func (s *Server) validateUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		badRequest(w, r, []validation.FieldError{{Field: "file", Message: "is required"}})
		return
	}
	defer file.Close()

	var kind baseline.Kind
	if k := r.FormValue("kind"); k != "" {
		if kind, err = baseline.ParseKind(k); err != nil {
			badRequest(w, r, []validation.FieldError{{Field: "kind", Message: "must be one of [bed_days hai_rates antibiotic_dot]"}})
			return
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unreadable upload")
		return
	}

	src, kind, err := baseline.LoadUpload(hdr.Filename, data, kind, baseline.ParseOptions{Facility: r.FormValue("facility")})
	if err != nil {
		var uerr *baseline.UploadError
		if errors.As(err, &uerr) {
			fields := make([]validation.FieldError, 0, len(uerr.Missing))
			for _, col := range uerr.Missing {
				fields = append(fields, validation.FieldError{Field: col, Message: "column is required"})
			}
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, errorResponse{Error: uerr.Error(), Fields: fields})
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	render.JSON(w, r, uploadResponse{
		File:       hdr.Filename,
		Kind:       kind,
		Records:    len(src.BedDays) + len(src.HaiRates) + len(src.AntibioticDot),
		Facilities: src.Facilities(),
		HaiTypes:   src.HaiTypes(),
	})
}

// computeFailed answers a failed calculation: 400 when request values
// caused it, 500 otherwise.
func (s *Server) computeFailed(w http.ResponseWriter, r *http.Request, err error) {
	if fields := inputFields(err); len(fields) > 0 {
		badRequest(w, r, fields)
		return
	}
	if r.Context().Err() != nil {
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
		return
	}
	zap.L().Error("server: calculation failed", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "calculation failed")
}

func formatList(reg *export.Registry) string {
	formats := reg.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, " ")
}
