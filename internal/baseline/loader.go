package baseline

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Files names the upload for each record type. Empty names are skipped.
type Files struct {
	BedDays       string `yaml:"bed_days_file" mapstructure:"bed_days_file"`
	HaiRates      string `yaml:"hai_rates_file" mapstructure:"hai_rates_file"`
	AntibioticDot string `yaml:"antibiotic_dot_file" mapstructure:"antibiotic_dot_file"`
}

// DefaultFiles returns the file names of the bundled VISN21 sample set.
func DefaultFiles() Files {
	return Files{
		BedDays:       "visn21_patient_bed_days.csv",
		HaiRates:      "visn21_hai_rates.csv",
		AntibioticDot: "visn21_antibiotic_dot.csv",
	}
}

func (f Files) byKind() []struct {
	kind Kind
	name string
} {
	return []struct {
		kind Kind
		name string
	}{
		{KindBedDays, f.BedDays},
		{KindHaiRates, f.HaiRates},
		{KindAntibioticDot, f.AntibioticDot},
	}
}

// Notice is an informational message produced while loading.
type Notice struct {
	Kind    Kind   `json:"kind"`
	File    string `json:"file"`
	Message string `json:"message"`
}

// LoadResult is the outcome of loading baseline files. Source is nil when
// nothing usable was loaded, in which case calculations use defaults.
type LoadResult struct {
	Source   *Source        `json:"source,omitempty"`
	Notices  []Notice       `json:"notices,omitempty"`
	Rejected []*UploadError `json:"-"`
}

// UsingDefaults reports whether no baseline data was loaded.
func (r LoadResult) UsingDefaults() bool {
	return r.Source.Empty()
}

// Messages returns notices and rejections as display strings.
func (r LoadResult) Messages() []string {
	out := make([]string, 0, len(r.Notices)+len(r.Rejected))
	for _, n := range r.Notices {
		out = append(out, n.Message)
	}
	for _, e := range r.Rejected {
		out = append(out, e.Error())
	}
	return out
}

// LoadDir loads the named files from dir. Missing or unreadable files
// become notices; malformed files are rejected. It never fails.
func LoadDir(dir string, files Files) LoadResult {
	var res LoadResult
	var loaded []*Source

	for _, f := range files.byKind() {
		if f.name == "" {
			continue
		}
		path := f.name
		if dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			res.Notices = append(res.Notices, Notice{
				Kind:    f.kind,
				File:    path,
				Message: f.kind.Label() + " file not found; using default parameters",
			})
			continue
		}

		src, err := loadFile(path, f.kind)
		if err != nil {
			var upErr *UploadError
			switch {
			case errors.As(err, &upErr):
				zap.L().Warn("baseline: upload rejected",
					zap.String("file", path),
					zap.String("kind", string(f.kind)),
					zap.Strings("missing", upErr.Missing),
					zap.String("reason", upErr.Reason),
				)
				res.Rejected = append(res.Rejected, upErr)
				res.Notices = append(res.Notices, Notice{
					Kind:    f.kind,
					File:    path,
					Message: f.kind.Label() + " upload rejected; using default parameters",
				})
			default:
				zap.L().Warn("baseline: unreadable file", zap.String("file", path), zap.Error(err))
				res.Notices = append(res.Notices, Notice{
					Kind:    f.kind,
					File:    path,
					Message: f.kind.Label() + " file could not be read; using default parameters",
				})
			}
			continue
		}

		zap.L().Debug("baseline: loaded file",
			zap.String("file", path),
			zap.String("kind", string(f.kind)),
		)
		res.Notices = append(res.Notices, Notice{Kind: f.kind, File: path, Message: "Loaded " + f.kind.Label()})
		loaded = append(loaded, src)
	}

	res.Source = Merge(loaded...)
	return res
}

func loadFile(path string, kind Kind) (*Source, error) {
	t, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(kind, filepath.Base(path), t, ParseOptions{})
}

// LoadUpload parses one uploaded file. When kind is empty the kind is
// detected from the header. Uploads of a kind that does not feed
// calculations are rejected.
func LoadUpload(name string, data []byte, kind Kind, opts ParseOptions) (*Source, Kind, error) {
	t, err := ReadBytes(name, data)
	if err != nil {
		return nil, kind, err
	}
	if len(t.Header) == 0 {
		return nil, kind, &UploadError{Kind: kind, File: name, Reason: "file is empty"}
	}
	if kind == "" {
		kind = DetectKind(t.Header)
	}
	switch kind {
	case KindBedDays, KindHaiRates, KindAntibioticDot:
	default:
		return nil, kind, &UploadError{Kind: kind, File: name, Reason: "unrecognized columns; expected bed days, HAI rates or antibiotic DOT"}
	}

	src, err := Parse(kind, name, t, opts)
	if err != nil {
		return nil, kind, err
	}
	return src, kind, nil
}

// LoadUploadFile is LoadUpload for a file on disk.
func LoadUploadFile(path string, kind Kind, opts ParseOptions) (*Source, Kind, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, kind, eris.Wrapf(err, "baseline: read %s", path)
	}
	return LoadUpload(filepath.Base(path), data, kind, opts)
}
