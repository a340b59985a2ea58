// Package export writes a computed dashboard to JSON, YAML, CSV and PNG chart files.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
	"gopkg.in/yaml.v3"

	"github.com/j-veylop/bikeshare-dashboard-tui/internal/models"
)

// Format is an export file format.
type Format string

// Supported formats, in the order the dashboard cycles through them.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatPNG  Format = "png"
)

// Formats lists every supported format in cycle order.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV, FormatPNG}

// ErrNothingToExport is returned when there is no computed dashboard.
var ErrNothingToExport = errors.New("nothing to export")

// Next returns the format after f in cycle order.
func (f Format) Next() Format {
	for i, candidate := range Formats {
		if candidate == f {
			return Formats[(i+1)%len(Formats)]
		}
	}
	return Formats[0]
}

// ParseFormat converts a name such as "yml" or "JSON" into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Exporter writes dashboards into a directory with time-stamped file names.
type Exporter struct {
	dir   string
	clock clockwork.Clock
}

// New creates an exporter writing into dir.
func New(dir string, clock clockwork.Clock) *Exporter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Exporter{dir: dir, clock: clock}
}

// Dir returns the output directory.
func (e *Exporter) Dir() string {
	return e.dir
}

// Write exports d in the given format and returns the files it created.
func (e *Exporter) Write(format Format, d *models.Dashboard) ([]string, error) {
	if d == nil {
		return nil, ErrNothingToExport
	}
	if err := os.MkdirAll(e.dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	stem := "bikeshare-" + e.clock.Now().Format("20060102-150405")

	switch format {
	case FormatJSON:
		path := filepath.Join(e.dir, stem+".json")
		return []string{path}, writeFile(path, func(w io.Writer) error { return WriteJSON(w, d) })
	case FormatYAML:
		path := filepath.Join(e.dir, stem+".yaml")
		return []string{path}, writeFile(path, func(w io.Writer) error { return WriteYAML(w, d) })
	case FormatCSV:
		path := filepath.Join(e.dir, stem+".csv")
		return []string{path}, writeFile(path, func(w io.Writer) error { return WriteCSV(w, d) })
	case FormatPNG:
		return WritePNGCharts(e.dir, stem, d)
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path) // #nosec G304 -- path is built from the configured export dir
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteJSON writes the dashboard, filters included, as indented JSON.
func WriteJSON(w io.Writer, d *models.Dashboard) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

type yamlFilters struct {
	Start   string   `yaml:"start"`
	End     string   `yaml:"end"`
	Weather []string `yaml:"weather"`
	Seasons []string `yaml:"seasons"`
	Tiers   []string `yaml:"tiers"`
}

type yamlReport struct {
	Filters          yamlFilters `yaml:"filters"`
	models.Dashboard `yaml:",inline"`
}

// WriteYAML writes the dashboard as a YAML document.
func WriteYAML(w io.Writer, d *models.Dashboard) error {
	report := yamlReport{
		Filters: yamlFilters{
			Start:   d.Spec.Start.Format(models.DateLayout),
			End:     d.Spec.End.Format(models.DateLayout),
			Weather: d.Spec.Weather,
			Seasons: d.Spec.Seasons,
		},
		Dashboard: *d,
	}
	for _, t := range d.Spec.Tiers {
		report.Filters.Tiers = append(report.Filters.Tiers, t.String())
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
