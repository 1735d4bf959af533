package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/metrics"
	"github.com/sirupsen/logrus"
)

// Report formats accepted by Save.
const (
	FormatJSON  = "json"
	FormatJUnit = "junit"
	FormatHTML  = "html"
	FormatAll   = "all"
)

// File names written under the reports directory.
const (
	SummaryFile = "summary.json"
	JUnitFile   = "junit.xml"
	HTMLFile    = "report.html"
)

var errUnknownFormat = errors.New("unknown report format")

// Formats lists the values accepted by Save.
func Formats() []string {
	return []string{FormatJSON, FormatJUnit, FormatHTML, FormatAll}
}

// ValidFormat reports whether name is an accepted format.
func ValidFormat(name string) bool {
	for _, f := range Formats() {
		if strings.EqualFold(f, name) {
			return true
		}
	}

	return false
}

// Writer persists rendered reports under Dir, overwriting existing files.
type Writer struct {
	Dir string
	log logrus.FieldLogger
}

// NewWriter creates a report writer for dir.
func NewWriter(log logrus.FieldLogger, dir string) *Writer {
	return &Writer{
		Dir: dir,
		log: log.WithField("component", "report_writer"),
	}
}

// WriteSummary writes summary.json and returns its path.
func (w *Writer) WriteSummary(summary *metrics.Summary) (string, error) {
	return w.write(SummaryFile, summary, RenderJSON)
}

// Save writes the requested formats and returns format to path. JSON is
// rewritten when requested so it carries the final SummaryFile.
func (w *Writer) Save(summary *metrics.Summary, formats []string) (map[string]string, error) {
	wanted, err := expand(formats)
	if err != nil {
		return nil, err
	}

	outputs := make(map[string]string, len(wanted))

	for _, name := range wanted {
		var path string

		switch name {
		case FormatJSON:
			path, err = w.write(SummaryFile, summary, RenderJSON)
		case FormatJUnit:
			path, err = w.write(JUnitFile, summary, RenderJUnit)
		case FormatHTML:
			path, err = w.write(HTMLFile, summary, RenderHTML)
		}

		if err != nil {
			return outputs, err
		}

		outputs[name] = path
	}

	return outputs, nil
}

func (w *Writer) write(file string, summary *metrics.Summary, render func(*metrics.Summary) ([]byte, error)) (string, error) {
	data, err := render(summary)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}

	path := filepath.Join(w.Dir, file)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", file, err)
	}

	w.log.WithField("path", path).Debug("report written")

	return path, nil
}

// expand resolves "all" and removes duplicates while keeping order.
func expand(formats []string) ([]string, error) {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))

	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, f := range formats {
		name := strings.ToLower(strings.TrimSpace(f))

		switch name {
		case FormatAll:
			add(FormatJSON)
			add(FormatJUnit)
			add(FormatHTML)
		case FormatJSON, FormatJUnit, FormatHTML:
			add(name)
		default:
			return nil, fmt.Errorf("%w: %q", errUnknownFormat, f)
		}
	}

	return out, nil
}
