// Package testdef provides declarative check loading and validation.
// Check definitions specify what endpoint to probe and what to expect from it
// as opposed to how to run them (see testcfg.TestConfig for execution parameters).
package testdef

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	errCheckNameRequired   = errors.New("check name is required")
	errCheckPathRequired   = errors.New("check path is required")
	errCheckInvalidMethod  = errors.New("check has invalid method")
	errCheckInvalidStatus  = errors.New("check has invalid expect_status")
	errCheckDuplicateName  = errors.New("check name is duplicated")
	errCheckEmptyContains  = errors.New("check has empty contains entry")
	errNoChecksDefined     = errors.New("no checks defined")
	errChecksPathIsMissing = errors.New("checks path does not exist")
)

// DefaultExpectStatus is used when a check omits expect_status.
const DefaultExpectStatus = http.StatusOK

// File is the top-level layout of a checks file.
type File struct {
	Checks []*CheckDefinition `yaml:"checks"`
}

// CheckDefinition describes a single declarative HTTP check.
type CheckDefinition struct {
	Name         string      `yaml:"name"`
	Method       string      `yaml:"method"`
	Path         string      `yaml:"path"`
	Body         interface{} `yaml:"body,omitempty"`
	ExpectStatus int         `yaml:"expect_status"`
	Contains     []string    `yaml:"contains,omitempty"`
	Tags         []string    `yaml:"tags,omitempty"`
}

// Loader loads check definition files.
type Loader interface {
	// Load reads a single YAML file, or every *.yaml / *.yml file when path is a directory.
	Load(path string) ([]*CheckDefinition, error)
}

type loader struct {
	log logrus.FieldLogger
}

// NewLoader creates a new check definition loader.
func NewLoader(log logrus.FieldLogger) Loader {
	return &loader{
		log: log.WithField("component", "testdef_loader"),
	}
}

func (l *loader) Load(path string) ([]*CheckDefinition, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errChecksPathIsMissing, path)
		}

		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	var files []string

	if info.IsDir() {
		files, err = l.listDir(path)
		if err != nil {
			return nil, err
		}
	} else {
		files = []string{path}
	}

	var (
		checks = make([]*CheckDefinition, 0)
		seen   = make(map[string]string)
	)

	for _, file := range files {
		l.log.WithField("path", file).Debug("loading check definitions")

		loaded, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("loading checks from %s: %w", file, err)
		}

		for _, check := range loaded {
			if prev, ok := seen[check.Name]; ok {
				return nil, fmt.Errorf("%w: %q in %s and %s", errCheckDuplicateName, check.Name, prev, file)
			}

			seen[check.Name] = file
			checks = append(checks, check)
		}
	}

	if len(checks) == 0 {
		return nil, fmt.Errorf("%w in %s", errNoChecksDefined, path)
	}

	return checks, nil
}

func (l *loader) listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	files := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}

		files = append(files, filepath.Join(dir, name))
	}

	return files, nil
}

// loadFile reads, parses and validates a YAML checks file
func (l *loader) loadFile(path string) ([]*CheckDefinition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Reading check definitions from operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	for i, check := range file.Checks {
		if check == nil {
			return nil, fmt.Errorf("%w at index %d", errCheckNameRequired, i)
		}

		applyDefaults(check)

		if err := validateCheck(check); err != nil {
			return nil, fmt.Errorf("check %d: %w", i, err)
		}
	}

	return file.Checks, nil
}

func applyDefaults(check *CheckDefinition) {
	check.Method = strings.ToUpper(strings.TrimSpace(check.Method))
	if check.Method == "" {
		check.Method = http.MethodGet
	}

	if check.ExpectStatus == 0 {
		check.ExpectStatus = DefaultExpectStatus
	}

	if check.Path != "" && !strings.HasPrefix(check.Path, "/") && !strings.Contains(check.Path, "://") {
		check.Path = "/" + check.Path
	}
}

func validateCheck(check *CheckDefinition) error {
	if check.Name == "" {
		return errCheckNameRequired
	}

	if check.Path == "" {
		return fmt.Errorf("%w: %s", errCheckPathRequired, check.Name)
	}

	switch check.Method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead:
	default:
		return fmt.Errorf("%w: %s has method '%s'", errCheckInvalidMethod, check.Name, check.Method)
	}

	if check.ExpectStatus < 100 || check.ExpectStatus > 599 {
		return fmt.Errorf("%w: %s has %d", errCheckInvalidStatus, check.Name, check.ExpectStatus)
	}

	for i, keyword := range check.Contains {
		if strings.TrimSpace(keyword) == "" {
			return fmt.Errorf("%w: %s, entry %d", errCheckEmptyContains, check.Name, i)
		}
	}

	return nil
}
