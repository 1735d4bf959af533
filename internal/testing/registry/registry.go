// Package registry holds the named, tagged test cases of a run.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/agiulucom42-del/synthetic-scout/internal/testing/assertion"
)

var (
	// ErrDuplicateTest is returned when a test name is registered twice.
	ErrDuplicateTest = errors.New("test name already registered")
	// ErrEmptyName is returned when a test is registered without a name.
	ErrEmptyName = errors.New("test name is required")
	// ErrNilFunc is returned when a test is registered without a body.
	ErrNilFunc = errors.New("test function is required")
)

// TestCase is a single registered test.
type TestCase struct {
	Name string
	Tags []string
	Func assertion.Func
}

// Entry is the listing view of a TestCase.
type Entry struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

// Registry keeps test cases in registration order.
type Registry struct {
	mu    sync.RWMutex
	cases []*TestCase
	index map[string]*TestCase
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		cases: make([]*TestCase, 0, 16),
		index: make(map[string]*TestCase),
	}
}

// Register adds a test case. Registering a name twice is a configuration error.
func (r *Registry) Register(name string, fn assertion.Func, tags ...string) error {
	if name == "" {
		return ErrEmptyName
	}

	if fn == nil {
		return fmt.Errorf("%w: %s", ErrNilFunc, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTest, name)
	}

	tc := &TestCase{
		Name: name,
		Tags: append([]string{}, tags...),
		Func: fn,
	}

	r.cases = append(r.cases, tc)
	r.index[name] = tc

	return nil
}

// MustRegister is Register for static registration lists; it panics on error.
func (r *Registry) MustRegister(name string, fn assertion.Func, tags ...string) {
	if err := r.Register(name, fn, tags...); err != nil {
		panic(err)
	}
}

// All returns every case in registration order.
func (r *Registry) All() []*TestCase {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*TestCase, len(r.cases))
	copy(result, r.cases)

	return result
}

// ByTag returns cases carrying at least one of tags. An empty filter matches all.
func (r *Registry) ByTag(tags []string) []*TestCase {
	if len(tags) == 0 {
		return r.All()
	}

	want := toSet(tags)
	result := make([]*TestCase, 0)

	for _, tc := range r.All() {
		if intersects(want, tc.Tags) {
			result = append(result, tc)
		}
	}

	return result
}

// ExcludeTag drops cases carrying any of tags. An empty set returns cases unchanged.
func (r *Registry) ExcludeTag(cases []*TestCase, tags []string) []*TestCase {
	if len(tags) == 0 {
		return cases
	}

	drop := toSet(tags)
	result := make([]*TestCase, 0, len(cases))

	for _, tc := range cases {
		if !intersects(drop, tc.Tags) {
			result = append(result, tc)
		}
	}

	return result
}

// Select applies the include filter followed by the exclude filter.
func (r *Registry) Select(include, exclude []string) []*TestCase {
	return r.ExcludeTag(r.ByTag(include), exclude)
}

// List returns name and tags of every case without exposing the bodies.
func (r *Registry) List() []Entry {
	cases := r.All()
	entries := make([]Entry, 0, len(cases))

	for _, tc := range cases {
		entries = append(entries, Entry{
			Name: tc.Name,
			Tags: append([]string{}, tc.Tags...),
		})
	}

	return entries
}

// Tags returns the sorted set of tags used by any case.
func (r *Registry) Tags() []string {
	seen := make(map[string]struct{})
	for _, tc := range r.All() {
		for _, tag := range tc.Tags {
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}

	sort.Strings(tags)

	return tags
}

// Len returns the number of registered cases.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.cases)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}

	return set
}

func intersects(set map[string]struct{}, values []string) bool {
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}

	return false
}
