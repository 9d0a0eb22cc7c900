// Package matching provides the filename predicates that decide whether a
// patch profile is a candidate for an archive.
//
// Matchers are pure: they never touch the filesystem or the archive, and the
// same filename always yields the same answer. Callers pass the archive's
// base name; Basename strips directory components for them.
package matching

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptyPattern is returned when a matcher is built from an empty pattern.
var ErrEmptyPattern = errors.New("matcher pattern cannot be empty")

// Matcher decides whether a filename belongs to a profile.
type Matcher interface {
	// Matches reports whether filename is a candidate. An empty filename
	// never matches.
	Matches(filename string) bool

	// String describes the matcher for diagnostics.
	String() string
}

// Basename strips any directory components, accepting both slash styles so
// that paths typed on Windows hosts resolve the same way.
func Basename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		return name[i+1:]
	}
	return name
}

// RegexMatcher matches filenames against a regular expression.
type RegexMatcher struct {
	re       *regexp.Regexp
	pattern  string
	anchored bool
}

// NewRegexMatcher compiles pattern anchored at both ends of the filename,
// so a valid prefix followed by an invalid suffix does not match.
// Matching is case-sensitive.
func NewRegexMatcher(pattern string) (*RegexMatcher, error) {
	return compileRegex(pattern, true)
}

// NewOpenRegexMatcher compiles pattern without implicit anchors. The
// pattern matches if it occurs anywhere in the filename unless it carries
// its own ^ and $.
func NewOpenRegexMatcher(pattern string) (*RegexMatcher, error) {
	return compileRegex(pattern, false)
}

func compileRegex(pattern string, anchored bool) (*RegexMatcher, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, ErrEmptyPattern
	}

	expr := pattern
	if anchored {
		expr = `^(?:` + pattern + `)$`
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	return &RegexMatcher{re: re, pattern: pattern, anchored: anchored}, nil
}

// Matches implements Matcher.
func (m *RegexMatcher) Matches(filename string) bool {
	if filename == "" {
		return false
	}
	return m.re.MatchString(filename)
}

// Pattern returns the pattern as written by the profile author.
func (m *RegexMatcher) Pattern() string {
	return m.pattern
}

func (m *RegexMatcher) String() string {
	if m.anchored {
		return "regex:" + m.pattern
	}
	return "regex(open):" + m.pattern
}

// Func adapts a plain predicate to a Matcher.
type Func struct {
	Name string
	Fn   func(filename string) bool
}

// Matches implements Matcher.
func (f Func) Matches(filename string) bool {
	if filename == "" || f.Fn == nil {
		return false
	}
	return f.Fn(filename)
}

func (f Func) String() string {
	if f.Name == "" {
		return "func"
	}
	return "func:" + f.Name
}
