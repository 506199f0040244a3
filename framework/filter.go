package framework

import (
	"fmt"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests by name, with the same rules as the -run and -skip options of
// "go test": a pattern is split on slashes, and each part is matched against the
// corresponding element of the test's path.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(id TestID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.anyMatchPrefix(id)) &&
		!r.MustNotMatch.anyMatchFull(id)
}

func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

// RegexList is a list of slash-separated regex patterns. It implements flag.Value so it can
// be set repeatedly from the command line.
type RegexList struct {
	patterns []regexPath
}

type regexPath struct {
	source string
	parts  []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.source+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	p := regexPath{source: value}
	for _, part := range strings.Split(value, "/") {
		rx, err := regexp.Compile(part)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		p.parts = append(p.parts, rx)
	}
	r.patterns = append(r.patterns, p)
	return nil
}

// Sources returns the patterns as they were originally given.
func (r RegexList) Sources() []string {
	ret := make([]string, 0, len(r.patterns))
	for _, p := range r.patterns {
		ret = append(ret, p.source)
	}
	return ret
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

// A test matches a pattern as a prefix if every path element that has a corresponding
// pattern part matches it. This lets a group run when one of its subtests might match.
func (r RegexList) anyMatchPrefix(id TestID) bool {
	for _, p := range r.patterns {
		if p.matches(id.Path, false) {
			return true
		}
	}
	return false
}

// A test matches a pattern fully only if the path is at least as deep as the pattern.
func (r RegexList) anyMatchFull(id TestID) bool {
	for _, p := range r.patterns {
		if p.matches(id.Path, true) {
			return true
		}
	}
	return false
}

func (p regexPath) matches(path []string, full bool) bool {
	if full && len(path) < len(p.parts) {
		return false
	}
	for i, part := range p.parts {
		if i >= len(path) {
			break
		}
		if !part.MatchString(path[i]) {
			return false
		}
	}
	return true
}

func PrintFilterDescription(filters RegexFilters) {
	if filters.IsDefined() {
		fmt.Println("Some tests will be skipped based on the filter criteria for this test run:")
		if filters.MustMatch.IsDefined() {
			fmt.Printf("  skip any not matching %s\n", filters.MustMatch)
		}
		if filters.MustNotMatch.IsDefined() {
			fmt.Printf("  skip any matching %s\n", filters.MustNotMatch)
		}
		fmt.Println()
	}
}
