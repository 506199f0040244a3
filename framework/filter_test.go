package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func id(path string) TestID {
	return TestID{Path: strings.Split(path, "/")}
}

func filtersFor(t *testing.T, run, skip []string) RegexFilters {
	var f RegexFilters
	for _, p := range run {
		require.NoError(t, f.MustMatch.Set(p))
	}
	for _, p := range skip {
		require.NoError(t, f.MustNotMatch.Set(p))
	}
	return f
}

func TestEmptyFiltersAllowEverything(t *testing.T) {
	var f RegexFilters
	assert.False(t, f.IsDefined())
	assert.True(t, f.AsFilter(id("search")))
	assert.True(t, f.AsFilter(id("reverse/landmarks/Big Ben")))
}

func TestRunPatternMatchesGroupsAndSubtests(t *testing.T) {
	f := filtersFor(t, []string{"search/by name"}, nil)
	assert.True(t, f.IsDefined())

	assert.True(t, f.AsFilter(id("search")), "group must run so its subtests can")
	assert.True(t, f.AsFilter(id("search/by name")))
	assert.True(t, f.AsFilter(id("search/by name/England Big Ben")))
	assert.False(t, f.AsFilter(id("search/limit")))
	assert.False(t, f.AsFilter(id("reverse")))

	// unanchored, like go test
	assert.True(t, f.AsFilter(id("structured search")))
}

func TestSeveralRunPatterns(t *testing.T) {
	f := filtersFor(t, []string{"^reverse$", "^search$/limit"}, nil)
	assert.True(t, f.AsFilter(id("reverse/landmarks")))
	assert.True(t, f.AsFilter(id("search/limit")))
	assert.False(t, f.AsFilter(id("search/empty address")))
	assert.False(t, f.AsFilter(id("structured search")))
}

func TestSkipPatternMatchesOnlyAtFullDepth(t *testing.T) {
	f := filtersFor(t, nil, []string{"reverse/landmarks"})
	assert.True(t, f.AsFilter(id("reverse")))
	assert.False(t, f.AsFilter(id("reverse/landmarks")))
	assert.False(t, f.AsFilter(id("reverse/landmarks/Louvre")))
	assert.True(t, f.AsFilter(id("reverse/far from nearest address")))
}

func TestRunAndSkipTogether(t *testing.T) {
	f := filtersFor(t, []string{"search"}, []string{"search/address too long"})
	assert.True(t, f.AsFilter(id("search/limit")))
	assert.False(t, f.AsFilter(id("search/address too long")))
}

func TestInvalidPattern(t *testing.T) {
	var r RegexList
	assert.Error(t, r.Set("search/("))
	assert.False(t, r.IsDefined())
}

func TestRegexListString(t *testing.T) {
	f := filtersFor(t, []string{"a", "b/c"}, nil)
	assert.Equal(t, `"a" or "b/c"`, f.MustMatch.String())
	assert.Equal(t, []string{"a", "b/c"}, f.MustMatch.Sources())
}
