package brand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Stepan2222000/connect-article-avito/shared/errors"
)

func writeGroups(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brand_groups.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestComparisonKey(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"ski-doo", "SKIDOO"},
		{"SKI DOO", "SKIDOO"},
		{"SkiDoo", "SKIDOO"},
		{"", ""},
		{" Can-Am ", "CANAM"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, ComparisonKey(tc.input), "input %q", tc.input)
	}
}

func TestMapperMap(t *testing.T) {
	path := writeGroups(t, `{"BRP": ["LYNX", "CAN-AM", "SKI-DOO"]}`)
	m := NewMapper(path)
	require.NoError(t, m.Load())

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "synonym case insensitive", input: "ski-doo", expected: "BRP"},
		{name: "synonym mixed case", input: "Lynx", expected: "BRP"},
		{name: "synonym without hyphen", input: "SKIDOO", expected: "BRP"},
		{name: "synonym with space", input: "CAN AM", expected: "BRP"},
		{name: "unknown passes through uppercased", input: "UNKNOWN", expected: "UNKNOWN"},
		{name: "unknown lowercased input", input: "honda", expected: "HONDA"},
		{name: "unknown trimmed", input: " honda ", expected: "HONDA"},
		{name: "empty stays empty", input: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, m.Map(tc.input))
		})
	}
}

func TestMapperCanonicalNotImplicitSynonym(t *testing.T) {
	// BRP itself is not listed as a synonym, so a raw "brp" passes through
	// (uppercased it happens to equal the canonical anyway).
	path := writeGroups(t, `{"BRP": ["LYNX"]}`)
	m := NewMapper(path)
	require.NoError(t, m.Load())

	assert.Equal(t, "BRP", m.Map("brp"))
	assert.Equal(t, 1, m.Groups())
}

func TestMapperLoadMissingFile(t *testing.T) {
	m := NewMapper(filepath.Join(t.TempDir(), "nope.json"))
	err := m.Load()
	assert.ErrorIs(t, err, apperrors.ErrConfigNotFound)
}

func TestMapperLoadMalformed(t *testing.T) {
	path := writeGroups(t, `{"BRP": "not-a-list"`)
	m := NewMapper(path)
	err := m.Load()
	assert.ErrorIs(t, err, apperrors.ErrConfigParse)
}

func TestMapperReload(t *testing.T) {
	path := writeGroups(t, `{"BRP": ["LYNX"]}`)
	m := NewMapper(path)
	require.NoError(t, m.Load())
	assert.Equal(t, "BRP", m.Map("lynx"))
	assert.Equal(t, "ROTAX", m.Map("rotax"))

	require.NoError(t, os.WriteFile(path, []byte(`{"BRP": ["ROTAX"]}`), 0o644))
	require.NoError(t, m.Reload())

	// Old table fully discarded, new one in effect.
	assert.Equal(t, "LYNX", m.Map("lynx"))
	assert.Equal(t, "BRP", m.Map("rotax"))
}
