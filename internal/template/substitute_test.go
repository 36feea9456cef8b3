package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitute_Simple(t *testing.T) {
	result, err := Substitute("Sprint {n}", map[string]string{"n": "3"})
	require.NoError(t, err)
	assert.Equal(t, "Sprint 3", result)
}

func TestSubstitute_MultipleVars(t *testing.T) {
	result, err := Substitute("{team}-{n}: {team}", map[string]string{"team": "core", "n": "7"})
	require.NoError(t, err)
	assert.Equal(t, "core-7: core", result)
}

func TestSubstitute_NoPlaceholdersUnchanged(t *testing.T) {
	for _, s := range []string{"", "Static Title", "日本語のタイトル"} {
		result, err := Substitute(s, nil)
		require.NoError(t, err)
		assert.Equal(t, s, result)
	}
}

func TestSubstitute_EscapedBraces(t *testing.T) {
	result, err := Substitute("{{literal}} and {x}", map[string]string{"x": "y"})
	require.NoError(t, err)
	assert.Equal(t, "{literal} and y", result)
}

func TestSubstitute_ValueIsNotReexpanded(t *testing.T) {
	result, err := Substitute("{a}", map[string]string{"a": "{b}"})
	require.NoError(t, err)
	assert.Equal(t, "{b}", result)
}

// ============ NEGATIVE TEST CASES ============

func TestSubstitute_ErrorCases(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		vars    map[string]string
		wantKey string
		wantErr string
	}{
		{"missing key", "Sprint {n}", map[string]string{}, "n", "no value for placeholder {n}"},
		{"missing key among present", "{a} {b}", map[string]string{"a": "1"}, "b", "no value for placeholder {b}"},
		{"unmatched open", "Sprint {n", map[string]string{"n": "1"}, "", "unmatched '{' at position 7"},
		{"nested open", "{a{b}}", map[string]string{}, "", "unmatched '{' at position 0"},
		{"empty placeholder", "x {} y", nil, "", "empty placeholder at position 2"},
		{"stray close", "x } y", nil, "", "single '}' at position 2"},
		{"padded name is a different key", "Sprint { n }", map[string]string{"n": "3"}, " n ", "no value for placeholder { n }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Substitute(tt.input, tt.vars)
			require.Error(t, err)
			var se *SubstitutionError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.wantKey, se.Key)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
