// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package jspath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Path
	}{
		{
			name:     "bare key",
			input:    ".role",
			expected: Path{Key("role")},
		},
		{
			name:     "quoted key",
			input:    `."https://example.com/role"`,
			expected: Path{Key("https://example.com/role")},
		},
		{
			name:     "quoted key with escapes",
			input:    `."a\"b\\c"`,
			expected: Path{Key(`a"b\c`)},
		},
		{
			name:     "nested keys with index",
			input:    ".postgrest.roles[1]",
			expected: Path{Key("postgrest"), Key("roles"), Index(1)},
		},
		{
			name:     "leading index",
			input:    "[0].role",
			expected: Path{Index(0), Key("role")},
		},
		{
			name:     "identifier characters",
			input:    ".$role_1@x",
			expected: Path{Key("$role_1@x")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.input)
			require.NoError(t, err)
			require.Equal(t, tc.expected, p)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	inputs := []string{
		"",
		"role",
		".",
		".role[",
		".role[x]",
		".role[1",
		`."unterminated`,
		`."bad\escape"`,
		".ro le",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)

			var serr SyntaxError
			require.ErrorAs(t, err, &serr)
			require.Equal(t, input, serr.Input)
		})
	}
}

func TestPath_String(t *testing.T) {
	t.Run("will render a canonical form which parses back", func(t *testing.T) {
		p := Path{Key("a.b"), Key(`q"uote`), Index(3)}

		s := p.String()
		require.Equal(t, `."a.b"."q\"uote"[3]`, s)

		parsed, err := Parse(s)
		require.NoError(t, err)
		require.Equal(t, p, parsed)
	})

	t.Run("will render the default path", func(t *testing.T) {
		require.Equal(t, `."role"`, Default.String())
	})
}

func TestPath_Get(t *testing.T) {
	claims := map[string]any{
		"role": "web_user",
		"postgrest": map[string]any{
			"roles": []any{"reader", "writer"},
		},
	}

	testCases := []struct {
		name     string
		path     Path
		expected any
		found    bool
	}{
		{
			name:     "top level key",
			path:     Default,
			expected: "web_user",
			found:    true,
		},
		{
			name:     "nested array element",
			path:     Path{Key("postgrest"), Key("roles"), Index(1)},
			expected: "writer",
			found:    true,
		},
		{
			name:  "missing key",
			path:  Path{Key("missing")},
			found: false,
		},
		{
			name:  "index out of range",
			path:  Path{Key("postgrest"), Key("roles"), Index(5)},
			found: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := tc.path.Get(claims)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.expected, v)
		})
	}
}
