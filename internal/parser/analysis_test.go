// Package parser provides utilities for parsing and transforming input data.
// It handles data normalization, validation, and conversion between formats.
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis_Valid(t *testing.T) {
	input := []byte(`{
		"endpoints": [
			{"method": "get", "path": " /users ", "file": "api/users.go", "line": 12},
			{"method": "POST", "path": "/orders", "file": "api/orders.go", "line": 40}
		],
		"api_calls": [
			{"method": "Get", "endpoint": "/users", "file": "web/list.ts", "line": 3}
		],
		"tests": [
			{"name": "TestListUsers", "file": "api/users_test.go", "endpoints": ["GET /users"]}
		],
		"evidence": [
			{"id": "ev-1", "kind": "coverage", "ref": "coverage.out"}
		]
	}`)

	analysis, err := ParseAnalysis(input)

	require.NoError(t, err)
	require.Len(t, analysis.Endpoints, 2)
	assert.Equal(t, "GET", analysis.Endpoints[0].Method)
	assert.Equal(t, "/users", analysis.Endpoints[0].Path)
	assert.Equal(t, 12, analysis.Endpoints[0].Line)
	require.Len(t, analysis.APICalls, 1)
	assert.Equal(t, "GET", analysis.APICalls[0].Method)
	assert.Len(t, analysis.Tests, 1)
	assert.Len(t, analysis.Evidence, 1)
}

func TestParseAnalysis_Empty(t *testing.T) {
	_, err := ParseAnalysis([]byte{})
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = ParseAnalysis([]byte("   \n"))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParseAnalysis_InvalidJSON(t *testing.T) {
	_, err := ParseAnalysis([]byte(`{invalid json`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal")
}

func TestParseAnalysis_EmptyObject(t *testing.T) {
	analysis, err := ParseAnalysis([]byte(`{}`))

	require.NoError(t, err)
	assert.Empty(t, analysis.Endpoints)
	assert.Empty(t, analysis.APICalls)
}

func TestParseAnalysis_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "endpoint without method",
			input:   `{"endpoints": [{"path": "/users"}]}`,
			wantErr: "Method",
		},
		{
			name:    "endpoint without path",
			input:   `{"endpoints": [{"method": "GET"}]}`,
			wantErr: "Path",
		},
		{
			name:    "negative line",
			input:   `{"endpoints": [{"method": "GET", "path": "/a", "line": -1}]}`,
			wantErr: "Line",
		},
		{
			name:    "call without file",
			input:   `{"api_calls": [{"method": "GET", "endpoint": "/a"}]}`,
			wantErr: "File",
		},
		{
			name:    "test without name",
			input:   `{"tests": [{"file": "x_test.go"}]}`,
			wantErr: "Name",
		},
		{
			name:    "blank method after trimming",
			input:   `{"endpoints": [{"method": "  ", "path": "/a"}]}`,
			wantErr: "Method",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAnalysis([]byte(tc.input))

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid analysis")
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
