// Package parser provides utilities for parsing and transforming input data.
// It handles data normalization, validation, and conversion between formats.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Data-Scientist-MSL/RepoSense-sub002/internal/models"
	"github.com/go-playground/validator/v10"
)

var ErrEmptyInput = errors.New("empty input data")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs struct tag validation and flattens the first failure into a
// readable message.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid field %s: failed %q check", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("validation failed: %w", err)
}

func ParseAnalysis(data []byte) (*models.AnalysisInput, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyInput
	}

	var input models.AnalysisInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}

	NormalizeAnalysis(&input)

	if err := Validate(&input); err != nil {
		return nil, fmt.Errorf("invalid analysis: %w", err)
	}

	return &input, nil
}

// NormalizeAnalysis uppercases HTTP methods and trims paths so that the same
// route written two ways maps to one graph node.
func NormalizeAnalysis(input *models.AnalysisInput) {
	for i := range input.Endpoints {
		ep := &input.Endpoints[i]
		ep.Method = normalizeMethod(ep.Method)
		ep.Path = strings.TrimSpace(ep.Path)
	}
	for i := range input.APICalls {
		call := &input.APICalls[i]
		call.Method = normalizeMethod(call.Method)
		call.Endpoint = strings.TrimSpace(call.Endpoint)
	}
}

func normalizeMethod(method string) string {
	return strings.ToUpper(strings.TrimSpace(method))
}
