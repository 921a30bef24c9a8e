package campaign

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"nil", nil, FailureGeneric},
		{"plain failure", errors.New("connection reset"), FailureGeneric},
		{"server error", errors.New("gemini API 500 Internal Server Error: boom"), FailureGeneric},
		{
			"entity not found",
			errors.New("gemini API 404 Not Found: Requested entity was not found."),
			FailureAuthMismatch,
		},
		{
			"wrapped entity not found",
			fmt.Errorf("generate: %w", errors.New("the entity was not found for this project")),
			FailureAuthMismatch,
		},
		{"rate limited", errors.New("gemini API 429 Too Many Requests: quota"), FailureGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
