package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParseError(t *testing.T) {
	cause := errors.New("invalid syntax")
	err := NewParseError(42, "TRAN_DT", "31/13/2019", cause)

	assert.Equal(t, CodeParse, err.Code)
	assert.Contains(t, err.Error(), "row 42")
	assert.Contains(t, err.Error(), "TRAN_DT")
	assert.ErrorIs(t, err, cause)

	details, ok := err.Details.(ParseDetails)
	require.True(t, ok)
	assert.Equal(t, 42, details.Row)
	assert.Equal(t, "31/13/2019", details.Value)
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		isParse bool
		isCfg   bool
		isBase  bool
	}{
		{
			name:    "parse error",
			err:     NewParseError(1, "ACCT_BAL", "abc", nil),
			isParse: true,
		},
		{
			name:  "configuration error",
			err:   NewConfigurationError("windows not contiguous"),
			isCfg: true,
		},
		{
			name:   "missing baseline error",
			err:    NewMissingBaselineError("ACC-1", time.Date(2019, 4, 30, 0, 0, 0, 0, time.UTC)),
			isBase: true,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
		},
		{
			name:    "wrapped parse error",
			err:     fmt.Errorf("normalize transactions: %w", NewParseError(3, "INFLOW_TRAN_AMT", "x", nil)),
			isParse: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isParse, IsParse(tt.err))
			assert.Equal(t, tt.isCfg, IsConfiguration(tt.err))
			assert.Equal(t, tt.isBase, IsMissingBaseline(tt.err))
		})
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(CodeConfiguration, "bad window set", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "CONFIGURATION_ERROR")
}
