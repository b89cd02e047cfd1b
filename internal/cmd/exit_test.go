package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/stretchr/testify/assert"

	"github.com/matchlens/matchlens/internal/apisports"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want foundry.ExitCode
	}{
		{"quota", fmt.Errorf("%w: 1/100 remaining", apisports.ErrQuotaExhausted), foundry.ExitExternalServiceUnavailable},
		{"unauthorized", apisports.ErrUnauthorized, foundry.ExitConfigInvalid},
		{"missing key", fmt.Errorf("validate: %w", apisports.ErrMissingAPIKey), foundry.ExitConfigInvalid},
		{"config", fmt.Errorf("%w: bad yaml", errConfig), foundry.ExitConfigInvalid},
		{"http", &apisports.HTTPError{Endpoint: "fixtures", StatusCode: 500}, foundry.ExitFailure},
		{"other", errors.New("boom"), foundry.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestQuotaExitCodeIsDistinct(t *testing.T) {
	assert.NotEqual(t, exitCodeFor(apisports.ErrQuotaExhausted), exitCodeFor(errors.New("boom")))
	assert.Equal(t, "API quota exhausted", exitMessage(apisports.ErrQuotaExhausted))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "(not set)", maskKey(""))
	assert.Equal(t, "****", maskKey("abc"))
	assert.Equal(t, "****6789", maskKey("0123456789"))
}
