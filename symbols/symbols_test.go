package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPoolIsValid(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())
	assert.Equal(t, 12, p.Len())

	// Mutating the returned copy must not leak into later calls
	p[0] = "x"
	assert.NotEqual(t, Symbol("x"), Default()[0])
}

func TestPoolValidate(t *testing.T) {
	tests := []struct {
		name    string
		pool    Pool
		wantErr bool
	}{
		{"valid", New("A", "B", "C"), false},
		{"empty", Pool{}, true},
		{"nil", nil, true},
		{"duplicate", New("A", "B", "A"), true},
		{"blank symbol", New("A", ""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pool.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPool)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("A, B  C,D")
	require.NoError(t, err)
	assert.Equal(t, New("A", "B", "C", "D"), p)
	assert.True(t, p.Contains("C"))
	assert.False(t, p.Contains("E"))
	assert.Equal(t, "A B C D", p.String())

	_, err = Parse("A,A")
	assert.ErrorIs(t, err, ErrInvalidPool)

	_, err = Parse("  ")
	assert.ErrorIs(t, err, ErrInvalidPool)
}
