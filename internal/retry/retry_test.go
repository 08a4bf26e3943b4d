package retry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter() func() (int, error) {
	n := 0
	return func() (int, error) {
		n++
		return n, nil
	}
}

func TestUntil(t *testing.T) {
	errCheck := errors.New("check failed")

	tests := []struct {
		name         string
		maxAttempts  int
		acceptable   func(int) (bool, error)
		want         int
		wantErr      error
		wantAttempts int
	}{
		{
			name:         "first candidate accepted",
			maxAttempts:  10,
			acceptable:   func(int) (bool, error) { return true, nil },
			want:         1,
			wantAttempts: 1,
		},
		{
			name:         "accepted on last attempt",
			maxAttempts:  10,
			acceptable:   func(v int) (bool, error) { return v == 10, nil },
			want:         10,
			wantAttempts: 10,
		},
		{
			name:         "all rejected",
			maxAttempts:  10,
			acceptable:   func(int) (bool, error) { return false, nil },
			wantErr:      ErrExhausted,
			wantAttempts: 10,
		},
		{
			name:         "acceptable error stops loop",
			maxAttempts:  10,
			acceptable:   func(v int) (bool, error) { return false, errCheck },
			wantErr:      errCheck,
			wantAttempts: 1,
		},
		{
			name:         "zero budget",
			maxAttempts:  0,
			acceptable:   func(int) (bool, error) { return true, nil },
			wantErr:      ErrExhausted,
			wantAttempts: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			next := counter()
			got, err := Until(tt.maxAttempts, func() (int, error) {
				calls++
				return next()
			}, tt.acceptable)
			assert.Equal(t, tt.wantAttempts, calls)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUntil_NextError(t *testing.T) {
	errGen := errors.New("entropy unavailable")
	_, err := Until(3, func() (string, error) { return "", errGen }, func(string) (bool, error) { return true, nil })
	require.ErrorIs(t, err, errGen)
}
