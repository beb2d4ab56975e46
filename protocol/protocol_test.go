package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		arity   int
		want    Fields
		wantErr error
	}{
		{"two fields", "Technical Issue|3", 2, Fields{"Technical Issue", "3"}, nil},
		{"trims", "  Billing | 2 \n", 2, Fields{"Billing", "2"}, nil},
		{"empty fields kept", "a||c|", 4, Fields{"a", "", "c", ""}, nil},
		{"too few", "garbage", 2, nil, ErrArity},
		{"too many", "a|b|c", 2, nil, ErrArity},
		{"sentinel", "Error: Unable to process request", 1, nil, ErrSentinel},
		{"sentinel with pipes", "Error: x|y", 2, nil, ErrSentinel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.reply, tt.arity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFields_Numeric(t *testing.T) {
	f, err := Parse("3|85%|x| 40 % ", 4)
	require.NoError(t, err)

	n, err := f.Int(0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	p, err := f.Percent(1)
	require.NoError(t, err)
	assert.Equal(t, 85, p)

	_, err = f.Int(2)
	assert.ErrorIs(t, err, ErrNumeric)

	_, err = f.Int(1)
	assert.ErrorIs(t, err, ErrNumeric, "Int does not strip percent signs")

	p, err = f.Percent(3)
	require.NoError(t, err)
	assert.Equal(t, 40, p)
}

func TestFields_ListAndBool(t *testing.T) {
	f, err := Parse("yes| reset password, , notify user ,|NO|", 4)
	require.NoError(t, err)

	assert.True(t, f.Bool(0))
	assert.Equal(t, []string{"reset password", "notify user"}, f.List(1))
	assert.False(t, f.Bool(2))
	assert.Equal(t, []string{}, f.List(3))
}
