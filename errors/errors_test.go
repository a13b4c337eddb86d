package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NewNotFoundError("atomic number %d", 100), IsNotFoundError},
		{"invalid request", NewInvalidRequestError("subshell code %d", 31), IsInvalidRequestError},
		{"source missing", Wrap(ErrSourceMissing, "data/pdrelax.p11"), IsSourceMissing},
		{"source unreadable", Wrap(ErrSourceUnreadable, "data/pdrelax.p11"), IsSourceUnreadable},
		{"malformed", Wrapf(ErrMalformedField, "line %d", 7), IsMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.False(t, tt.check(nil))
			assert.False(t, tt.check(New("unrelated")))
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	err := Wrap(ErrSourceMissing, "pe-intens-05.dat")

	assert.False(t, IsNotFoundError(err))
	assert.False(t, IsSourceUnreadable(err))
	assert.False(t, IsMalformed(err))
}

func TestLookupMissesAreDistinct(t *testing.T) {
	z := Wrapf(ErrAtomicNumberNotFound, "Z=%d", 100)
	pair := Wrapf(ErrTransitionNotFound, "Z=%d %s-%s", 29, "K", "M5")

	assert.True(t, IsNotFoundError(z))
	assert.True(t, IsNotFoundError(pair))
	assert.True(t, Is(z, ErrAtomicNumberNotFound))
	assert.False(t, Is(z, ErrTransitionNotFound))
	assert.True(t, Is(pair, ErrTransitionNotFound))
	assert.False(t, Is(pair, ErrAtomicNumberNotFound))
	assert.Equal(t, "Z=100: unknown atomic number: not found", z.Error())
}

func TestNotFoundMessageNamesTheKey(t *testing.T) {
	err := NewNotFoundError("no data for atomic number %d", 100)

	assert.Contains(t, err.Error(), "atomic number 100")
	assert.Contains(t, err.Error(), "not found")
}

func TestWithHintSurvivesWrapping(t *testing.T) {
	err := WithHint(Wrap(ErrSourceMissing, "data/pdrelax.p11"), "run from the directory holding data/")
	err = Wrap(err, "load relaxation table")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "run from the directory holding data/", hints[0])
	assert.True(t, IsSourceMissing(err))
}

func TestStackTrace(t *testing.T) {
	err := Wrap(ErrMalformedField, "line 3")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
	assert.NotNil(t, GetStack(err))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
}

func ExampleWrap() {
	err := Wrap(ErrNotFound, "atomic number 100")
	fmt.Println(err)
	// Output: atomic number 100: not found
}
