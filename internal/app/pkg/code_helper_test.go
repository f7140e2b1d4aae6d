package pkg

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var reviewCodePattern = regexp.MustCompile(`^TT-[A-Z0-9]{4}-[A-Z0-9]{2}$`)

func TestNewReviewCodeFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := NewReviewCode()
		require.NoError(t, err)
		require.Regexp(t, reviewCodePattern, code)
		require.NotContains(t, code[3:], "0")
		require.NotContains(t, code[3:], "O")
		require.NotContains(t, code[3:], "1")
		require.NotContains(t, code[3:], "I")
	}
}

func TestNewTicketCodeFormat(t *testing.T) {
	code, err := NewTicketCode()
	require.NoError(t, err)
	require.Regexp(t, `^[A-Z2-9]{10}$`, code)
}

func TestNormalizeCode(t *testing.T) {
	require.Equal(t, "ABCD123456", NormalizeCode("  abcd123456 "))
}

func TestGenerateUniqueRetriesOnConflict(t *testing.T) {
	candidates := []string{"TT-AAAA-AA", "TT-AAAA-AA", "TT-BBBB-BB"}
	next := 0
	gen := func() (string, error) {
		code := candidates[next]
		next++
		return code, nil
	}
	taken := map[string]bool{"TT-AAAA-AA": true}
	insert := func(code string) error {
		if taken[code] {
			return fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey)
		}
		taken[code] = true
		return nil
	}

	code, attempts, err := GenerateUnique(MaxCodeAttempts, gen, insert)
	require.NoError(t, err)
	require.Equal(t, "TT-BBBB-BB", code)
	require.Equal(t, 3, attempts)
}

func TestGenerateUniqueExhausted(t *testing.T) {
	calls := 0
	gen := func() (string, error) {
		calls++
		return "TT-SAME-XX", nil
	}
	insert := func(string) error { return gorm.ErrDuplicatedKey }

	_, attempts, err := GenerateUnique(MaxCodeAttempts, gen, insert)
	require.ErrorIs(t, err, ErrCodeSpaceExhausted)
	require.Equal(t, MaxCodeAttempts, attempts)
	require.Equal(t, MaxCodeAttempts, calls)
}

func TestGenerateUniqueStopsOnOtherErrors(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	insert := func(string) error {
		calls++
		return boom
	}

	_, _, err := GenerateUnique(MaxCodeAttempts, NewReviewCode, insert)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}

func TestEarliestTime(t *testing.T) {
	a := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := a.Add(time.Hour)

	require.Nil(t, EarliestTime(nil, nil))
	require.Equal(t, a, *EarliestTime(&a, nil))
	require.Equal(t, b, *EarliestTime(nil, &b))
	require.Equal(t, a, *EarliestTime(&b, &a))
}

func TestBoundChannels(t *testing.T) {
	require.True(t, BoundChannels("abc.def.ghi", "abc.def.ghi"))
	require.False(t, BoundChannels("abc.def.ghi", "abc.def.ghj"))
	require.False(t, BoundChannels("abc", "abcd"))
	require.False(t, BoundChannels("", ""))
	require.False(t, BoundChannels("abc", ""))
	require.False(t, BoundChannels("", "abc"))
}
