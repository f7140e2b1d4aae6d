package pkg

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	ReviewCodePrefix = "TT"
	TicketCodeLength = 10
	// MaxCodeAttempts caps insert-and-retry on a uniqueness conflict.
	MaxCodeAttempts = 5
)

var ErrCodeSpaceExhausted = errors.New("unique code generation exhausted")

// CodeGenerator produces one candidate code.
type CodeGenerator func() (string, error)

// NewReviewCode returns a candidate of the form TT-XXXX-XX.
func NewReviewCode() (string, error) {
	body, err := RandomString(UnambiguousAlphabet, 6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", ReviewCodePrefix, body[:4], body[4:]), nil
}

// NewTicketCode returns a 10 character ticket code.
func NewTicketCode() (string, error) {
	return RandomString(UnambiguousAlphabet, TicketCodeLength)
}

// NormalizeCode upper-cases and trims a human-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsUniqueViolation reports whether err is the store's uniqueness conflict.
// The *gorm.DB must be opened with TranslateError enabled.
func IsUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// GenerateUnique runs bounded optimistic generation: draw a code, try to insert
// it, and draw again only when the insert reports a uniqueness conflict. Any
// other insert error is returned as is. After attempts conflicts it fails with
// ErrCodeSpaceExhausted. The number of attempts used is returned alongside.
func GenerateUnique(attempts int, gen CodeGenerator, insert func(code string) error) (string, int, error) {
	for i := 1; i <= attempts; i++ {
		code, err := gen()
		if err != nil {
			return "", i, err
		}

		err = insert(code)
		if err == nil {
			return code, i, nil
		}
		if !IsUniqueViolation(err) {
			return "", i, err
		}
	}
	return "", attempts, ErrCodeSpaceExhausted
}
