package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotBlankAndMaxLength(t *testing.T) {
	assert.NoError(t, NotBlank("title", "Dune"))
	assert.ErrorIs(t, NotBlank("title", "   "), ErrValidation)

	assert.NoError(t, MaxLength("title", "Dune", 4))
	assert.NoError(t, MaxLength("title", "Ćwiczę", 6))
	assert.ErrorIs(t, MaxLength("title", "Dune!", 4), ErrValidation)
}

func TestISBN(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"9780441013593", true},
		{"978-0-441-01359-3", true},
		{"0441013597", true},
		{"0-8044-2957-X", true},
		{"9780441013594", false},
		{"0441013598", false},
		{"12345", false},
		{"", false},
		{"abcdefghij", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := ISBN("isbn", tt.value)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

func TestISSN(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"1059-1028", true},
		{"10591028", true},
		{"0317-8471", true},
		{"2049-3630", true},
		{"0000-006X", true},
		{"0000-006x", true},
		{"1059-1029", false},
		{"1059-102", false},
		{"A059-1028", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := ISSN("issn", tt.value)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrValidation)
			}
		})
	}
}

func TestPublicationYear(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, PublicationYear("year", 1450, now))
	assert.NoError(t, PublicationYear("year", 2025, now))
	assert.Error(t, PublicationYear("year", 1449, now))
	assert.Error(t, PublicationYear("year", 2026, now))
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("email", "ada@example.com"))
	assert.NoError(t, Email("email", "  ada@example.com "))
	assert.Error(t, Email("email", "ada.example.com"))
	assert.Error(t, Email("email", ""))
}

func TestCollectAndDetails(t *testing.T) {
	assert.NoError(t, Collect(nil, nil))

	err := Collect(NotBlank("title", ""), nil, Email("email", "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	details := Details(err)
	require.Len(t, details, 2)
	assert.Equal(t, "title", details[0].Field)
	assert.Equal(t, "email", details[1].Field)
	assert.Equal(t, "title: must not be blank; email: must be a valid email address", err.Error())

	single := Details(NotBlank("name", ""))
	require.Len(t, single, 1)
	assert.Equal(t, "name", single[0].Field)

	assert.Nil(t, Details(errors.New("boom")))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "080442957X", NormalizeISBN(" 0-8044-2957-x "))
	assert.Equal(t, "1059-1028", NormalizeISSN("10591028"))
	assert.Equal(t, "0000-006X", NormalizeISSN("0000-006x"))
	assert.Equal(t, "ada@example.com", NormalizeEmail(" Ada@Example.COM "))
}

func TestNormalizeIdentifier(t *testing.T) {
	assert.Equal(t, "9780441013593", NormalizeIdentifier("978-0-441-01359-3"))
	assert.Equal(t, "1059-1028", NormalizeIdentifier("10591028"))
	assert.Equal(t, "1059-1028", NormalizeIdentifier(" 1059-1028 "))
	assert.Equal(t, "1059-1028", NormalizeIdentifier("1059 1028"))
	assert.Equal(t, "1059-1028", NormalizeISSN("1059 1028"))
	assert.Equal(t, "9780441013593", NormalizeIdentifier("978 0 441 01359 3"))
}
