package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"plain", "Anna Smith", []string{"anna", "smith"}},
		{"hungarian accents", "Kovács Anna", []string{"kovacs", "anna"}},
		{"double acute", "Szőke Őrs", []string{"szoke", "ors"}},
		{"extra whitespace", "  Nagy   Béla  ", []string{"nagy", "bela"}},
		{"digits and symbols stripped", "J0hn D_oe!", []string{"jhn", "doe"}},
		{"single token", "Madonna", []string{"madonna"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestNormalizeNameEmpty(t *testing.T) {
	assert.Empty(t, NormalizeName(""))
	assert.Empty(t, NormalizeName("12345"))
	assert.Empty(t, NormalizeName("!!!"))
}

func TestBaseHandle(t *testing.T) {
	assert.Equal(t, "anna_kovacs", BaseHandle([]string{"kovacs", "anna"}))
	assert.Equal(t, "madonna", BaseHandle([]string{"madonna"}))
	assert.Equal(t, DefaultNameToken, BaseHandle(nil))
	// middle names are skipped, only first and last token are used
	assert.Equal(t, "maria_kiss", BaseHandle([]string{"kiss", "anna", "maria"}))
}

func TestCandidateUsername(t *testing.T) {
	pattern := regexp.MustCompile(`^anna_kovacs\d{2}$`)
	for i := 0; i < 50; i++ {
		u := CandidateUsername("anna_kovacs")
		assert.Regexp(t, pattern, u)
	}
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "anna_kovacs42", NormalizeUsername("  Anna_Kovacs42 "))
	assert.Equal(t, "user@example.com", NormalizeUsername("User@Example.COM"))
}
