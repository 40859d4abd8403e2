package utils

import (
	"math/rand"
	"strconv"
	"strings"
)

const (
	// MaxGenerateAttempts bounds the suffix retry loop during registration.
	MaxGenerateAttempts = 10

	suffixMin = 10
	suffixMax = 99
)

// BaseHandle derives the username stem from normalized name tokens, using
// the surname-first convention: "anna kovacs" -> "kovacs_anna". A single
// token is used as-is; zero tokens fall back to DefaultNameToken.
func BaseHandle(tokens []string) string {
	switch len(tokens) {
	case 0:
		return DefaultNameToken
	case 1:
		return tokens[0]
	default:
		return tokens[len(tokens)-1] + "_" + tokens[0]
	}
}

// CandidateUsername appends a random two-digit suffix in [10,99] to the
// stem. Uniqueness is the caller's problem: the candidate is handed to the
// store, whose unique constraint is the only authoritative check.
func CandidateUsername(base string) string {
	n := suffixMin + rand.Intn(suffixMax-suffixMin+1)
	return base + strconv.Itoa(n)
}

// NormalizeUsername converts a username or email login key to its stored
// form (trimmed, lowercase).
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
