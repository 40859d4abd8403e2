package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store/memory"
)

func TestRegisterDerivesUsername(t *testing.T) {
	svc := NewCredentialService(memory.New())

	u, err := svc.Register(context.Background(), "Kovács Anna", "anna@example.com", "password123")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^anna_kovacs\d{2}$`), u.Username)
	assert.Equal(t, "Kovács Anna", u.FullName)
	assert.Equal(t, "anna@example.com", u.Email)
	assert.Equal(t, models.RoleStudent, u.Role)
	assert.NotEqual(t, u.ID, u.PublicID)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "password123", u.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewCredentialService(memory.New())
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@b.com", "password123")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Register(ctx, "Anna", "not-an-email", "password123")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Register(ctx, "Anna", "a@b.com", "short")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewCredentialService(memory.New())
	ctx := context.Background()

	_, err := svc.Register(ctx, "Kovács Anna", "anna@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Nagy Anna", "anna@example.com", "password456")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterSameNameGetsDistinctUsernames(t *testing.T) {
	svc := NewCredentialService(memory.New())
	ctx := context.Background()

	seen := make(map[string]bool)
	// 90 possible suffixes; a handful of same-name registrations must all
	// land on distinct usernames via the retry loop.
	for i := 0; i < 20; i++ {
		u, err := svc.Register(ctx, "Kovács Anna", "anna"+string(rune('a'+i))+"@example.com", "password123")
		require.NoError(t, err)
		assert.False(t, seen[u.Username], "username %q issued twice", u.Username)
		seen[u.Username] = true
	}
}

func TestRegisterFallbackHandle(t *testing.T) {
	svc := NewCredentialService(memory.New())

	u, err := svc.Register(context.Background(), "12345", "digits@example.com", "password123")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^diak\d{2}$`), u.Username)
}

func TestVerify(t *testing.T) {
	svc := NewCredentialService(memory.New())
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Kovács Anna", "anna@example.com", "password123")
	require.NoError(t, err)

	// by username
	u, err := svc.Verify(ctx, reg.Username, "password123")
	require.NoError(t, err)
	assert.Equal(t, reg.PublicID, u.PublicID)

	// by email, case-insensitive
	u, err = svc.Verify(ctx, "Anna@Example.COM", "password123")
	require.NoError(t, err)
	assert.Equal(t, reg.PublicID, u.PublicID)
}

func TestVerifyFailuresAreUniform(t *testing.T) {
	svc := NewCredentialService(memory.New())
	ctx := context.Background()

	reg, err := svc.Register(ctx, "Kovács Anna", "anna@example.com", "password123")
	require.NoError(t, err)

	_, errWrongPass := svc.Verify(ctx, reg.Username, "wrong-password")
	_, errUnknown := svc.Verify(ctx, "nobody99", "password123")

	assert.Equal(t, apperr.KindCredential, apperr.KindOf(errWrongPass))
	assert.Equal(t, apperr.KindCredential, apperr.KindOf(errUnknown))
	assert.Equal(t, apperr.MessageOf(errWrongPass), apperr.MessageOf(errUnknown))
}
