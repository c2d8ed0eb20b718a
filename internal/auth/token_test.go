package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarden/scholarden-admin/internal/db/models"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

func newTestTokenService(founders ...string) *TokenService {
	return NewTokenService(testSigningKey, "scholarden-admin", time.Hour, founders)
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestTokenService("founder@scholarden.org")

	acc := &models.Account{
		ID:    7,
		Email: "member@x.com",
		Role:  models.RoleResearcher,
	}

	tokenString, err := svc.Issue(acc)
	require.NoError(t, err)

	claims, err := svc.Verify(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, models.RoleResearcher, claims.Role)
	assert.False(t, claims.IsAdmin)

	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
}

func TestAdminFlagDerivedFromAllowList(t *testing.T) {
	svc := newTestTokenService("Founder@Scholarden.org")

	founder := &models.Account{ID: 1, Email: "founder@scholarden.org", Role: models.RoleOther}

	tokenString, err := svc.Issue(founder)
	require.NoError(t, err)

	claims, err := svc.Verify(tokenString)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin, "allow-list match is case-insensitive")

	// same account against a service without that founder: the flag is
	// recomputed at issuance, nothing sticks to the account
	other := newTestTokenService("someoneelse@x.com")

	tokenString, err = other.Issue(founder)
	require.NoError(t, err)

	claims, err = other.Verify(tokenString)
	require.NoError(t, err)
	assert.False(t, claims.IsAdmin)
}

func TestVerifyRejectsForgedToken(t *testing.T) {
	svc := newTestTokenService("founder@scholarden.org")

	// signed with a different key, claiming admin
	forger := NewTokenService("another-key-another-key-another!", "scholarden-admin", time.Hour,
		[]string{"attacker@x.com"})

	forged, err := forger.Issue(&models.Account{ID: 1, Email: "attacker@x.com"})
	require.NoError(t, err)

	_, err = svc.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService(testSigningKey, "scholarden-admin", -time.Minute, nil)

	tokenString, err := svc.Issue(&models.Account{ID: 2, Email: "m@x.com"})
	require.NoError(t, err)

	_, err = svc.Verify(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshKeepsSubjectAndUpdatesRole(t *testing.T) {
	svc := newTestTokenService("founder@scholarden.org")

	acc := &models.Account{ID: 42, Email: "member@x.com", Role: models.RoleStudent}

	tokenString, err := svc.Issue(acc)
	require.NoError(t, err)

	claims, err := svc.Verify(tokenString)
	require.NoError(t, err)

	// profile update changed the role; refresh picks it up
	acc.Role = models.RoleEntrepreneur

	refreshed, err := svc.Refresh(claims, acc)
	require.NoError(t, err)

	newClaims, err := svc.Verify(refreshed)
	require.NoError(t, err)

	assert.Equal(t, "42", newClaims.Subject)
	assert.Equal(t, models.RoleEntrepreneur, newClaims.Role)
}

func TestRefreshRejectsForeignAccount(t *testing.T) {
	svc := newTestTokenService()

	tokenString, err := svc.Issue(&models.Account{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	claims, err := svc.Verify(tokenString)
	require.NoError(t, err)

	_, err = svc.Refresh(claims, &models.Account{ID: 2, Email: "b@x.com"})
	assert.ErrorIs(t, err, ErrTokenSubjectMismatch)
}
