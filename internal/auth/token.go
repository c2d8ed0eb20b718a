package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/scholarden/scholarden-admin/internal/db/models"
)

// Claims is the session artifact payload: the subject account id plus the
// resolved role and admin flag at issuance time.
type Claims struct {
	Role    models.Role `json:"role"`
	IsAdmin bool        `json:"isAdmin"`
	jwt.RegisteredClaims
}

// SubjectID returns the account id encoded in the subject claim.
func (c *Claims) SubjectID() (uint64, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}

	return id, nil
}

// TokenService issues and verifies signed session tokens.
//
// The founder allow-list is injected once at construction and consulted on
// every issuance; nothing here reads global state at call time.
type TokenService struct {
	signingKey []byte
	issuer     string
	expiry     time.Duration
	founders   map[string]struct{}
}

// NewTokenService creates a TokenService with the given HMAC signing key,
// token lifetime and administrator email allow-list.
func NewTokenService(signingKey, issuer string, expiry time.Duration, founderEmails []string) *TokenService {
	founders := make(map[string]struct{}, len(founderEmails))
	for _, email := range founderEmails {
		founders[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}

	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		expiry:     expiry,
		founders:   founders,
	}
}

// IsAdminEmail reports whether the email is on the founder allow-list.
func (s *TokenService) IsAdminEmail(email string) bool {
	_, ok := s.founders[strings.ToLower(strings.TrimSpace(email))]
	return ok
}

// Issue creates a signed session token for the account. The admin flag is
// derived from the account email here and nowhere else.
func (s *TokenService) Issue(acc *models.Account) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:    acc.Role,
		IsAdmin: s.IsAdminEmail(acc.Email),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(acc.ID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	})

	return token.SignedString(s.signingKey)
}

// Refresh re-issues a token for the same subject with the account's current
// role and a freshly derived admin flag. The subject never changes on
// refresh; handing in a different account is an error.
func (s *TokenService) Refresh(old *Claims, acc *models.Account) (string, error) {
	id, err := old.SubjectID()
	if err != nil {
		return "", err
	}

	if id != acc.ID {
		return "", ErrTokenSubjectMismatch
	}

	return s.Issue(acc)
}

// Verify parses and verifies a session token and returns its claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}

		return s.signingKey, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
