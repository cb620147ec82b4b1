package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Subject is who a token is minted for
type Subject struct {
	UserID        int64
	InstitutionID int64
	Role          Role
}

// Creator mints bearer tokens in the shape the dashboards consume. It
// backs the development server; production tokens come from the real
// auth server.
type Creator struct {
	signer          Signer
	expiry          time.Duration
	institutionName string
	userName        string
	roleName        string
}

type CreatorOption func(*Creator)

// WithClaimNames chooses which alias each claim is written under, for
// example "clinic_id", "user_id" and "userRole".
func WithClaimNames(institution, user, role string) CreatorOption {
	return func(c *Creator) {
		c.institutionName = institution
		c.userName = user
		c.roleName = role
	}
}

func NewCreator(signer Signer, expiry time.Duration, opts ...CreatorOption) *Creator {
	c := &Creator{
		signer:          signer,
		expiry:          expiry,
		institutionName: InstitutionIDClaims[0],
		userName:        UserIDClaims[0],
		roleName:        RoleClaims[0],
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateAccessToken signs a token for the subject
func (c *Creator) CreateAccessToken(subject Subject) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		c.institutionName: subject.InstitutionID,
		c.userName:        subject.UserID,
		c.roleName:        string(subject.Role),
		"iat":             now.Unix(),
		"exp":             now.Add(c.expiry).Unix(),
		"jti":             uuid.New().String(),
	}

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token minted by this creator
// and returns its claims.
func (c *Creator) Verify(raw string) (Claims, error) {
	token, err := jwtlib.Parse(raw, c.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, fmt.Errorf("error extracting claims from token")
	}
	return Claims(claims), nil
}
