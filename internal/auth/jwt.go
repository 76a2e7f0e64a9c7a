package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/meridian-realty/dashboard-api/internal/config"
	"github.com/meridian-realty/dashboard-api/internal/domain"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidAgency = errors.New("token carries an invalid agency")
	ErrNoSecret      = errors.New("token secret not configured")
)

// Claims are the claims of a dashboard access token
type Claims struct {
	Name   string   `json:"name,omitempty"`
	Email  string   `json:"email,omitempty"`
	Roles  []string `json:"roles,omitempty"`
	Agency string   `json:"agency,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and validates HS256 access tokens
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a token service from the auth configuration
func NewTokenService(cfg *config.AuthConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
	}
}

// Sign issues a token for the given claims. The configured issuer is set when
// the claims carry none.
func (s *TokenService) Sign(claims *Claims) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}
	if claims.Issuer == "" && s.issuer != "" {
		claims.Issuer = s.issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// IssueForUser issues a token for the user that expires after ttl
func (s *TokenService) IssueForUser(user *UserContext, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Name:  user.DisplayName,
		Email: user.Email,
		Roles: user.RolesAsStrings(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if user.AgencyID != nil {
		claims.Agency = user.AgencyID.String()
	}
	return s.Sign(claims)
}

// ValidateToken validates a token and returns the user it was issued for
func (s *TokenService) ValidateToken(tokenString string) (*UserContext, error) {
	if len(s.secret) == 0 {
		return nil, ErrNoSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userCtx := &UserContext{
		DisplayName: claims.Name,
		Email:       claims.Email,
		Roles:       parseRoles(claims.Roles),
	}

	if uid, err := uuid.Parse(claims.Subject); err == nil {
		userCtx.UserID = uid
	} else if userCtx.Email != "" {
		userCtx.UserID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(userCtx.Email))
	}

	if claims.Agency != "" {
		agencyID, err := uuid.Parse(claims.Agency)
		if err != nil {
			return nil, ErrInvalidAgency
		}
		userCtx.AgencyID = &agencyID
	}

	return userCtx, nil
}

// parseRoles keeps the roles this service knows about and drops the rest
func parseRoles(raw []string) []domain.UserRole {
	roles := make([]domain.UserRole, 0, len(raw))
	for _, r := range raw {
		switch role := domain.UserRole(r); role {
		case domain.RoleAdmin, domain.RoleAgent, domain.RoleViewer, domain.RoleAPIService:
			roles = append(roles, role)
		}
	}
	return roles
}
