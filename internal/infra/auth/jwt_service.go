package auth

import (
	"time"

	"dayflow/config"
	"dayflow/internal/domain/entity"
	domainerrors "dayflow/internal/domain/errors"
	"dayflow/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// sessionClaims is the JWT payload. id and sub both carry the account ID.
type sessionClaims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewJWTService builds the token service from the process-wide secret and TTL.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg == nil || cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := time.Duration(0)
	if cfg.Auth != nil {
		ttl = cfg.Auth.TokenTTL
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return newJWTService([]byte(cfg.SecretKey.Access), ttl, time.Now), nil
}

func newJWTService(secret []byte, ttl time.Duration, now func() time.Time) *jwtService {
	return &jwtService{
		secret: secret,
		ttl:    ttl,
		now:    now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(now),
		),
	}
}

// IssueToken signs a session token for the account.
func (s *jwtService) IssueToken(accountID uuid.UUID, role entity.Role) (string, error) {
	issuedAt := s.now()
	claims := sessionClaims{
		ID:   accountID.String(),
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return token, nil
}

// VerifyToken validates signature and expiry and decodes the claims.
func (s *jwtService) VerifyToken(tokenString string) (*service.Claims, error) {
	claims := &sessionClaims{}
	if _, err := s.parser.ParseWithClaims(tokenString, claims, s.keyFunc); err != nil {
		return nil, errors.Wrap(domainerrors.ErrUnauthorized, err.Error())
	}

	accountID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized.WrapMessage("token id is not an account id")
	}
	if claims.Subject != "" && claims.Subject != claims.ID {
		return nil, domainerrors.ErrUnauthorized.WrapMessage("token subject does not match id")
	}

	role := entity.Role(claims.Role)
	if !role.IsValid() {
		return nil, domainerrors.ErrUnauthorized.WrapMessage("token carries unknown role")
	}

	return &service.Claims{
		AccountID: accountID,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *jwtService) keyFunc(*jwt.Token) (any, error) {
	return s.secret, nil
}
