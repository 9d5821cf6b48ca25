package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/totegamma/fantalega/internal/domain"
)

var tracer = otel.Tracer("auth")

const adminSubject = "admin"

// MarkerCodec is the plain admin session: the cookie carries the literal
// marker and verification is string equality. It is not tamper evident.
type MarkerCodec struct{}

func NewMarkerCodec() MarkerCodec {
	return MarkerCodec{}
}

func (MarkerCodec) Issue(ctx context.Context) (string, error) {
	return domain.AdminSessionMarker, nil
}

func (MarkerCodec) Verify(ctx context.Context, token string) bool {
	return token == domain.AdminSessionMarker
}

// SignedCodec issues HS256 JWTs as admin session values and verifies
// signature, issuer, subject and expiry on every request.
type SignedCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewSignedCodec(secret, issuer string, ttl time.Duration) *SignedCodec {
	return &SignedCodec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *SignedCodec) Issue(ctx context.Context) (string, error) {
	_, span := tracer.Start(ctx, "Auth.Service.IssueAdminSession")
	defer span.End()

	if len(s.secret) == 0 {
		err := fmt.Errorf("session secret not configured")
		span.RecordError(err)
		return "", err
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		span.RecordError(errors.Wrap(err, "SignedCodec.Issue: SignedString failed"))
		return "", err
	}
	return token, nil
}

func (s *SignedCodec) Verify(ctx context.Context, token string) bool {
	_, span := tracer.Start(ctx, "Auth.Service.VerifyAdminSession")
	defer span.End()

	if len(s.secret) == 0 {
		return false
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithSubject(adminSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		span.RecordError(errors.Wrap(err, "admin session verification failed"))
		return false
	}
	return true
}
