package serverutils

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const adminRole = "admin"

var ErrInvalidSecret = errors.New("invalid admin secret")

// AdminAuth issues and verifies admin tokens. Holding the shared secret is the
// only way to obtain one.
type AdminAuth struct {
	secret    string
	jwtSecret []byte
	ttl       time.Duration
}

func NewAdminAuth(secret, jwtSecret string, ttl time.Duration) *AdminAuth {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AdminAuth{secret: secret, jwtSecret: []byte(jwtSecret), ttl: ttl}
}

// IssueToken returns a signed token when candidate matches the shared secret.
// An unset secret disables the admin surface.
func (a *AdminAuth) IssueToken(candidate string) (string, time.Time, error) {
	if a.secret == "" || subtle.ConstantTimeCompare([]byte(candidate), []byte(a.secret)) != 1 {
		return "", time.Time{}, ErrInvalidSecret
	}

	expiresAt := time.Now().Add(a.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": adminRole,
		"exp":  expiresAt.Unix(),
		"iat":  time.Now().Unix(),
	})
	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (a *AdminAuth) Middleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing or invalid authorization header"))
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return a.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || token == nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != adminRole {
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(403, "Admin access required"))
	}

	ctx.Locals("role", adminRole)
	return ctx.Next()
}
