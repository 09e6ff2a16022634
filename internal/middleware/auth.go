package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionIDKey is the fiber Locals key holding the authenticated session ID.
const SessionIDKey = "sessionId"

var ErrInvalidToken = errors.New("invalid or expired token")

// SessionCheck reports an error when a session behind a valid token is gone
// or expired. A nil SessionCheck trusts the token alone.
type SessionCheck func(sessionID uuid.UUID) error

type Claims struct {
	SessionID uuid.UUID `json:"sessionId"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, sessionID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates an HS256 token and returns its claims.
func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.SessionID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func Protected(secret string, active SessionCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization format",
			})
		}

		claims, err := ParseToken(secret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		if active != nil {
			if err := active(claims.SessionID); err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Session not found",
				})
			}
		}

		c.Locals(SessionIDKey, claims.SessionID)
		return c.Next()
	}
}

// TokenFromQuery authenticates websocket upgrades, which cannot carry custom
// headers from browsers. The Authorization header is still accepted.
func TokenFromQuery(secret string, active SessionCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Query("token")
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				tokenString = ""
			}
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		claims, err := ParseToken(secret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}
		if active != nil {
			if err := active(claims.SessionID); err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Session not found",
				})
			}
		}

		c.Locals(SessionIDKey, claims.SessionID)
		return c.Next()
	}
}

// GetSessionID extracts the session ID stored by Protected.
func GetSessionID(c *fiber.Ctx) uuid.UUID {
	sessionID, ok := c.Locals(SessionIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return sessionID
}
