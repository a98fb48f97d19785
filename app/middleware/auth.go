package appMiddleware

import (
	"os"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const UserIDKey contextKey = "userID"

// Claims carries the opaque authenticated-user identifier issued by the
// external identity collaborator. The engine never mints tokens itself.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func jwtSecretKey() []byte {
	return []byte(os.Getenv("JWT_SECRET_KEY"))
}
