package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
)

type (
	// AuthService turns a bearer token into the driver or admin it was issued to.
	AuthService interface {
		RoleCheck(ctx context.Context, token string) (*models.User, error)
	}

	Middleware struct {
		auth AuthService
		log  logger.Logger
	}
)

func NewMiddleware(auth AuthService, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}

// bearerRealm is announced on every 401 so device clients know to re-issue a token.
const bearerRealm = `Bearer realm="bus-fare-terminal"`

// reject answers the request with {"error": message}. Middleware rejections
// never carry a payload, only the reason.
func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", bearerRealm)
	reject(w, http.StatusUnauthorized, message)
}
