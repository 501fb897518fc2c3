package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
)

const accessTokenType = "access_token"

// Verifier checks bearer tokens issued by the identity service. Accounts are
// not stored here, the token claims are trusted once the signature holds.
type Verifier struct {
	secret []byte
	now    func() time.Time
	log    logger.Logger
}

func NewVerifier(secret string, log logger.Logger) *Verifier {
	return &Verifier{secret: []byte(secret), now: time.Now, log: log}
}

// RoleCheck validates token and returns the user it was issued to.
func (v *Verifier) RoleCheck(ctx context.Context, token string) (*models.User, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, types.ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithTimeFunc(v.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		if err == nil {
			err = types.ErrInvalidToken
		}
		return nil, wrap.Error(ctx, errors.Join(types.ErrInvalidToken, err))
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, wrap.Error(ctx, types.ErrInvalidToken)
	}

	if typ, _ := mc["typ"].(string); typ != "" && typ != accessTokenType {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: token type %q", types.ErrInvalidToken, typ))
	}

	userID, _ := mc["user_id"].(string)
	if userID == "" {
		userID, _ = mc["sub"].(string)
	}
	if userID == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: missing 'user_id' claim", types.ErrInvalidToken))
	}

	role, _ := mc["role"].(string)
	return &models.User{ID: userID, Role: strings.ToUpper(role)}, nil
}

// Issue signs an access token, used by the dev token command and tests.
func (v *Verifier) Issue(user models.User, ttl time.Duration) (string, error) {
	issuedAt := v.now().UTC()
	claims := jwt.MapClaims{
		"typ":     accessTokenType,
		"user_id": user.ID,
		"role":    user.Role,
		"iat":     issuedAt.Unix(),
		"exp":     issuedAt.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
