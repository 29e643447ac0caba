package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"werewolf/domain"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	ErrMissingTokenStr = "missing-token"
	ErrExpiredTokenStr = "expired-token"
	ErrForbiddenStr    = "forbidden"
	ErrUnknownStr      = "unknown-error"
)

// SubjectKey is the gin context key holding the verified token subject.
const SubjectKey = "subject"

type TokenVerifier interface {
	Verify(token string, scope string) (string, error)
}

// RequireScope rejects requests without a bearer token granting scope.
// Forged tokens are answered after badTokenDelay.
func RequireScope(verifier TokenVerifier, scope string, badTokenDelay time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			ctx.String(http.StatusUnauthorized, ErrMissingTokenStr)
			ctx.Abort()
			return
		}

		subject, err := verifier.Verify(token, scope)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidSigningAlg), errors.Is(err, domain.ErrInvalidTokenSignature), errors.Is(err, domain.ErrCorruptedToken):
				log.Warn().Err(err).Str("ip", ctx.ClientIP()).Msg("rejected forged admin token")
				time.Sleep(badTokenDelay)
				ctx.String(http.StatusUnauthorized, domain.ErrInvalidToken.Error())
			case errors.Is(err, domain.ErrExpiredToken):
				ctx.String(http.StatusUnauthorized, ErrExpiredTokenStr)
			case errors.Is(err, domain.ErrMissingScope):
				ctx.String(http.StatusForbidden, ErrForbiddenStr)
			default:
				log.Error().Err(err).Msg("admin token verification failed")
				ctx.String(http.StatusInternalServerError, ErrUnknownStr)
			}
			ctx.Abort()
			return
		}

		ctx.Set(SubjectKey, subject)
		ctx.Next()
	}
}
