package router

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/rupify/backend/pkg/httperrors"
	"github.com/rupify/backend/pkg/httputil"
	"github.com/rupify/backend/pkg/ledger"
)

// Authenticate verifies the bearer token issued by the identity provider and
// stores the user it identifies in the request context.
//
// Users are created on their first authenticated request.
func Authenticate(secret []byte, service *ledger.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			httperrors.Handler(c, fmt.Errorf("%w: a bearer token is required", ledger.ErrUnauthorized))
			return
		}

		identity, err := parseIdentity(strings.TrimSpace(token), secret)
		if err != nil {
			log.Debug().Err(err).Msg("Rejected token")
			httperrors.Handler(c, fmt.Errorf("%w: the bearer token is invalid", ledger.ErrUnauthorized))
			return
		}

		user, err := service.ResolveUser(c.Request.Context(), identity)
		if err != nil {
			httperrors.Handler(c, err)
			return
		}

		httputil.SetUser(c, user)
		c.Next()
	}
}

// parseIdentity validates an HS256 token and returns the identity in its claims.
func parseIdentity(tokenString string, secret []byte) (ledger.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return ledger.Identity{}, err
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return ledger.Identity{}, err
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return ledger.Identity{
		Subject: subject,
		Email:   email,
		Name:    name,
	}, nil
}
