package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const (
	ContextOperatorID   = "operatorID"
	ContextOperatorRole = "operatorRole"
)

// AuthMiddleware aceita bearer tokens HMAC emitidos para operadores da
// clínica. O subject identifica o operador.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "invalid_token_claims")
			return
		}

		operator, err := claims.GetSubject()
		if err != nil || operator == "" {
			httperr.Unauthorized(c, "invalid_token_payload")
			return
		}
		role, _ := claims["role"].(string)

		c.Set(ContextOperatorID, operator)
		c.Set(ContextOperatorRole, role)

		c.Next()
	}
}

// OperatorID vem vazio quando a rota não é protegida.
func OperatorID(c *gin.Context) string {
	return c.GetString(ContextOperatorID)
}
