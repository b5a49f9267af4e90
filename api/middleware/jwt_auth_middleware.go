package middleware

import (
	"net/http"
	"strings"

	"github.com/nine-muses/cuesong/api/controller"
	"github.com/nine-muses/cuesong/internal/tokenutil"
	"github.com/gin-gonic/gin"
)

func JwtAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		t := strings.Split(authHeader, " ")
		if len(t) == 2 {
			authToken := t[1]
			authorized, err := tokenutil.IsAuthorized(authToken, secret)
			if authorized {
				userID, err := tokenutil.ExtractIDFromToken(authToken, secret)
				if err != nil {
					controller.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
					c.Abort()
					return
				}
				c.Set("x-user-id", userID)
				c.Next()
				return
			}
			controller.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			c.Abort()
			return
		}
		controller.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "not authorized")
		c.Abort()
	}
}
