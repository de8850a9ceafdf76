package middleware

import (
	"net/http"
	"strings"

	"go-event-reservation/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorContextKey = "actor"

// Claims 認證層簽發的 token 內容：身份與管理權限都已解析完畢，
// 核心只收結果，不重新推導權限
type Claims struct {
	UserID    int  `json:"user_id"`
	CanManage bool `json:"can_manage"`
	jwt.RegisteredClaims
}

// Auth 驗證 Bearer token 並把解析後的 Actor 放進請求 context
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing or invalid authorization header",
			})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			return
		}

		c.Set(actorContextKey, model.Actor{
			UserID:    claims.UserID,
			CanManage: claims.CanManage,
		})
		c.Next()
	}
}

// ActorFromContext 取出 Auth 放入的呼叫者身份
func ActorFromContext(c *gin.Context) (model.Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return model.Actor{}, false
	}
	actor, ok := value.(model.Actor)
	return actor, ok
}
