// app/actormw.go
package app

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// 认证在上游网关完成，这里只接收已解析的操作者 id。
// creator_id 一律显式传给生命周期管理器，不走全局会话态。
const ActorHeader = "X-Actor-ID"

func ActorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(ActorHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "missing actor"})
			return
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid actor"})
			return
		}
		c.Set("actorID", uint(id))
		c.Next()
	}
}

// ActorID handler 里取操作者 id
func ActorID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("actorID")
	if !ok {
		return 0, false
	}
	id, _ := v.(uint)
	return id, id != 0
}
