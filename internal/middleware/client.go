package middleware

import (
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ClientIDKey    = "client_id"
	ClientIDHeader = "X-Client-ID"
	ClientCookie   = "surprise_client"

	clientCookieMaxAge = 30 * 24 * time.Hour
)

var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// ClientID identifies the browser profile that owns a draft slot and its
// ephemeral photos. The id comes from the X-Client-ID header or the
// surprise_client cookie; a fresh one is issued as a cookie otherwise.
func ClientID(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(ClientIDHeader)
		if !clientIDPattern.MatchString(id) {
			id, _ = c.Cookie(ClientCookie)
		}
		if !clientIDPattern.MatchString(id) {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ClientCookie, id, int(clientCookieMaxAge.Seconds()), "/", "", secureCookie, true)
		}
		c.Set(ClientIDKey, id)
		c.Header(ClientIDHeader, id)
		c.Next()
	}
}

func ClientIDFrom(c *gin.Context) string {
	return c.GetString(ClientIDKey)
}
