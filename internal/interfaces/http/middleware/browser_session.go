package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"agrimarket.backend/internal/config"
	"agrimarket.backend/pkg/crypto"
)

// BrowserSessionKey holds the browser session id set by BrowserSession
const BrowserSessionKey = "browserSessionId"

var sessionIDPattern = regexp.MustCompile(`^[a-f0-9]{32,128}$`)

var newBrowserSessionID = crypto.GenerateSessionID

// BrowserSession issues and refreshes the cookie that scopes the registration
// cursor to one browser. Malformed cookie values are replaced.
func BrowserSession(cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.CookieName)
		if err != nil || !sessionIDPattern.MatchString(id) {
			id, err = newBrowserSessionID()
			if err != nil {
				abortWithError(c, err)
				return
			}
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, id, int(cfg.TTL.Seconds()), "/", "", cfg.CookieSecure, true)
		c.Set(BrowserSessionKey, id)
		c.Next()
	}
}

// GetBrowserSessionID returns the id set by BrowserSession
func GetBrowserSessionID(c *gin.Context) string {
	return c.GetString(BrowserSessionKey)
}
