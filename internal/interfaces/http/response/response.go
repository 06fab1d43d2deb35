package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/pkg/logger"
	"agrimarket.backend/pkg/utils"
)

// RedirectKey holds the location a SESSION_EXPIRED error sends the client to.
// The wizard middleware sets it to step 1 of the current flow.
const RedirectKey = "sessionExpiredRedirect"

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Paginated sends a list under key together with pagination metadata
func Paginated(c *gin.Context, key string, items interface{}, total int64, page utils.PaginationParams) {
	c.JSON(http.StatusOK, gin.H{
		key:          items,
		"pagination": utils.CalculateMeta(total, page.Page, page.Limit),
	})
}

// SeeOther redirects a wizard client to its next location
func SeeOther(c *gin.Context, location string, data interface{}) {
	c.Header("Location", location)
	c.JSON(http.StatusSeeOther, data)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := domainerrors.ToAppError(err)

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
		"error":   appErr.Message, // Backward compatibility
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}

	if appErr.Status == http.StatusSeeOther {
		location := c.GetString(RedirectKey)
		if location == "" {
			location = "/"
		}
		c.Header("Location", location)
		body["redirect"] = location
	}

	if appErr.Status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed", zap.Error(err))
	}

	c.JSON(appErr.Status, body)
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
