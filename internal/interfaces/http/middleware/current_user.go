package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
)

// CurrentUserKey holds the *entities.User loaded by LoadUser
const CurrentUserKey = "currentUser"

// UserLoader loads the authenticated account
type UserLoader interface {
	GetUserByID(ctx context.Context, id uint) (*entities.User, error)
}

// LoadUser loads the authenticated user so handlers and role checks see the
// current approval state rather than the token claims. Must run after AuthMiddleware.
func LoadUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			abortWithError(c, domainerrors.Unauthorized("User not authenticated"))
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domainerrors.ErrNotFound) {
				abortWithError(c, domainerrors.Unauthorized("User no longer exists"))
				return
			}
			abortWithError(c, err)
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by LoadUser
func CurrentUser(c *gin.Context) (*entities.User, bool) {
	v, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*entities.User)
	return user, ok && user != nil
}

// RequireActive rejects accounts that are not approved and active.
// Must run after LoadUser.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWithError(c, domainerrors.Unauthorized("User not authenticated"))
			return
		}
		if !user.IsActive() {
			abortWithError(c, domainerrors.ErrNotApproved)
			return
		}
		c.Next()
	}
}
