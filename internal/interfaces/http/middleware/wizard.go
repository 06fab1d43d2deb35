package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/interfaces/http/response"
	"agrimarket.backend/internal/usecases"
)

// WizardKey holds the entities.WizardContext built by Wizard
const WizardKey = "wizardContext"

// CursorResolver reads the in-progress registration of a browser session
type CursorResolver interface {
	ResolveCursor(ctx context.Context, flow entities.RegistrationFlow, sessionID string) (uint, error)
}

// Wizard builds the explicit wizard state for one step of flow. A missing
// cursor leaves UserID zero; the step itself decides whether that is an error.
// Must run after BrowserSession.
func Wizard(resolver CursorResolver, flow entities.RegistrationFlow, step int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.RedirectKey, usecases.StepPath(flow, entities.StepBasicInfo))

		wc := entities.WizardContext{
			Flow:      flow,
			SessionID: GetBrowserSessionID(c),
			Step:      step,
		}

		userID, err := resolver.ResolveCursor(c.Request.Context(), flow, wc.SessionID)
		switch {
		case err == nil:
			wc.UserID = userID
		case errors.Is(err, domainerrors.ErrMissingCursor):
		default:
			abortWithError(c, err)
			return
		}

		c.Set(WizardKey, wc)
		c.Next()
	}
}

// GetWizardContext returns the state set by Wizard
func GetWizardContext(c *gin.Context) (entities.WizardContext, bool) {
	v, exists := c.Get(WizardKey)
	if !exists {
		return entities.WizardContext{}, false
	}
	wc, ok := v.(entities.WizardContext)
	return wc, ok
}
