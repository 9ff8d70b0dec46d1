package handlers

import (
	"errors"
	"net/http"

	"github.com/ebarcelosf/Activelearn-hub/internal/services"
	apperrors "github.com/ebarcelosf/Activelearn-hub/pkg/errors"
	"github.com/ebarcelosf/Activelearn-hub/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Services shared by every handler, set once by Init
var (
	Engine   *services.Engine
	Projects *services.ProjectStore
	Tracker  *services.PhaseTracker
	Feed     *services.ActivityLog
	Resetter *services.PasswordResetter
	Files    services.FileStore
)

type Deps struct {
	Engine   *services.Engine
	Projects *services.ProjectStore
	Tracker  *services.PhaseTracker
	Feed     *services.ActivityLog
	Resetter *services.PasswordResetter
	Files    services.FileStore
}

func Init(d Deps) {
	Engine = d.Engine
	Projects = d.Projects
	Tracker = d.Tracker
	Feed = d.Feed
	Resetter = d.Resetter
	Files = d.Files
}

// currentUser returns the authenticated user id set by AuthMiddleware
func currentUser(c *gin.Context) (string, bool) {
	userID := c.GetString("userId")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// respondError renders AppErrors as-is and hides everything else behind msg
func respondError(c *gin.Context, err error, msg string) {
	if appErr, ok := apperrors.As(err); ok {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	logger.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// triggerCall is one server-side badge trigger raised by a handler
type triggerCall struct {
	trigger string
	payload services.Payload
}

// fire runs triggers for the caller and returns what was granted. Grant
// failures are reported in the response but never undo the write.
func fire(c *gin.Context, userID string, calls ...triggerCall) gin.H {
	out := gin.H{"badges": []services.BadgeDefinition{}}
	if Engine == nil {
		return out
	}
	granted := []services.BadgeDefinition{}
	for _, call := range calls {
		defs, err := Engine.CheckTrigger(c.Request.Context(), userID, call.trigger, call.payload)
		granted = append(granted, defs...)
		if err != nil {
			out["badgeError"] = err.Error()
		}
	}
	out["badges"] = granted
	return out
}

func merge(dst gin.H, src gin.H) gin.H {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
