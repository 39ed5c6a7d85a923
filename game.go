package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"valentinequest/internal/quest"
	"valentinequest/internal/quest/games"
)

// questResponse is the JSON body of every quest endpoint.
type questResponse struct {
	Quest  quest.View `json:"quest"`
	Result any        `json:"result,omitempty"`
	Error  string     `json:"error,omitempty"`
}

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		c.ContentType() == gin.MIMEJSON
}

// questErrorStatus maps a quest error to an HTTP status and a visitor-facing
// message.
func questErrorStatus(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, games.ErrQuizRejected):
		return http.StatusUnprocessableEntity, ErrorQuizRejected
	case errors.Is(err, quest.ErrWrongStage), errors.Is(err, quest.ErrBackwardTransition):
		return http.StatusConflict, ErrorWrongStage
	case errors.Is(err, quest.ErrStageNotComplete):
		return http.StatusConflict, ErrorNotComplete
	case errors.Is(err, quest.ErrNoNextAction):
		return http.StatusConflict, ErrorNoNext
	case errors.Is(err, games.ErrNoSuchPiece), errors.Is(err, quest.ErrUnknownStage):
		return http.StatusBadRequest, ErrorBadRequest
	default:
		return http.StatusInternalServerError, ErrorInternal
	}
}

// respond renders the quest after an action: JSON for API clients, the
// quest fragment for htmx, and a redirect home for plain form posts.
func (app *App) respond(c *gin.Context, q *quest.Quest, result any, err error) {
	status, errMsg := questErrorStatus(err)
	if err != nil && status == http.StatusInternalServerError {
		logWarn("[request_id=%v] Session %s request %s failed: %v", requestID(c.Request.Context()), q.Key(), c.FullPath(), err)
	}

	switch {
	case wantsJSON(c):
		c.JSON(status, questResponse{Quest: q.Snapshot(), Result: result, Error: errMsg})
	case isHTMX(c):
		if errMsg != "" {
			payload := map[string]string{"server_error": errMsg}
			if b, jerr := json.Marshal(payload); jerr == nil {
				c.Header("HX-Trigger", string(b))
			} else {
				logWarn("Failed to marshal HX-Trigger payload: %v", jerr)
			}
		}
		c.HTML(http.StatusOK, TemplateQuestBlock, gin.H{"quest": q.Snapshot(), "error": errMsg})
	case errMsg != "":
		app.renderPage(c, q, errMsg)
	default:
		c.Redirect(http.StatusSeeOther, RouteHome)
	}
}

// renderPage renders the full page.
func (app *App) renderPage(c *gin.Context, q *quest.Quest, errMsg string) {
	c.HTML(http.StatusOK, TemplateIndex, gin.H{
		"title": PageTitle,
		"quest": q.Snapshot(),
		"error": errMsg,
	})
}

// badRequest answers a request whose body could not be bound.
func (app *App) badRequest(c *gin.Context, err error) {
	logWarn("Rejected malformed request to %s: %v", c.FullPath(), err)
	if wantsJSON(c) || !isHTMX(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorBadRequest})
		return
	}
	c.Header("HX-Trigger", `{"server_error":"`+ErrorBadRequest+`"}`)
	c.Status(http.StatusBadRequest)
}
