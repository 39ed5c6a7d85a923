package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"valentinequest/internal/metrics"
	"valentinequest/internal/quest/games"
)

// homeHandler renders the quest page for the current session.
func (app *App) homeHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	q := app.getQuest(c.Request.Context(), sessionID)
	app.renderPage(c, q, "")
}

// stateHandler returns the current quest snapshot.
func (app *App) stateHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	q := app.getQuest(c.Request.Context(), sessionID)
	if isHTMX(c) {
		c.HTML(http.StatusOK, TemplateQuestBlock, gin.H{"quest": q.Snapshot()})
		return
	}
	c.JSON(http.StatusOK, questResponse{Quest: q.Snapshot()})
}

// startHandler leaves the intro.
func (app *App) startHandler(c *gin.Context) {
	ctx := c.Request.Context()
	q := app.getQuest(ctx, app.getOrCreateSession(c))
	app.respond(c, q, nil, q.Start(ctx))
}

// nextHandler acknowledges a completed stage.
func (app *App) nextHandler(c *gin.Context) {
	ctx := c.Request.Context()
	q := app.getQuest(ctx, app.getOrCreateSession(c))
	app.respond(c, q, nil, q.Next(ctx))
}

// driveStepHandler reports one frame of the driving game.
func (app *App) driveStepHandler(c *gin.Context) {
	ctx := c.Request.Context()
	q := app.getQuest(ctx, app.getOrCreateSession(c))
	var req DriveStepRequest
	if err := c.ShouldBind(&req); err != nil {
		app.badRequest(c, err)
		return
	}
	hit, err := q.Drive(ctx, games.Point{X: req.X, Z: req.Z})
	app.respond(c, q, gin.H{"collected": hit}, err)
}

// puzzlePlaceHandler drops a jigsaw piece.
func (app *App) puzzlePlaceHandler(c *gin.Context) {
	ctx := c.Request.Context()
	q := app.getQuest(ctx, app.getOrCreateSession(c))
	var req PuzzlePlaceRequest
	if err := c.ShouldBind(&req); err != nil {
		app.badRequest(c, err)
		return
	}
	placed, err := q.PlacePiece(ctx, *req.Piece, *req.Slot)
	app.respond(c, q, gin.H{"placed": placed}, err)
}

// scratchHandler clears scratch card cells.
func (app *App) scratchHandler(c *gin.Context) {
	ctx := c.Request.Context()
	q := app.getQuest(ctx, app.getOrCreateSession(c))
	var req ScratchRequest
	if err := c.ShouldBind(&req); err != nil {
		app.badRequest(c, err)
		return
	}
	coverage, err := q.Scratch(ctx, req.Cells)
	app.respond(c, q, gin.H{"coverage": coverage}, err)
}

// quizAnswerHandler checks a quiz attempt. A wrong attempt only resets the
// form; revealed letters and stage stay as they were.
func (app *App) quizAnswerHandler(c *gin.Context) {
	ctx := c.Request.Context()
	q := app.getQuest(ctx, app.getOrCreateSession(c))
	var req QuizAnswerRequest
	if err := c.ShouldBind(&req); err != nil {
		app.badRequest(c, err)
		return
	}
	err := q.AnswerQuiz(ctx, req.Answer, req.Slider)
	var result any
	var rej *games.RejectedError
	if errors.As(err, &rej) {
		metrics.QuizRejections.Inc()
		result = gin.H{"textOk": rej.TextOK, "sliderOk": rej.SliderOK}
	} else if err == nil {
		result = gin.H{"advanceAfterMs": app.QuestOptions.Quiz.SequenceDelay.Milliseconds()}
	}
	app.respond(c, q, result, err)
}

// proposalPullHandler reports the pull control position.
func (app *App) proposalPullHandler(c *gin.Context) {
	ctx := c.Request.Context()
	q := app.getQuest(ctx, app.getOrCreateSession(c))
	var req ProposalPullRequest
	if err := c.ShouldBind(&req); err != nil {
		app.badRequest(c, err)
		return
	}
	accepted, err := q.Pull(ctx, req.Fraction)
	app.respond(c, q, gin.H{"accepted": accepted}, err)
}

// photosHandler lists the photo matrix. It is empty until the final stage
// or when the manifest is missing.
func (app *App) photosHandler(c *gin.Context) {
	q := app.getQuest(c.Request.Context(), app.getOrCreateSession(c))
	rows := q.Photos()
	if rows == nil {
		rows = [][]string{}
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// resetHandler wipes all progress and starts a new session, after an
// explicit confirmation.
func (app *App) resetHandler(c *gin.Context) {
	ctx := c.Request.Context()
	var req ResetRequest
	if err := c.ShouldBind(&req); err != nil {
		app.badRequest(c, err)
		return
	}
	if !req.Confirm && c.Query("confirm") != "1" {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorResetUnconfirmed})
		return
	}

	sessionID := app.getOrCreateSession(c)
	q := app.getQuest(ctx, sessionID)
	if err := q.Reset(ctx); err != nil {
		logWarn("Failed to reset session %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrorInternal})
		return
	}
	app.dropSession(sessionID)

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", app.IsProduction, true)
	newSessionID := uuid.NewString()
	app.setSessionCookie(c, newSessionID)
	logInfo("Session %s reset, continuing as %s", sessionID, newSessionID)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"reset": true})
		return
	}
	if isHTMX(c) {
		c.Header("HX-Redirect", RouteHome)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, RouteHome)
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	app.SessionMutex.RLock()
	sessions := len(app.Sessions)
	app.SessionMutex.RUnlock()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"env":       map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"sessions":  sessions,
		"uptime":    formatUptime(time.Since(app.StartTime)),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
