package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"valentinequest/internal/quest"
)

// setSessionCookie writes the session cookie.
func (app *App) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, sessionID, int(app.CookieMaxAge.Seconds()), "/", "", app.IsProduction, true)
}

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < MinSessionIDLen || uuid.Validate(sessionID) != nil {
		sessionID = uuid.NewString()
		app.setSessionCookie(c, sessionID)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// getQuest returns the live quest for a session, booting it from saved
// progress the first time it is seen.
func (app *App) getQuest(ctx context.Context, sessionID string) *quest.Quest {
	app.SessionMutex.RLock()
	q, exists := app.Sessions[sessionID]
	app.SessionMutex.RUnlock()
	if exists {
		return q
	}

	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	if q, exists := app.Sessions[sessionID]; exists {
		return q
	}
	q = quest.New(sessionID, app.Store, app.QuestOptions)
	if err := q.Boot(ctx); err != nil {
		logWarn("Failed to boot quest for session %s: %v", sessionID, err)
	}
	app.Sessions[sessionID] = q
	return q
}

// dropSession forgets the live quest for a session.
func (app *App) dropSession(sessionID string) {
	app.SessionMutex.Lock()
	delete(app.Sessions, sessionID)
	app.SessionMutex.Unlock()
}

// evictIdleSessions removes quests not used since cutoff. Their progress
// stays in the store and is restored on the next visit.
func (app *App) evictIdleSessions(cutoff time.Time) int {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	evicted := 0
	for id, q := range app.Sessions {
		if q.LastAccess().Before(cutoff) {
			delete(app.Sessions, id)
			evicted++
		}
	}
	return evicted
}
