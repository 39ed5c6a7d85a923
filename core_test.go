package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"valentinequest/internal/progress"
	"valentinequest/internal/quest"
)

func dummyContext() context.Context {
	return context.Background()
}

func TestGetOrCreateSession_KeepsValidCookie(t *testing.T) {
	app, _ := newTestApp(t)
	id := uuid.NewString()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})

	if got := app.getOrCreateSession(c); got != id {
		t.Errorf("getOrCreateSession = %q, want %q", got, id)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("a valid cookie should not be replaced")
	}
}

func TestGetOrCreateSession_ReplacesInvalidCookie(t *testing.T) {
	app, _ := newTestApp(t)
	for _, bad := range []string{"", "short", "../../../../etc/passwd-aaaaaaaaaaaaaaaaaaa", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request, _ = http.NewRequest("GET", "/", nil)
		if bad != "" {
			c.Request.AddCookie(&http.Cookie{Name: SessionCookieName, Value: bad})
		}
		got := app.getOrCreateSession(c)
		if got == bad || uuid.Validate(got) != nil {
			t.Errorf("cookie %q: got session %q, want a fresh uuid", bad, got)
		}
		if len(w.Result().Cookies()) != 1 {
			t.Errorf("cookie %q: expected a new session cookie", bad)
		}
	}
}

func TestGetQuest_ReusesLiveQuest(t *testing.T) {
	app, _ := newTestApp(t)
	id := uuid.NewString()

	a := app.getQuest(dummyContext(), id)
	b := app.getQuest(dummyContext(), id)
	if a != b {
		t.Error("getQuest should return the same quest for a session")
	}
	if a.Key() != id {
		t.Errorf("quest key = %q, want %q", a.Key(), id)
	}
}

func TestGetQuest_RestoresSavedProgress(t *testing.T) {
	app, _ := newTestApp(t)
	id := uuid.NewString()
	saved := progress.State{CurrentStage: int(quest.StagePuzzle), RevealedIndices: []int{0, 2, 4, 5, 6, 9}}
	if err := app.Store.Save(dummyContext(), id, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	v := app.getQuest(dummyContext(), id).Snapshot()
	if v.Stage != quest.StagePuzzle {
		t.Errorf("restored stage = %v, want puzzle", v.Stage)
	}
	if !equalInts(v.Revealed, saved.RevealedIndices) {
		t.Errorf("restored letters = %v, want %v", v.Revealed, saved.RevealedIndices)
	}
	for _, s := range v.Slots {
		if s.Pulse {
			t.Errorf("restored slot %d should not pulse", s.Index)
		}
	}
}

func TestEvictIdleSessions(t *testing.T) {
	app, _ := newTestApp(t)
	idle := uuid.NewString()
	app.getQuest(dummyContext(), idle)

	if n := app.evictIdleSessions(time.Now().Add(-time.Minute)); n != 0 {
		t.Errorf("evicted %d fresh sessions, want 0", n)
	}
	if n := app.evictIdleSessions(time.Now().Add(time.Minute)); n != 1 {
		t.Errorf("evicted %d sessions, want 1", n)
	}
	app.SessionMutex.RLock()
	_, exists := app.Sessions[idle]
	app.SessionMutex.RUnlock()
	if exists {
		t.Error("idle session should be gone from memory")
	}
}

func TestEvictedSessionResumes(t *testing.T) {
	app, _ := newTestApp(t)
	id := uuid.NewString()
	q := app.getQuest(dummyContext(), id)
	if err := q.Start(dummyContext()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	app.evictIdleSessions(time.Now().Add(time.Minute))

	resumed := app.getQuest(dummyContext(), id)
	if resumed == q {
		t.Fatal("expected a freshly booted quest after eviction")
	}
	if got := resumed.Snapshot().Stage; got != quest.StageDriving {
		t.Errorf("resumed stage = %v, want driving", got)
	}
}
