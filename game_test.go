package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"valentinequest/internal/quest"
	"valentinequest/internal/quest/games"
)

func TestQuestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{nil, http.StatusOK, ""},
		{&games.RejectedError{TextOK: true}, http.StatusUnprocessableEntity, ErrorQuizRejected},
		{fmt.Errorf("%w: on intro", quest.ErrWrongStage), http.StatusConflict, ErrorWrongStage},
		{quest.ErrBackwardTransition, http.StatusConflict, ErrorWrongStage},
		{quest.ErrStageNotComplete, http.StatusConflict, ErrorNotComplete},
		{quest.ErrNoNextAction, http.StatusConflict, ErrorNoNext},
		{games.ErrNoSuchPiece, http.StatusBadRequest, ErrorBadRequest},
		{quest.ErrUnknownStage, http.StatusBadRequest, ErrorBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError, ErrorInternal},
	}
	for _, c := range cases {
		status, msg := questErrorStatus(c.err)
		if status != c.status || msg != c.msg {
			t.Errorf("questErrorStatus(%v) = %d, %q; want %d, %q", c.err, status, msg, c.status, c.msg)
		}
	}
}

func testContext(headers map[string]string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest("POST", "/", nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func TestWantsJSON(t *testing.T) {
	if !wantsJSON(testContext(map[string]string{"Accept": "application/json"})) {
		t.Error("Accept: application/json should want JSON")
	}
	if !wantsJSON(testContext(map[string]string{"Content-Type": "application/json"})) {
		t.Error("JSON bodies should get JSON back")
	}
	if wantsJSON(testContext(map[string]string{"Accept": "text/html"})) {
		t.Error("browsers should not get JSON")
	}
}

func TestIsHTMX(t *testing.T) {
	if !isHTMX(testContext(map[string]string{"HX-Request": "true"})) {
		t.Error("HX-Request: true should be htmx")
	}
	if isHTMX(testContext(nil)) {
		t.Error("plain requests are not htmx")
	}
}

func TestRespond_FormPostRedirects(t *testing.T) {
	app, _ := newTestApp(t)
	router := app.setupRouter("templates/*.html")

	req, _ := http.NewRequest("POST", RouteStart, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Errorf("POST /start returned %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != RouteHome {
		t.Errorf("Location = %q, want %q", loc, RouteHome)
	}
}

func TestRespond_HTMXErrorTrigger(t *testing.T) {
	app, _ := newTestApp(t)
	router := app.setupRouter("templates/*.html")

	req, _ := http.NewRequest("POST", RouteNext, nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /next returned %d, want 200", w.Code)
	}
	if got := w.Header().Get("HX-Trigger"); got == "" {
		t.Error("Expected an HX-Trigger header carrying the error")
	}
}
