package main

// Session configuration constants
const (
	SessionCookieName = "session_id"
	MinSessionIDLen   = 36
)

// Route constants
const (
	RouteHome          = "/"
	RouteState         = "/state"
	RouteStart         = "/start"
	RouteNext          = "/next"
	RouteDriveStep     = "/drive/step"
	RoutePuzzlePlace   = "/puzzle/place"
	RouteScratch       = "/scratch"
	RouteQuizAnswer    = "/quiz/answer"
	RouteProposalPull  = "/proposal/pull"
	RoutePhotos        = "/photos"
	RouteReset         = "/reset"
	RouteHealthz       = "/healthz"
	RouteMetrics       = "/metrics"
	StaticPhotoPrefix  = "/static/photos/"
	PageTitle          = "Valentine's Quest"
	TemplateIndex      = "index.html"
	TemplateQuestBlock = "quest-content"
)

// Error message constants
const (
	ErrorBadRequest       = "Request could not be understood."
	ErrorWrongStage       = "That does not belong to this part of the quest."
	ErrorNotComplete      = "Finish this part of the quest first."
	ErrorNoNext           = "This part of the quest moves on by itself."
	ErrorQuizRejected     = "Not quite. Try again!"
	ErrorResetUnconfirmed = "Reset needs confirmation."
	ErrorInternal         = "Something went wrong."
)

// Context key constants
type contextKey string

const (
	requestIDKey contextKey = "request_id"
)
