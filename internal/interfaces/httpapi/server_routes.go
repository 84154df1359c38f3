package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/fixtures", handler.ListFixturesByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.ListLeagueStandings)
}

func registerAnalysisRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/fixtures/{fixtureID}/analysis", OptionalAuth(verifier, http.HandlerFunc(handler.RequestMatchAnalysis)))
	mux.Handle("POST /v1/fixtures/{fixtureID}/predictions", OptionalAuth(verifier, http.HandlerFunc(handler.RequestMatchPredictions)))
	mux.Handle("GET /v1/me/quota", RequireAuth(verifier, http.HandlerFunc(handler.GetMyQuota)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunFixtureSyncJob)))
}
