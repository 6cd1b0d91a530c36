package api

import (
	"net/http"
	"net/url"

	"github.com/gorilla/handlers"
	"github.com/julienschmidt/httprouter"

	"github.com/trackshelf/tracks-api/service/database"
)

// Handler returns an instance of httprouter.Router that handle APIs registered here
func (rt *_router) Handler() http.Handler {
	// Register routes
	rt.router.GET("/liveness", rt.wrap(rt.liveness))

	rt.router.GET("/tracks", rt.wrap(rt.listTracks))
	rt.router.GET("/tracks/artist/:artist", rt.wrap(rt.tracksBy(database.FilterArtist, "artist")))
	rt.router.GET("/tracks/genre/:genre", rt.wrap(rt.tracksBy(database.FilterGenre, "genre")))
	rt.router.GET("/tracks/release_year/:year", rt.wrap(rt.tracksBy(database.FilterReleaseYear, "year")))

	// Outer to inner: panic recovery, JSON body check, readiness gate, escaped path routing, router.
	var h http.Handler = rt.router
	h = routeOnEscapedPath(h)
	h = rt.readinessGate(h)
	h = rt.jsonBody(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{rt.baseLogger}),
	)(h)
	return h
}

// recoveryLogger adapts a logrus.FieldLogger to handlers.RecoveryHandlerLogger.
type recoveryLogger struct {
	logger interface{ Error(...interface{}) }
}

func (l recoveryLogger) Println(args ...interface{}) {
	l.logger.Error(args...)
}

// routeOnEscapedPath makes the router match on the escaped path, so an encoded "/" (%2F) stays inside its path
// segment. Path parameters therefore reach the handlers escaped; see pathParam.
func routeOnEscapedPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		escaped := r.URL.EscapedPath()
		if escaped != r.URL.Path {
			u := *r.URL
			u.Path = escaped
			u.RawPath = ""
			r2 := *r
			r2.URL = &u
			r = &r2
		}
		next.ServeHTTP(w, r)
	})
}

// notFound and methodNotAllowed keep the router's own replies JSON.
func (rt *_router) notFound(w http.ResponseWriter, r *http.Request) {
	rt.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not Found"})
}

func (rt *_router) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	rt.writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
}

// pathParam returns the unescaped value of a path parameter.
func pathParam(ps httprouter.Params, name string) (string, error) {
	return url.PathUnescape(ps.ByName(name))
}
