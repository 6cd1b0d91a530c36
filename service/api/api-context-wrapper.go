package api

import (
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/trackshelf/tracks-api/service/api/reqcontext"
)

const notReadyMessage = "Database not initialized yet. Please try again later."

// httpRouterHandler is the signature for functions that accepts a reqcontext.RequestContext in addition to those
// required by the httprouter package.
type httpRouterHandler func(http.ResponseWriter, *http.Request, httprouter.Params, reqcontext.RequestContext)

// readinessGate rejects every request while the database handle is not ready. Once it is, the ready database is put
// in the request context and the request goes on unchanged.
func (rt *_router) readinessGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		db, err := rt.handle.Database()
		if err != nil {
			rt.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: notReadyMessage})
			return
		}
		next.ServeHTTP(w, r.WithContext(reqcontext.WithDatabase(r.Context(), db)))
	})
}

// wrap parses the request and adds a reqcontext.RequestContext instance related to the request.
func (rt *_router) wrap(fn httpRouterHandler) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		reqUUID, err := uuid.NewV4()
		if err != nil {
			rt.baseLogger.WithError(err).Error("can't generate a request UUID")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var ctx = reqcontext.RequestContext{
			ReqUUID: reqUUID,
		}

		// Create a request-specific logger
		ctx.Logger = rt.baseLogger.WithFields(logrus.Fields{
			"reqid":     ctx.ReqUUID.String(),
			"remote-ip": r.RemoteAddr,
		})

		db, ok := reqcontext.DatabaseFrom(r.Context())
		if !ok {
			// Only reachable when the router is mounted without the readiness gate.
			ctx.Logger.Error("request reached a handler without a ready database")
			rt.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: notReadyMessage})
			return
		}
		ctx.Database = db

		// Call the next handler in chain (usually, the handler function for the path)
		fn(w, r, ps, ctx)
	}
}
