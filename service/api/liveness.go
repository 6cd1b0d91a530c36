package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/trackshelf/tracks-api/service/api/reqcontext"
)

// liveness is an HTTP handler that checks the API server status. If the server cannot serve requests (e.g., some
// resources are not ready), this should reply with HTTP Status 500. Otherwise, with HTTP Status 200
func (rt *_router) liveness(w http.ResponseWriter, r *http.Request, ps httprouter.Params, ctx reqcontext.RequestContext) {
	if err := ctx.Database.Ping(r.Context()); err != nil {
		ctx.Logger.WithError(err).Error("database ping failed")
		rt.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.WriteHeader(http.StatusOK)
}
