package api

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/trackshelf/tracks-api/service/api/reqcontext"
	"github.com/trackshelf/tracks-api/service/database"
)

const noTrackFoundMessage = "No track found"

// listTracks returns every track. An empty table is still a 200 with an empty list.
func (rt *_router) listTracks(w http.ResponseWriter, r *http.Request, ps httprouter.Params, ctx reqcontext.RequestContext) {
	start := time.Now()
	tracks, err := ctx.Database.ListTracks(r.Context())
	rt.metrics.observe("all", start, len(tracks), err, false)
	if err != nil {
		ctx.Logger.WithError(err).Error("error fetching tracks")
		rt.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to fetch tracks."})
		return
	}

	ctx.Logger.WithField("count", len(tracks)).Debug("tracks fetched")
	rt.writeJSON(w, http.StatusOK, tracksResponse{Tracks: tracks})
}

// tracksBy returns a handler listing the tracks whose filter column equals the path parameter param. No match is a
// 404; a storage failure is a 500 carrying the error text. The value is not validated: the database decides what
// it matches.
func (rt *_router) tracksBy(filter database.Filter, param string) httpRouterHandler {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, ctx reqcontext.RequestContext) {
		logger := ctx.Logger.WithField("filter", filter.String())
		value, err := pathParam(ps, param)
		if err != nil {
			rt.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		start := time.Now()
		tracks, err := ctx.Database.FindTracks(r.Context(), filter, value)
		rt.metrics.observe(filter.String(), start, len(tracks), err, true)
		if err != nil {
			logger.WithError(err).Error("error fetching tracks")
			rt.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}

		logger.WithField("count", len(tracks)).Debug("tracks fetched")
		if len(tracks) == 0 {
			rt.writeJSON(w, http.StatusNotFound, messageResponse{Message: noTrackFoundMessage})
			return
		}
		rt.writeJSON(w, http.StatusOK, tracksResponse{Tracks: tracks})
	}
}
