/*
Package reqcontext contains the request context. Each request will have its own instance of RequestContext filled by the
middleware code in the api-context-wrapper.go (parent package).

Each value here should be assumed valid only per request only, with some exceptions like the logger.
*/
package reqcontext

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trackshelf/tracks-api/service/database"
)

// RequestContext is the context of the request, for request-dependent parameters
type RequestContext struct {
	// ReqUUID is the request unique ID
	ReqUUID uuid.UUID

	// Logger is a custom field logger for the request
	Logger logrus.FieldLogger

	// Database is the ready database handed over by the readiness gate. It is never nil inside a handler.
	Database database.AppDatabase
}

type databaseKey struct{}

// WithDatabase returns a copy of ctx carrying the ready database.
func WithDatabase(ctx context.Context, db database.AppDatabase) context.Context {
	return context.WithValue(ctx, databaseKey{}, db)
}

// DatabaseFrom returns the database stored by WithDatabase, if any.
func DatabaseFrom(ctx context.Context) (database.AppDatabase, bool) {
	db, ok := ctx.Value(databaseKey{}).(database.AppDatabase)
	return db, ok && db != nil
}
