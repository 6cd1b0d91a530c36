package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/trackshelf/tracks-api/service/database"
)

// initDatabase opens the SQLite file and moves the handle to ready. It is meant to run once, concurrently with the
// API listener.
func initDatabase(h *database.Handle, filename string, readOnly bool, logger logrus.FieldLogger) error {
	logger.WithField("filename", filename).Info("initializing database support")

	return h.Initialize(func() (database.AppDatabase, error) {
		db, err := database.Open(filename, readOnly)
		if err != nil {
			return nil, fmt.Errorf("opening SQLite: %w", err)
		}

		appdb, err := database.New(db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating AppDatabase: %w", err)
		}
		return appdb, nil
	})
}

func closeDatabase(h *database.Handle, logger logrus.FieldLogger) {
	logger.Debug("database stopping")
	if err := h.Close(); err != nil {
		logger.WithError(err).Warning("error closing database")
	}
}
