package database_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trackshelf/tracks-api/service/database"
)

type stubDB struct{}

func (stubDB) Ping(context.Context) error { return nil }

func (stubDB) ListTracks(context.Context) ([]database.Track, error) { return nil, nil }

func (stubDB) FindTracks(context.Context, database.Filter, string) ([]database.Track, error) {
	return nil, nil
}

func TestHandleZeroValueNotReady(t *testing.T) {
	var h database.Handle
	require.Equal(t, database.StateUninitialized, h.State())

	_, err := h.Database()
	require.ErrorIs(t, err, database.ErrNotReady)
}

func TestHandleInitialize(t *testing.T) {
	var h database.Handle
	err := h.Initialize(func() (database.AppDatabase, error) { return stubDB{}, nil })
	require.NoError(t, err)
	require.Equal(t, database.StateReady, h.State())

	db, err := h.Database()
	require.NoError(t, err)
	require.Equal(t, stubDB{}, db)
}

func TestHandleInitializeOnce(t *testing.T) {
	var h database.Handle
	require.NoError(t, h.Initialize(func() (database.AppDatabase, error) { return stubDB{}, nil }))

	called := false
	err := h.Initialize(func() (database.AppDatabase, error) {
		called = true
		return stubDB{}, nil
	})
	require.ErrorIs(t, err, database.ErrAlreadyInitialized)
	require.False(t, called)
}

func TestHandleInitializeFailure(t *testing.T) {
	var h database.Handle
	boom := errors.New("unable to open database file")

	err := h.Initialize(func() (database.AppDatabase, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	require.Equal(t, database.StateUninitialized, h.State())

	_, err = h.Database()
	require.ErrorIs(t, err, database.ErrNotReady)
}

func TestHandleNotBlockedWhileOpening(t *testing.T) {
	var h database.Handle
	opening := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = h.Initialize(func() (database.AppDatabase, error) {
			close(opening)
			<-release
			return stubDB{}, nil
		})
	}()

	<-opening
	_, err := h.Database()
	require.ErrorIs(t, err, database.ErrNotReady)

	close(release)
	wg.Wait()
	_, err = h.Database()
	require.NoError(t, err)
}

func TestNewReadyHandle(t *testing.T) {
	h := database.NewReadyHandle(stubDB{})
	require.Equal(t, database.StateReady, h.State())
	require.Equal(t, "ready", h.State().String())
}
