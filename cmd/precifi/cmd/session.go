package cmd

import (
	"fmt"
	"os"

	"github.com/precifi/precifi-go/api"
	"github.com/precifi/precifi-go/session"
	"github.com/precifi/precifi-go/storage/bboltstore"
)

// openManager wires a session manager over the on-disk credential store
// and an HTTP authenticator against the active environment's API. The
// returned cleanup closes the store.
func openManager() (*session.Manager, func(), error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := bboltstore.Open(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	env := environment()
	logger := env.NewLogger()
	client := api.NewClient(baseURL(), api.WithLogger(logger))
	m := session.NewManager(session.NewHTTPAuthenticator(client), store, client,
		session.WithLogger(logger))

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close credential store", "error", err)
		}
	}
	return m, cleanup, nil
}
