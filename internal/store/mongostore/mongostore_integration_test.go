//go:build integration

package mongostore_test

import (
	"context"
	"testing"
	"time"

	"ledger-core/internal/store"
	"ledger-core/internal/store/mongostore"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startMongo brings up a disposable single-node Mongo instance, mirroring
// the teacher's SetupPostgresContainer: start, wait for readiness, hand
// back a connected store, clean up on test exit.
func startMongo(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Waiting for connections").WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start mongodb testcontainer")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate mongodb testcontainer: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := mongostore.New(ctx, uri, "ledger_integration_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Disconnect(context.Background()) })

	return db
}

type probe struct {
	ID   int64  `bson:"_id"`
	Name string `bson:"name"`
}

// TestMongoStoreRoundTrip exercises Insert/FindOne/Update/Delete against a
// real MongoDB server, the one thing memstore's reflection-based doubles
// can't verify: that the Filter/Mutation DSL actually translates into
// queries and updates the driver accepts.
func TestMongoStoreRoundTrip(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()

	require.NoError(t, db.Insert(ctx, "probes", probe{ID: 1, Name: "first"}))

	var got probe
	require.NoError(t, db.FindOne(ctx, "probes", store.Eq("_id", int64(1)), &got))
	require.Equal(t, "first", got.Name)

	matched, err := db.Update(ctx, "probes", store.Eq("_id", int64(1)), store.Set("name", "renamed"))
	require.NoError(t, err)
	require.Equal(t, int64(1), matched)

	require.NoError(t, db.FindOne(ctx, "probes", store.Eq("_id", int64(1)), &got))
	require.Equal(t, "renamed", got.Name)

	require.NoError(t, db.Delete(ctx, "probes", store.Eq("_id", int64(1))))

	err = db.FindOne(ctx, "probes", store.Eq("_id", int64(1)), &got)
	require.ErrorIs(t, err, store.ErrNotFound)
}
