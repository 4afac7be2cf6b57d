// Package db provides integration tests for SurrealDB operations.
package db

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/raphaelgruber/erdscan/internal/models"
	"github.com/raphaelgruber/erdscan/internal/service"
)

var testDB *Client
var testContainer testcontainers.Container

// TestMain sets up and tears down the SurrealDB container for all tests.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	// Disable ryuk (cleanup container) as it can cause issues in some environments
	os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")

	ctx := context.Background()

	var err error
	testContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0-beta.1",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--log", "info", "--user", "root", "--pass", "root"},
			WaitingFor:   wait.ForLog("Started web server").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("Failed to start SurrealDB container: %v", err)
	}

	host, err := testContainer.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to get container host: %v", err)
	}
	// testcontainers may return "null" as host in some environments
	if host == "" || host == "null" {
		host = "localhost"
	}
	mappedPort, err := testContainer.MappedPort(ctx, "8000")
	if err != nil {
		log.Fatalf("Failed to get mapped port: %v", err)
	}

	testDB, err = NewClient(ctx, Config{
		URL:       fmt.Sprintf("ws://%s:%s/rpc", host, mappedPort.Port()),
		Namespace: "test",
		Database:  "test",
		Username:  "root",
		Password:  "root",
		AuthLevel: "root",
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := testDB.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	code := m.Run()

	_ = testDB.Close(ctx)
	_ = testContainer.Terminate(ctx)

	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("skipping integration test in short mode")
	}
	require.NoError(t, testDB.WipeData(context.Background()))
}

func scoredFixture() []models.Entity {
	desc := "Sales Document Header"
	return []models.Entity{
		{
			ID: "18", Name: "Customer", Columns: models.WithColumns("No.", "Name"),
			Importance: 2, SecondImportance: 5, LinkedEntities: []string{"36", "37"},
		},
		{
			ID: "36", Name: "Sales Header", Description: &desc, Columns: models.WithColumns("Customer"),
			Importance: 2, SecondImportance: 4, LinkedEntities: []string{},
		},
		{
			ID: "37", Name: "Sales Line", Columns: models.WithColumns(),
			Importance: 1, SecondImportance: 3, LinkedEntities: []string{},
		},
		{
			ID: "99", Name: "Orphan",
			LinkedEntities: []string{},
		},
	}
}

func TestSyncRunAndTopEntities(t *testing.T) {
	requireDB(t)
	ctx := context.Background()

	runID, err := testDB.SyncRun(ctx, scoredFixture())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	top, err := testDB.TopEntities(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, scoredFixture(), top)

	limited, err := testDB.TopEntities(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "18", limited[0].ID)
	assert.Equal(t, "36", limited[1].ID)
}

func TestSyncRunReplacesPreviousRun(t *testing.T) {
	requireDB(t)
	ctx := context.Background()

	_, err := testDB.SyncRun(ctx, scoredFixture())
	require.NoError(t, err)

	second := []models.Entity{{ID: "5", Name: "Currency", LinkedEntities: []string{}}}
	runID, err := testDB.SyncRun(ctx, second)
	require.NoError(t, err)

	top, err := testDB.TopEntities(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, second, top)

	run, err := testDB.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Entities)
	assert.Equal(t, 0, run.Links)
	assert.False(t, run.Created.IsZero())
}

func TestEntityServiceSyncReadsBackRun(t *testing.T) {
	requireDB(t)

	var store service.GraphStore = testDB
	svc := service.NewEntityService(nil, nil, store)

	run, err := svc.Sync(context.Background(), scoredFixture())
	require.NoError(t, err)
	assert.Equal(t, 4, run.Entities)
	assert.Equal(t, 2, run.Links)
	assert.False(t, run.Created.IsZero())

	id, err := models.RecordIDString(run.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestSyncRunDuplicateLink(t *testing.T) {
	requireDB(t)
	ctx := context.Background()

	_, err := testDB.SyncRun(ctx, []models.Entity{
		{ID: "1", Name: "Item", LinkedEntities: []string{"2", "2"}},
		{ID: "2", Name: "Items", LinkedEntities: []string{}},
	})
	require.Error(t, err)

	// the transaction rolls back as a whole
	top, err := testDB.TopEntities(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestGetRunNotFound(t *testing.T) {
	requireDB(t)

	_, err := testDB.GetRun(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}
