package index

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T, ctx context.Context) string {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "webqa",
			"POSTGRES_PASSWORD": "webqa",
			"POSTGRES_DB":       "webqa",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://webqa:webqa@%s:%s/webqa?sslmode=disable", host, port.Port())
}

func TestPostgresStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()
	dsn := startPostgres(t, ctx)

	st, err := OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Put(ctx, "https://example.com", "one"))
	require.NoError(t, st.Put(ctx, "https://example.com", "two"))

	text, ok, err := st.Get(ctx, "https://example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", text)

	// Re-running migrations on an up-to-date schema is a no-op.
	require.NoError(t, Migrate("", dsn, "up", 0))
}
