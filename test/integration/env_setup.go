//go:build integration

package integration

// Test environment setup and server lifecycle management.
//
// The integration tests start the mark-server HTTP server with a temporary database and run tests against it.
// Each test creates an empty temporary database and applies all the migrations so the schema reflects the latest code.
// The database is dropped after each test.
//
// Signing keys are generated fresh for every test run: the server key goes to
// SIGNING_KEY_PATH and the issuer/creator public keys go to a manual keys
// directory so the server can resolve their DIDs during signature checks.
//
// By default the server logs are not included in the test output, you can enable them with:
//
//	ENABLE_SERVER_LOGS=true go test -tags=integration -v ./test/integration
//

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/35C4n0r/cord-mark/internal/config"
	"github.com/35C4n0r/cord-mark/internal/identity"
	"github.com/35C4n0r/cord-mark/internal/ledger"
	"github.com/35C4n0r/cord-mark/internal/logger"
	"github.com/35C4n0r/cord-mark/internal/server"
)

// testEnv provides access to the test db, server and signing identities
type testEnv struct {
	baseURL  string
	cfg      *config.ServerEnvironment
	pool     *pgxpool.Pool
	shutdown func()

	// issuer and creator identities for building marks in tests
	issuerKeys  *identity.KeyPair
	issuerDID   string
	creatorKeys *identity.KeyPair
	creatorDID  string
}

// startInProcessServer starts the mark-server in-process for testing - returns
// the test environment with the base URL for the API and a shutdown function
func startInProcessServer(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{}

	t.Log("Starting in-process server...")

	var (
		ctx      = context.Background()
		host     = "localhost"
		port     = findFreePort(t)
		logLevel = "none"
	)

	if os.Getenv("ENABLE_SERVER_LOGS") == "true" {
		logLevel = "debug"
	}

	// generate the server, issuer and creator keys
	keysDir := t.TempDir()
	signingKeyPath := generateTestKeys(t, env, keysDir)

	// configure db
	env.pool = setupTestDatabase(t)
	testDatabaseURL := env.pool.Config().ConnString()

	// Set environment variables before calling NewServerConfig
	testEnvVars := map[string]string{
		"HOST":           host,
		"PORT":           fmt.Sprintf("%d", port),
		"ENVIRONMENT":    "test",
		"LOG_LEVEL":      logLevel,
		"RATE_LIMIT_RPS": "0",

		"DATABASE_URL":     testDatabaseURL,
		"SIGNING_KEY_PATH": signingKeyPath,
		"MANUAL_KEYS_DIR":  keysDir,
	}

	// Save original env vars and set test values
	originalEnvVars := make(map[string]string)
	for key, value := range testEnvVars {
		originalEnvVars[key] = os.Getenv(key)
		os.Setenv(key, value)
	}

	// Restore original environment variables when test completes
	t.Cleanup(func() {
		for key, original := range originalEnvVars {
			if original != "" {
				os.Setenv(key, original)
			} else {
				os.Unsetenv(key)
			}
		}
	})

	cfg, err := config.NewServerConfig()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	serverInstance, err := server.NewServer(env.pool, cfg, appLogger)
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	// Create a cancellable context for server shutdown
	serverCtx, serverCancel := context.WithCancel(ctx)

	// Start server
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := serverInstance.Start(serverCtx); err != nil {
			serverDone <- err
		}
	}()

	// Create shutdown function to be called by the test
	env.shutdown = func() {
		t.Log("Stopping server...")

		serverCancel()

		select {
		case err := <-serverDone:
			if err != nil {
				t.Logf("❌ Server shutdown with error: %v", err)
			} else {
				t.Log("✅ Server shut down gracefully")
			}
		case <-time.After(5 * time.Second):
			t.Log("⚠️ Server shutdown timeout")
		}
	}

	env.baseURL = fmt.Sprintf("http://localhost:%d", port)
	env.cfg = cfg

	// Wait for server to be ready
	if !waitForServer(t, env.baseURL+"/health", 30*time.Second) {
		t.Fatal("Server failed to start within timeout")
	}

	t.Log("✅ Server started")
	return env
}

// generateTestKeys creates the server signing key plus issuer and creator
// keypairs, writing the public halves to keysDir so the server's KeyManager
// can resolve their DIDs. Returns the server signing key path.
func generateTestKeys(t *testing.T, env *testEnv, keysDir string) string {
	t.Helper()

	serverKeys, err := identity.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Failed to generate server key: %v", err)
	}

	signingKeyPath := filepath.Join(keysDir, "server.private.jwk")
	writeJWKFile(t, signingKeyPath, serverKeys.PrivateKey)

	env.issuerKeys, err = identity.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Failed to generate issuer key: %v", err)
	}
	env.issuerDID, err = identity.DIDFromKey(env.issuerKeys.PublicKey)
	if err != nil {
		t.Fatalf("Failed to derive issuer DID: %v", err)
	}
	writeJWKFile(t, filepath.Join(keysDir, "issuer.jwk"), env.issuerKeys.PublicKey)

	env.creatorKeys, err = identity.GenerateKeyPair()
	if err != nil {
		t.Fatalf("Failed to generate creator key: %v", err)
	}
	env.creatorDID, err = identity.DIDFromKey(env.creatorKeys.PublicKey)
	if err != nil {
		t.Fatalf("Failed to derive creator DID: %v", err)
	}
	writeJWKFile(t, filepath.Join(keysDir, "creator.jwk"), env.creatorKeys.PublicKey)

	return signingKeyPath
}

func writeJWKFile(t *testing.T, path string, key any) {
	t.Helper()

	raw, err := json.Marshal(key)
	if err != nil {
		t.Fatalf("Failed to encode JWK: %v", err)
	}
	if err := os.WriteFile(path, raw, 0600); err != nil {
		t.Fatalf("Failed to write JWK file: %v", err)
	}
}

func findFreePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	defer listener.Close()

	addr := listener.Addr().(*net.TCPAddr)
	return addr.Port
}

func waitForServer(t *testing.T, url string, timeout time.Duration) bool {
	t.Helper()

	client := &http.Client{Timeout: 1 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// Test database configuration

type databaseConfig struct {
	userAndPassword string
	dbname          string
	host            string
	port            int
}

func (d *databaseConfig) connectionURL() string {
	return fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=disable",
		d.userAndPassword, d.host, d.port, d.dbname)
}

func (d *databaseConfig) WithDatabase(dbname string) *databaseConfig {
	return &databaseConfig{
		userAndPassword: d.userAndPassword,
		host:            d.host,
		port:            d.port,
		dbname:          dbname,
	}
}

func localDatabaseConfig() *databaseConfig {
	return &databaseConfig{
		userAndPassword: "mark-dev",
		dbname:          "tmp_mark_integration_test",
		host:            "localhost",
		port:            15433,
	}
}

func ciDatabaseConfig() *databaseConfig {
	return &databaseConfig{
		userAndPassword: "postgres:postgres",
		dbname:          "tmp_mark_integration_test",
		host:            "localhost",
		port:            5432,
	}
}

// setupTestDatabase creates an empty test db, applies migrations and returns a connection pool
// the function auto-detects if it is running in CI (github actions) and uses the appropriate database config
func setupTestDatabase(t *testing.T) *pgxpool.Pool {

	ctx := context.Background()
	config := databaseConfig{}

	if os.Getenv("GITHUB_ACTIONS") == "true" {
		config = *ciDatabaseConfig()
	} else {
		config = *localDatabaseConfig()
	}

	postgresConfig := config.WithDatabase("postgres")

	// connect to the postgres database to create the test database
	postgresConnectionURL := postgresConfig.connectionURL()

	// We manually manage this pool's lifecycle because it needs to stay open
	// until after we drop the test database in cleanup
	postgresPoolConfig, err := pgxpool.ParseConfig(postgresConnectionURL)
	if err != nil {
		t.Fatalf("Failed to parse postgres database URL: %v", err)
	}

	postgresPool, err := pgxpool.NewWithConfig(ctx, postgresPoolConfig)
	if err != nil {
		t.Fatalf("Unable to create postgres connection pool: %v", err)
	}

	if err := postgresPool.Ping(ctx); err != nil {
		t.Fatalf("Can't ping PostgreSQL server %s", postgresConnectionURL)
	}

	_, err = postgresPool.Exec(ctx, "DROP DATABASE IF EXISTS "+config.dbname)
	if err != nil {
		t.Fatalf("DROP DATABASE IF EXISTS Failed : %v", err)
	}

	_, err = postgresPool.Exec(ctx, "CREATE DATABASE "+config.dbname)
	if err != nil {
		t.Fatalf("CREATE DATABASE Failed : %v", err)
	}

	t.Cleanup(func() {
		postgresPool.Close()
	})

	// drop the test database when the test is complete
	t.Cleanup(func() {
		_, err := postgresPool.Exec(ctx, "DROP DATABASE "+config.dbname)
		if err != nil {
			t.Fatalf("Failed to drop test database: %v", err)
		}
	})

	// connect to the new database and apply migrations
	testDatabaseURL := config.connectionURL()
	testDatabasePool := setupDatabaseConn(t, testDatabaseURL)

	if err := ledger.Migrate(testDatabaseURL); err != nil {
		t.Fatalf("Failed to apply database migrations: %v", err)
	}

	t.Logf("Database ready: %s", config.dbname)

	return testDatabasePool
}

func setupDatabaseConn(t *testing.T, databaseURL string) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		t.Fatalf("Failed to parse database URL: %v", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("Unable to create connection pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}
