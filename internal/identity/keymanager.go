// keymanager.go handles discovering, caching, and resolving the public keys
// used to verify mark signatures.
//
// The keymanager supports two ways of configuring verification keys:
//   - JWKS endpoint: keys are fetched from the endpoint and auto-refreshed
//     in the background
//   - Manual key: single public keys in JWK format are loaded from the
//     configured directory at startup and are not refreshed
//
// Keys are mapped to a DID by the kid: this system uses the RFC 7638
// thumbprint of the public key as both the kid and the DID method-specific
// identifier (see did.go), so resolving a DID is a kid lookup.

package identity

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jws"
)

// KeyManagerConfig holds the key discovery settings.
type KeyManagerConfig struct {

	// JWKSEndpoints are the remote JWK set URLs to register for background
	// fetch (e.g. "https://issuer.example.com/.well-known/jwks.json")
	JWKSEndpoints []string

	// ManualKeysDir is a directory of single public keys in JWK format.
	// Empty means no manual keys.
	ManualKeysDir string

	// MinRefreshInterval / MaxRefreshInterval bound the JWKS cache refresh.
	MinRefreshInterval time.Duration
	MaxRefreshInterval time.Duration
}

// KeyManager resolves public keys for signature verification.
//
// It implements the jws.KeyProvider interface so it can be passed directly to
// jws.Verify via jws.WithKeyProvider.
type KeyManager struct {
	config KeyManagerConfig
	logger *slog.Logger

	// manualKeys stores keys loaded from the filesystem, keyed by kid.
	manualKeys map[string]jwk.Key
	mu         sync.RWMutex

	// jwkCache is the auto-refreshing cache for remote JWK sets.
	jwkCache *jwk.Cache
}

// NewKeyManager creates a KeyManager, loads any manual keys and registers the
// configured JWKS endpoints for background fetch.
func NewKeyManager(ctx context.Context, cfg KeyManagerConfig, logger *slog.Logger) (*KeyManager, error) {
	km := &KeyManager{
		config:     cfg,
		logger:     logger,
		manualKeys: make(map[string]jwk.Key),
	}

	if cfg.ManualKeysDir != "" {
		if err := km.loadManualKeys(); err != nil {
			return nil, err
		}
	}

	if len(cfg.JWKSEndpoints) > 0 {
		if err := km.initJWKCache(ctx); err != nil {
			return nil, err
		}
	}

	return km, nil
}

// loadManualKeys loads single public keys in JWK format from the configured
// directory, indexed by kid. Files without a kid are skipped.
func (k *KeyManager) loadManualKeys() error {
	entries, err := os.ReadDir(k.config.ManualKeysDir)
	if err != nil {
		return WrapKeyManagementError(err, "failed to read manual keys directory")
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jwk") {
			continue
		}

		path := filepath.Join(k.config.ManualKeysDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return WrapKeyManagementError(err, "failed to read key file "+path)
		}

		key, err := jwk.ParseKey(data)
		if err != nil {
			k.logger.Warn("skipping unparseable key file",
				slog.String("file", entry.Name()),
				slog.String("error", err.Error()))
			continue
		}

		kid, ok := key.KeyID()
		if !ok || kid == "" {
			k.logger.Warn("skipping key file without kid",
				slog.String("file", entry.Name()))
			continue
		}

		k.mu.Lock()
		k.manualKeys[kid] = key
		k.mu.Unlock()

		k.logger.Info("public key loaded to keymanager",
			slog.String("file", entry.Name()),
			slog.String("kid", kid))
	}

	return nil
}

// initJWKCache initializes the JWK cache and registers the configured JWKS
// endpoints. The cache fetches and refreshes each JWK set in the background.
func (k *KeyManager) initJWKCache(ctx context.Context) error {
	client := httprc.NewClient()

	cache, err := jwk.NewCache(ctx, client)
	if err != nil {
		return WrapKeyManagementError(err, "failed to create JWK cache")
	}
	k.jwkCache = cache

	for _, endpoint := range k.config.JWKSEndpoints {
		err := k.jwkCache.Register(ctx, endpoint,
			jwk.WithMinInterval(k.config.MinRefreshInterval),
			jwk.WithMaxInterval(k.config.MaxRefreshInterval),
			jwk.WithWaitReady(false), // don't block startup - fetch in background
		)
		if err != nil {
			k.logger.Warn("failed to register JWKS endpoint",
				slog.String("jwks_url", endpoint),
				slog.String("error", err.Error()))
			continue
		}

		k.logger.Info("registered JWKS endpoint for background fetch",
			slog.String("jwks_url", endpoint))
	}

	return nil
}

// FetchKeys implements the jws.KeyProvider interface for automatic key lookup
// during JWS verification:
//
//  1. The caller invokes jws.Verify() with jws.WithKeyProvider(keyManager)
//  2. The jws library passes the signature to this method
//  3. We look up the key by kid (manual keys first, then remote sets) and add
//     it to the key sink used by the jws library to verify the signature
func (k *KeyManager) FetchKeys(ctx context.Context, sink jws.KeySink, sig *jws.Signature, msg *jws.Message) error {
	kid, ok := sig.ProtectedHeaders().KeyID()
	if !ok || kid == "" {
		return NewValidationError("kid is required in JWS header")
	}

	alg, ok := sig.ProtectedHeaders().Algorithm()
	if !ok {
		return NewValidationError("alg is required in JWS header")
	}

	key, err := k.lookupKey(ctx, kid)
	if err != nil {
		return err
	}

	sink.Key(alg, key)
	return nil
}

// ResolveDID resolves a mark DID to its verification key.
func (k *KeyManager) ResolveDID(ctx context.Context, did string) (jwk.Key, error) {
	kid, err := KeyIDFromDID(did)
	if err != nil {
		return nil, err
	}
	return k.lookupKey(ctx, kid)
}

// lookupKey finds a public key by kid, checking manual keys before the cached
// remote JWK sets.
func (k *KeyManager) lookupKey(ctx context.Context, kid string) (jwk.Key, error) {
	k.mu.RLock()
	if key, exists := k.manualKeys[kid]; exists {
		k.mu.RUnlock()
		return key, nil
	}
	k.mu.RUnlock()

	if k.jwkCache != nil {
		for _, endpoint := range k.config.JWKSEndpoints {
			keySet, err := k.jwkCache.Lookup(ctx, endpoint)
			if err != nil {
				k.logger.Debug("failed to lookup JWK set from cache",
					slog.String("jwks_url", endpoint),
					slog.String("error", err.Error()))
				continue
			}

			if key, found := keySet.LookupKeyID(kid); found {
				return key, nil
			}
		}
	}

	return nil, NewKeyManagementError(fmt.Sprintf("key not found: %s", kid))
}
