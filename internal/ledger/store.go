// Package ledger persists anchored marks.
//
// Anchoring is the ledger-facing half of the issuance flow: a mark that
// passes full validation is compressed and stored keyed by its stream ID.
// Reads go through DecompressVerified, so a row that was corrupted in storage
// never reaches callers as a trusted mark.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/35C4n0r/cord-mark/internal/mark"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// Store is the PostgreSQL-backed anchor store.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates an anchor store over the given connection pool.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Anchor validates, compresses, and persists a mark, returning the anchor ID.
// Validation failures from mark.ErrorCheck propagate unchanged.
func (s *Store) Anchor(ctx context.Context, m *mark.Mark) (uuid.UUID, error) {
	compressed, err := mark.Compress(m)
	if err != nil {
		return uuid.Nil, err
	}

	payload, err := json.Marshal(compressed)
	if err != nil {
		return uuid.Nil, WrapInternalError(err, "failed to encode compressed mark")
	}

	anchorID := uuid.New()

	_, err = s.pool.Exec(ctx,
		`INSERT INTO mark_anchors (id, stream_id, issuer_did, schema_id, compressed)
		 VALUES ($1, $2, $3, $4, $5)`,
		anchorID, m.Content.ID, m.Content.Issuer, m.Request.Content.SchemaID, payload)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return uuid.Nil, NewDuplicateError(m.Content.ID)
		}
		return uuid.Nil, WrapInternalError(err, "failed to insert anchor")
	}

	s.logger.Info("mark anchored",
		slog.String("anchor_id", anchorID.String()),
		slog.String("stream_id", m.Content.ID),
		slog.String("issuer_did", m.Content.Issuer))

	return anchorID, nil
}

// Query loads an anchored mark by stream ID. The stored pair is decompressed
// and re-validated before it is returned; the revocation flag reflects the
// anchor row, not the stored pair.
func (s *Store) Query(ctx context.Context, streamID string) (*mark.Mark, error) {
	var payload []byte
	var revoked bool

	err := s.pool.QueryRow(ctx,
		`SELECT compressed, revoked FROM mark_anchors WHERE stream_id = $1`,
		streamID).Scan(&payload, &revoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NewNotFoundError(streamID)
		}
		return nil, WrapInternalError(err, "failed to query anchor")
	}

	var compressed mark.Compressed
	if err := json.Unmarshal(payload, &compressed); err != nil {
		return nil, err
	}

	m, err := mark.DecompressVerified(&compressed)
	if err != nil {
		return nil, err
	}

	m.Content.Revoked = revoked
	return m, nil
}

// Revoke flags an anchored mark as withdrawn. Only the issuing DID may revoke
// its own anchors.
func (s *Store) Revoke(ctx context.Context, streamID, issuerDID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE mark_anchors SET revoked = TRUE, revoked_at = now()
		 WHERE stream_id = $1 AND issuer_did = $2`,
		streamID, issuerDID)
	if err != nil {
		return WrapInternalError(err, "failed to revoke anchor")
	}

	if tag.RowsAffected() == 0 {
		// distinguish a missing anchor from a foreign one
		var exists bool
		err := s.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM mark_anchors WHERE stream_id = $1)`,
			streamID).Scan(&exists)
		if err != nil {
			return WrapInternalError(err, "failed to check anchor existence")
		}
		if !exists {
			return NewNotFoundError(streamID)
		}
		return NewNotAuthorizedError(issuerDID + " does not own anchor for " + streamID)
	}

	s.logger.Info("mark revoked",
		slog.String("stream_id", streamID),
		slog.String("issuer_did", issuerDID))

	return nil
}
