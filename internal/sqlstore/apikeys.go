package sqlstore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aceweb/agencyops/internal/domain/actor"
	"github.com/aceweb/agencyops/internal/repository"
)

// APIKeyRepository stores hashed bearer tokens and the actor each one
// authenticates.
type APIKeyRepository struct {
	db  *DB
	now func() time.Time
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db, now: time.Now}
}

// HashToken returns the stored form of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Add registers a token for actorID. Only the hash is stored.
func (r *APIKeyRepository) Add(ctx context.Context, token, actorID, description string) error {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(actorID) == "" {
		return errors.New("token and actor are required")
	}
	_, err := r.db.exec(ctx, `
		INSERT INTO api_keys (key_hash, actor, description, created_at)
		VALUES (?, ?, ?, ?)
	`, HashToken(token), actorID, description, r.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to add api key: %w", classify(err))
	}
	return nil
}

// ResolveActor returns the actor a token belongs to and records its use.
func (r *APIKeyRepository) ResolveActor(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)
	var actorID string
	err := r.db.queryRow(ctx, `SELECT actor FROM api_keys WHERE key_hash = ?`, hash).Scan(&actorID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && actorID == "") {
		return "", fmt.Errorf("%w: invalid token", actor.ErrUnauthenticated)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.exec(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, r.now().UTC(), hash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return actorID, nil
}

// Revoke deletes every key of actorID.
func (r *APIKeyRepository) Revoke(ctx context.Context, actorID string) error {
	result, err := r.db.exec(ctx, `DELETE FROM api_keys WHERE actor = ?`, actorID)
	if err != nil {
		return fmt.Errorf("failed to revoke api keys: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
