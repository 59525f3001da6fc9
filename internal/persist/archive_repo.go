package persist

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tickworld/server/internal/core/ecs"
	"github.com/tickworld/server/internal/world"
	"golang.org/x/crypto/blake2b"
)

// ErrDigestMismatch is returned by Load when a stored payload no longer
// matches the digest written with it.
var ErrDigestMismatch = errors.New("archive digest mismatch")

// ArchiveRow is one stored blob as listed by Recent.
type ArchiveRow struct {
	EntityID   ecs.EntityID
	ArchivedAt time.Time
	Kinds      []string
	Digest     string
}

type ArchiveRepo struct {
	db *DB
}

func NewArchiveRepo(db *DB) *ArchiveRepo {
	return &ArchiveRepo{db: db}
}

// Digest is the hex blake2b-256 of an encoded payload.
func Digest(payload []byte) string {
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// canonicalJSON re-encodes a JSON document compactly with object keys
// sorted. JSONB hands payloads back reformatted, so digests are taken over
// this form on both the write and the read side.
func canonicalJSON(payload []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// EncodeBlob returns the canonical JSON payload of b and its digest.
func EncodeBlob(b world.Blob) (payload []byte, digest string, err error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, "", fmt.Errorf("encode blob %d: %w", b.EntityID, err)
	}
	payload, err = canonicalJSON(raw)
	if err != nil {
		return nil, "", fmt.Errorf("canonicalize blob %d: %w", b.EntityID, err)
	}
	return payload, Digest(payload), nil
}

// DecodeBlob verifies payload against digest and decodes it. payload may be
// any formatting of the stored document.
func DecodeBlob(payload []byte, digest string) (world.Blob, error) {
	var b world.Blob
	canon, err := canonicalJSON(payload)
	if err != nil {
		return b, fmt.Errorf("decode blob: %w", err)
	}
	if Digest(canon) != digest {
		return b, ErrDigestMismatch
	}
	if err := json.Unmarshal(canon, &b); err != nil {
		return b, fmt.Errorf("decode blob: %w", err)
	}
	return b, nil
}

// SaveBlobs upserts a batch of blobs in one transaction. A blob whose digest
// matches the stored one leaves the row untouched.
func (r *ArchiveRepo) SaveBlobs(ctx context.Context, blobs []world.Blob) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("archive begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, b := range blobs {
		payload, digest, err := EncodeBlob(b)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO entity_archive (entity_id, archived_at, kinds, payload, digest)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (entity_id) DO UPDATE SET
			   archived_at = EXCLUDED.archived_at,
			   kinds = EXCLUDED.kinds,
			   payload = EXCLUDED.payload,
			   digest = EXCLUDED.digest
			 WHERE entity_archive.digest <> EXCLUDED.digest`,
			int64(b.EntityID), b.ArchivedAt, b.Kinds(), payload, digest,
		); err != nil {
			return fmt.Errorf("archive upsert %d: %w", b.EntityID, err)
		}
	}

	return tx.Commit(ctx)
}

// Load returns the archived blob of id. Returns ecs.ErrNotFound when the
// entity was never archived and ErrDigestMismatch on a corrupted payload.
func (r *ArchiveRepo) Load(ctx context.Context, id ecs.EntityID) (world.Blob, error) {
	var payload []byte
	var digest string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT payload, digest FROM entity_archive WHERE entity_id = $1`,
		int64(id),
	).Scan(&payload, &digest)
	if errors.Is(err, pgx.ErrNoRows) {
		return world.Blob{}, fmt.Errorf("archived entity %d: %w", id, ecs.ErrNotFound)
	}
	if err != nil {
		return world.Blob{}, fmt.Errorf("load archive %d: %w", id, err)
	}
	b, err := DecodeBlob(payload, digest)
	if err != nil {
		return b, fmt.Errorf("archived entity %d: %w", id, err)
	}
	return b, nil
}

// Recent lists the most recently archived entities, newest first.
func (r *ArchiveRepo) Recent(ctx context.Context, limit int) ([]ArchiveRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT entity_id, archived_at, kinds, digest FROM entity_archive
		 ORDER BY archived_at DESC, entity_id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	defer rows.Close()

	var out []ArchiveRow
	for rows.Next() {
		var row ArchiveRow
		var id int64
		if err := rows.Scan(&id, &row.ArchivedAt, &row.Kinds, &row.Digest); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}
		row.EntityID = ecs.EntityID(id)
		out = append(out, row)
	}
	return out, rows.Err()
}
