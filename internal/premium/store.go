package premium

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const suffixLen = 10

const suffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var (
	// ErrInvalidKey means the key does not exist.
	ErrInvalidKey = errors.New("invalid key")
	// ErrKeyUsed means another user already redeemed the key.
	ErrKeyUsed = errors.New("key already used")
	// ErrAlreadyRedeemed means this user already redeemed this same key.
	ErrAlreadyRedeemed = errors.New("key already redeemed by you")
)

// Key is one redemption code with its status.
type Key struct {
	ID         string
	Key        string
	Used       bool
	UsedBy     int64
	CreatedAt  time.Time
	RedeemedAt *time.Time
}

// Store persists redemption keys in SQLite. A user holding any redeemed key
// is entitled to the full page range; everyone else gets the free limit.
type Store struct {
	db     *sql.DB
	prefix string
}

// NewStore creates or opens the key database.
func NewStore(path, prefix string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, prefix: strings.ToUpper(prefix)}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS keys (
		id TEXT PRIMARY KEY,
		key TEXT UNIQUE NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		used_by INTEGER,
		created_at TIMESTAMP NOT NULL,
		redeemed_at TIMESTAMP
	)`)
	return err
}

// GenerateKey mints a new unredeemed key of the form PREFIX-XXXXXXXXXX.
func (s *Store) GenerateKey(ctx context.Context) (string, error) {
	for {
		suffix, err := randomSuffix(suffixLen)
		if err != nil {
			return "", err
		}
		key := s.prefix + "-" + suffix

		_, err = s.db.ExecContext(ctx,
			`INSERT INTO keys (id, key, used, created_at) VALUES (?, ?, 0, ?)`,
			uuid.NewString(), key, time.Now().UTC())
		if err == nil {
			return key, nil
		}
		// Collision on the key column is the only retryable condition.
		if !strings.Contains(err.Error(), "UNIQUE") {
			return "", err
		}
	}
}

// Redeem marks a key as used by the given user. Fails with ErrInvalidKey,
// ErrKeyUsed or ErrAlreadyRedeemed so the front-end can phrase each case.
func (s *Store) Redeem(ctx context.Context, key string, userID int64) error {
	key = strings.ToUpper(strings.TrimSpace(key))

	var used bool
	var usedBy sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT used, used_by FROM keys WHERE key = ?`, key).Scan(&used, &usedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrInvalidKey
	}
	if err != nil {
		return err
	}

	if used {
		if usedBy.Valid && usedBy.Int64 == userID {
			return ErrAlreadyRedeemed
		}
		return ErrKeyUsed
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE keys SET used = 1, used_by = ?, redeemed_at = ? WHERE key = ? AND used = 0`,
		userID, time.Now().UTC(), key)
	return err
}

// IsPremium reports whether the user has redeemed any key.
func (s *Store) IsPremium(ctx context.Context, userID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM keys WHERE used = 1 AND used_by = ?`, userID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListKeys returns every key with its redemption status, newest first.
func (s *Store) ListKeys(ctx context.Context) ([]Key, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, key, used, used_by, created_at, redeemed_at FROM keys ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []Key
	for rows.Next() {
		var k Key
		var usedBy sql.NullInt64
		var redeemedAt sql.NullTime
		if err := rows.Scan(&k.ID, &k.Key, &k.Used, &usedBy, &k.CreatedAt, &redeemedAt); err != nil {
			return nil, err
		}
		if usedBy.Valid {
			k.UsedBy = usedBy.Int64
		}
		if redeemedAt.Valid {
			t := redeemedAt.Time
			k.RedeemedAt = &t
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// DeleteKey removes a key. Returns false if it did not exist.
func (s *Store) DeleteKey(ctx context.Context, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM keys WHERE key = ?`, strings.ToUpper(strings.TrimSpace(key)))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func randomSuffix(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return string(out), nil
}
