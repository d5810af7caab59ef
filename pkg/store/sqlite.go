package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS interactions (
	rowid_seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	message TEXT NOT NULL,
	ai_response TEXT NOT NULL,
	topic TEXT NOT NULL,
	sentiment TEXT NOT NULL,
	intent TEXT NOT NULL,
	nft_mentions TEXT NOT NULL,
	engagement TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS gm_tweets (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	success INTEGER NOT NULL
);
`

// SQLite persists the store in a local sqlite database file.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Initialize(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// RecentInteractions returns up to n interactions, newest first.
func (s *SQLite) RecentInteractions(ctx context.Context, n int) ([]Interaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, message, ai_response, topic, sentiment, intent, nft_mentions, engagement, created_at
		 FROM interactions ORDER BY rowid_seq DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		var rec Interaction
		var mentions, engagement string
		var createdMs int64
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Message, &rec.AIResponse,
			&rec.Context.Topic, &rec.Context.Sentiment, &rec.Context.Intent,
			&mentions, &engagement, &createdMs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(mentions), &rec.Context.NFTMentions); err != nil {
			return nil, fmt.Errorf("decoding nft mentions: %w", err)
		}
		if err := json.Unmarshal([]byte(engagement), &rec.Engagement); err != nil {
			return nil, fmt.Errorf("decoding engagement: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(createdMs)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLite) LearnFromInteraction(ctx context.Context, rec Interaction) error {
	mentions := rec.Context.NFTMentions
	if mentions == nil {
		mentions = []string{}
	}
	mentionsJSON, err := json.Marshal(mentions)
	if err != nil {
		return err
	}
	engagementJSON, err := json.Marshal(rec.Engagement)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO interactions (id, user_id, message, ai_response, topic, sentiment, intent, nft_mentions, engagement, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.Message, rec.AIResponse,
		rec.Context.Topic, rec.Context.Sentiment, rec.Context.Intent,
		string(mentionsJSON), string(engagementJSON), rec.CreatedAt.UnixMilli())
	if err != nil {
		return err
	}
	// Retention: keep only the newest rows.
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM interactions WHERE rowid_seq <= (
			SELECT MAX(rowid_seq) FROM interactions
		 ) - ?`, maxInteractions)
	return err
}

func (s *SQLite) LastGmTweet(ctx context.Context) (*GmTweetRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, date, timestamp, success FROM gm_tweets ORDER BY timestamp DESC LIMIT 1`)
	var rec GmTweetRecord
	var ts int64
	var success int
	if err := row.Scan(&rec.ID, &rec.Date, &ts, &success); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rec.Timestamp = time.UnixMilli(ts)
	rec.Success = success != 0
	return &rec, nil
}

func (s *SQLite) StoreGmTweet(ctx context.Context, rec GmTweetRecord) error {
	success := 0
	if rec.Success {
		success = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gm_tweets (id, date, timestamp, success) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET date=excluded.date, timestamp=excluded.timestamp, success=excluded.success`,
		rec.ID, rec.Date, rec.Timestamp.UnixMilli(), success)
	return err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLite)(nil)
