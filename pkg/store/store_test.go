package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLite(filepath.Join(t.TempDir(), "foxy.db"))
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sq,
	}
}

func sampleInteraction(i int) Interaction {
	return Interaction{
		ID:         fmt.Sprintf("rec-%d", i),
		UserID:     "anonymous",
		Message:    fmt.Sprintf("message %d", i),
		AIResponse: fmt.Sprintf("reply %d", i),
		Context: InteractionContext{
			Topic:       "nft",
			Sentiment:   "positive",
			Intent:      "conversation",
			NFTMentions: []string{"fox"},
		},
		CreatedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
	}
}

func TestRecentInteractionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Initialize(ctx); err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 5; i++ {
				if err := s.LearnFromInteraction(ctx, sampleInteraction(i)); err != nil {
					t.Fatal(err)
				}
			}
			got, err := s.RecentInteractions(ctx, 3)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != 3 {
				t.Fatalf("expected 3 interactions, got %d", len(got))
			}
			if got[0].ID != "rec-4" || got[2].ID != "rec-2" {
				t.Errorf("not newest first: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
			}
			if got[0].Context.Topic != "nft" || len(got[0].Context.NFTMentions) != 1 {
				t.Errorf("context not round-tripped: %+v", got[0].Context)
			}
		})
	}
}

func TestRetentionCap(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Initialize(ctx); err != nil {
				t.Fatal(err)
			}
			for i := 0; i < maxInteractions+10; i++ {
				if err := s.LearnFromInteraction(ctx, sampleInteraction(i)); err != nil {
					t.Fatal(err)
				}
			}
			got, err := s.RecentInteractions(ctx, maxInteractions+10)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != maxInteractions {
				t.Fatalf("expected cap at %d, got %d", maxInteractions, len(got))
			}
			if got[0].ID != fmt.Sprintf("rec-%d", maxInteractions+9) {
				t.Errorf("newest row wrong: %s", got[0].ID)
			}
		})
	}
}

func TestGmTweetRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Initialize(ctx); err != nil {
				t.Fatal(err)
			}
			rec, err := s.LastGmTweet(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if rec != nil {
				t.Fatalf("expected nil before any GM tweet, got %+v", rec)
			}
			want := GmTweetRecord{
				ID:        "gm-1",
				Date:      "Mon Jun 02 2025",
				Timestamp: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
				Success:   true,
			}
			if err := s.StoreGmTweet(ctx, want); err != nil {
				t.Fatal(err)
			}
			rec, err = s.LastGmTweet(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if rec == nil || rec.Date != want.Date || !rec.Success {
				t.Errorf("round trip mismatch: %+v", rec)
			}
		})
	}
}

func TestInitializeIdempotent(t *testing.T) {
	ctx := context.Background()
	sq, err := NewSQLite(filepath.Join(t.TempDir(), "foxy.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer sq.Close()
	if err := sq.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if err := sq.Initialize(ctx); err != nil {
		t.Fatalf("second initialize failed: %v", err)
	}
}
