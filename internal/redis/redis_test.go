package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jayphen/opsboard/internal/board"
	"github.com/Jayphen/opsboard/internal/notion"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client with miniredis
func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	client := &Client{rdb: rdb}
	return client, mr
}

func samplePage(id, name string) notion.Page {
	return notion.Page{
		ID: id,
		Properties: notion.Properties{
			Name: &notion.TitleProperty{Title: []notion.RichText{{PlainText: name}}},
			Priority: &notion.SelectProperty{
				Select: &notion.SelectOption{Name: "P1"},
			},
		},
	}
}

func TestSetAndGetSnapshot(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	tests := []struct {
		name  string
		key   string
		pages []notion.Page
	}{
		{
			name:  "default key",
			key:   "",
			pages: []notion.Page{samplePage("a", "Ship it"), samplePage("b", "Review")},
		},
		{
			name:  "custom key",
			key:   "opsboard:snapshot:staging",
			pages: []notion.Page{samplePage("c", "Staging only")},
		},
		{
			name:  "empty batch",
			key:   "opsboard:snapshot:empty",
			pages: []notion.Page{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &notion.QueryResult{Object: "list", Results: tt.pages}
			if err := client.SetSnapshot(ctx, tt.key, in); err != nil {
				t.Fatalf("SetSnapshot failed: %v", err)
			}

			out, err := client.GetSnapshot(ctx, tt.key)
			if err != nil {
				t.Fatalf("GetSnapshot failed: %v", err)
			}
			if len(out.Results) != len(tt.pages) {
				t.Fatalf("got %d pages, want %d", len(out.Results), len(tt.pages))
			}
			for i, p := range tt.pages {
				if out.Results[i].ID != p.ID {
					t.Errorf("page %d ID = %q, want %q", i, out.Results[i].ID, p.ID)
				}
				if got := out.Results[i].Properties.Name.Title[0].PlainText; got != p.Properties.Name.Title[0].PlainText {
					t.Errorf("page %d name = %q", i, got)
				}
			}
		})
	}

	if !mr.Exists(SnapshotKey) {
		t.Errorf("expected %s to exist", SnapshotKey)
	}
}

func TestGetSnapshot_NotFound(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	_, err := client.GetSnapshot(context.Background(), "")
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("GetSnapshot error = %v, want ErrNoSnapshot", err)
	}
}

func TestGetSnapshot_Corrupt(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	if err := mr.Set(SnapshotKey, "{not json"); err != nil {
		t.Fatal(err)
	}
	_, err := client.GetSnapshot(context.Background(), "")
	if err == nil {
		t.Fatal("expected decode error")
	}
	if errors.Is(err, ErrNoSnapshot) {
		t.Error("corrupt snapshot should not be reported as missing")
	}
}

func TestGetSnapshot_NullResults(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	if err := mr.Set(SnapshotKey, `{"object":"list","results":null}`); err != nil {
		t.Fatal(err)
	}
	out, err := client.GetSnapshot(context.Background(), "")
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}
	if out.Results == nil {
		t.Error("Results should be an empty slice, not nil")
	}
}

func TestArchiveSnapshots(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	days, err := client.ListArchives(ctx)
	if err != nil {
		t.Fatalf("ListArchives failed: %v", err)
	}
	if len(days) != 0 {
		t.Errorf("expected no archives, got %v", days)
	}

	batch := &notion.QueryResult{Results: []notion.Page{samplePage("a", "A")}}
	for _, d := range []board.Date{
		board.NewDate(2026, time.October, 19),
		board.NewDate(2026, time.October, 17),
		board.NewDate(2026, time.October, 18),
	} {
		if err := client.ArchiveSnapshot(ctx, d, batch); err != nil {
			t.Fatalf("ArchiveSnapshot(%s) failed: %v", d, err)
		}
	}
	// Unrelated key under the prefix is ignored
	if err := mr.Set(ArchiveKeyPrefix+"garbage", "x"); err != nil {
		t.Fatal(err)
	}

	days, err = client.ListArchives(ctx)
	if err != nil {
		t.Fatalf("ListArchives failed: %v", err)
	}
	want := []string{"2026-10-17", "2026-10-18", "2026-10-19"}
	if len(days) != len(want) {
		t.Fatalf("got %v, want %v", days, want)
	}
	for i, d := range days {
		if d.String() != want[i] {
			t.Errorf("days[%d] = %s, want %s", i, d, want[i])
		}
	}

	key := ArchiveKey(board.NewDate(2026, time.October, 19))
	if key != "opsboard:archive:2026-10-19" {
		t.Errorf("ArchiveKey = %q", key)
	}
	ttl := mr.TTL(key)
	if ttl < ArchiveTTL-time.Second || ttl > ArchiveTTL+time.Second {
		t.Errorf("TTL mismatch: got %v, want ~%v", ttl, ArchiveTTL)
	}

	// Archives are readable as ordinary snapshots
	out, err := client.GetSnapshot(ctx, key)
	if err != nil {
		t.Fatalf("GetSnapshot(archive) failed: %v", err)
	}
	if len(out.Results) != 1 {
		t.Errorf("archive pages = %d, want 1", len(out.Results))
	}

	mr.FastForward(ArchiveTTL + time.Minute)
	if mr.Exists(key) {
		t.Error("archive should have expired")
	}
}

func TestPublishAndGetStats(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	if _, _, err := client.GetStats(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("GetStats on empty = %v, want ErrNoSnapshot", err)
	}

	today := board.NewDate(2026, time.October, 19)
	stats := board.Stats{Total: 12, Overdue: 3, P0: 1, P1: 4, P2: 2, Done: 5}
	if err := client.PublishStats(ctx, today, stats); err != nil {
		t.Fatalf("PublishStats failed: %v", err)
	}

	if got := mr.HGet(StatsKey, "overdue"); got != "3" {
		t.Errorf("hash overdue = %q, want 3", got)
	}

	gotDay, gotStats, err := client.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if gotDay != today {
		t.Errorf("today = %s, want %s", gotDay, today)
	}
	if gotStats != stats {
		t.Errorf("stats = %+v, want %+v", gotStats, stats)
	}

	// Publishing again overwrites
	stats.Overdue = 0
	if err := client.PublishStats(ctx, today.AddDays(1), stats); err != nil {
		t.Fatal(err)
	}
	gotDay, gotStats, _ = client.GetStats(ctx)
	if gotDay.String() != "2026-10-20" || gotStats.Overdue != 0 {
		t.Errorf("after republish: %s %+v", gotDay, gotStats)
	}
}

func TestGetStats_Invalid(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	mr.HSet(StatsKey, "today", "2026-10-19", "total", "many")
	if _, _, err := client.GetStats(context.Background()); err == nil {
		t.Error("expected error for non-numeric field")
	}
}

func TestSyncStatus(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	status, err := client.GetSyncStatus(ctx)
	if err != nil {
		t.Fatalf("GetSyncStatus failed: %v", err)
	}
	if status != nil {
		t.Errorf("expected nil status, got %+v", status)
	}

	in := &SyncStatus{
		Timestamp: time.Now().UnixMilli(),
		Sources:   []string{"notion:database=abc"},
		Pages:     42,
	}
	if err := client.SetSyncStatus(ctx, in); err != nil {
		t.Fatalf("SetSyncStatus failed: %v", err)
	}
	status, err = client.GetSyncStatus(ctx)
	if err != nil {
		t.Fatalf("GetSyncStatus failed: %v", err)
	}
	if status == nil || status.Pages != 42 || status.Timestamp != in.Timestamp {
		t.Errorf("status = %+v, want %+v", status, in)
	}
	if len(status.Sources) != 1 || status.Sources[0] != "notion:database=abc" {
		t.Errorf("Sources = %v", status.Sources)
	}
}

func TestDetermineFreshness(t *testing.T) {
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	interval := 5 * time.Minute

	tests := []struct {
		name   string
		status *SyncStatus
		want   Freshness
	}{
		{"nil status", nil, FreshnessExpired},
		{"just synced", &SyncStatus{Timestamp: now.Add(-30 * time.Second).UnixMilli()}, FreshnessFresh},
		{"one missed tick", &SyncStatus{Timestamp: now.Add(-7 * time.Minute).UnixMilli()}, FreshnessStale},
		{"long ago", &SyncStatus{Timestamp: now.Add(-time.Hour).UnixMilli()}, FreshnessExpired},
		{"boundary is stale", &SyncStatus{Timestamp: now.Add(-interval).UnixMilli()}, FreshnessStale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineFreshness(tt.status, interval, now); got != tt.want {
				t.Errorf("DetermineFreshness() = %v, want %v", got, tt.want)
			}
		})
	}

	// Zero interval falls back to five minutes
	st := &SyncStatus{Timestamp: now.Add(-4 * time.Minute).UnixMilli()}
	if got := DetermineFreshness(st, 0, now); got != FreshnessFresh {
		t.Errorf("zero interval: got %v, want fresh", got)
	}
}

func TestScanKeys(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	for i := 0; i < 250; i++ {
		day := board.NewDate(2026, time.January, 1).AddDays(i)
		if err := mr.Set(ArchiveKey(day), "{}"); err != nil {
			t.Fatal(err)
		}
	}
	if err := mr.Set("other:key", "x"); err != nil {
		t.Fatal(err)
	}

	keys, err := client.scanKeys(ctx, ArchiveKeyPrefix+"*")
	if err != nil {
		t.Fatalf("scanKeys failed: %v", err)
	}
	if len(keys) != 250 {
		t.Errorf("scanKeys returned %d keys, want 250", len(keys))
	}
}

func TestNewClient(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()

	client, err := NewClient("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer client.Close()

	if _, err := NewClient("not-a-url://"); err == nil {
		t.Error("NewClient with bad URL should fail")
	}
}

func TestClose(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()

	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if _, err := client.GetSnapshot(context.Background(), ""); err == nil {
		t.Error("expected error after Close")
	}
}
