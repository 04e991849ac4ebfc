package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/drop-duel/internal/multiplayer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleMatch(id, p1, p2 string, s1, s2 int, winner string) MatchResult {
	return MatchResult{
		MatchID:      id,
		SessionID:    "lobby",
		Player1ID:    p1 + "-id",
		Player1Name:  p1,
		Player1Score: s1,
		Player2ID:    p2 + "-id",
		Player2Name:  p2,
		Player2Score: s2,
		WinnerID:     winner,
		EndReason:    multiplayer.EndReasonOverflow,
		Duration:     42,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.SaveMatch(sampleMatch("m1", "ann", "ben", 30, 0, "ann-id")); err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	got, err := store.MatchByID("m1")
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("match lost after reopen")
	}
}

func TestStoreSaveAndRetrieveMatch(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveMatch(sampleMatch("m1", "ann", "ben", 120, 60, "ben-id"))
	if err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("SaveMatch() id = %d, want positive", id)
	}

	got, err := store.MatchByID("m1")
	if err != nil {
		t.Fatalf("MatchByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("MatchByID() returned nil")
	}
	if got.Player1Name != "ann" || got.Player2Name != "ben" {
		t.Errorf("players = %q/%q, want ann/ben", got.Player1Name, got.Player2Name)
	}
	if got.Player1Score != 120 || got.Player2Score != 60 {
		t.Errorf("scores = %d/%d, want 120/60", got.Player1Score, got.Player2Score)
	}
	if got.WinnerID != "ben-id" {
		t.Errorf("WinnerID = %q, want ben-id", got.WinnerID)
	}
	if got.WinnerName() != "ben" {
		t.Errorf("WinnerName() = %q, want ben", got.WinnerName())
	}
	if got.Duration != 42 {
		t.Errorf("Duration = %d, want 42", got.Duration)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not populated")
	}

	missing, err := store.MatchByID("nope")
	if err != nil {
		t.Fatalf("MatchByID(missing) failed: %v", err)
	}
	if missing != nil {
		t.Errorf("MatchByID(missing) = %+v, want nil", missing)
	}
}

func TestStoreDuplicateMatchIDRejected(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveMatch(sampleMatch("dup", "ann", "ben", 0, 0, "")); err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	if _, err := store.SaveMatch(sampleMatch("dup", "ann", "ben", 0, 0, "")); err == nil {
		t.Error("saving the same match id twice should fail")
	}
}

func TestStoreNoWinner(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.SaveMatch(sampleMatch("m1", "ann", "ben", 10, 10, "")); err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}
	got, err := store.MatchByID("m1")
	if err != nil || got == nil {
		t.Fatalf("MatchByID() = %v, %v", got, err)
	}
	if got.WinnerID != "" || got.WinnerName() != "" {
		t.Errorf("winner = %q/%q, want none", got.WinnerID, got.WinnerName())
	}
}

func TestStoreRecentAndPlayerMatches(t *testing.T) {
	store := openTestStore(t)

	matches := []MatchResult{
		sampleMatch("m1", "ann", "ben", 10, 0, "ann-id"),
		sampleMatch("m2", "cat", "ann", 0, 20, "ann-id"),
		sampleMatch("m3", "ben", "cat", 30, 40, "cat-id"),
	}
	for _, m := range matches {
		if _, err := store.SaveMatch(m); err != nil {
			t.Fatalf("SaveMatch(%s) failed: %v", m.MatchID, err)
		}
	}

	recent, err := store.RecentMatches(2)
	if err != nil {
		t.Fatalf("RecentMatches() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("RecentMatches(2) returned %d rows", len(recent))
	}
	if recent[0].MatchID != "m3" || recent[1].MatchID != "m2" {
		t.Errorf("RecentMatches order = %s,%s, want m3,m2", recent[0].MatchID, recent[1].MatchID)
	}

	ann, err := store.PlayerMatches("ann", 0)
	if err != nil {
		t.Fatalf("PlayerMatches() failed: %v", err)
	}
	if len(ann) != 2 {
		t.Errorf("PlayerMatches(ann) returned %d rows, want 2", len(ann))
	}

	nobody, err := store.PlayerMatches("zed", 10)
	if err != nil {
		t.Fatalf("PlayerMatches() failed: %v", err)
	}
	if len(nobody) != 0 {
		t.Errorf("PlayerMatches(zed) returned %d rows, want 0", len(nobody))
	}
}

func TestStoreTopScores(t *testing.T) {
	store := openTestStore(t)

	for _, m := range []MatchResult{
		sampleMatch("m1", "ann", "ben", 100, 50, "ann-id"),
		sampleMatch("m2", "cat", "dan", 200, 10, "dan-id"),
	} {
		if _, err := store.SaveMatch(m); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	scores, err := store.TopScores(3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	want := []struct {
		name  string
		score int
		won   bool
	}{
		{"cat", 200, false},
		{"ann", 100, true},
		{"ben", 50, false},
	}
	for i, w := range want {
		if scores[i].PlayerName != w.name || scores[i].Score != w.score || scores[i].Won != w.won {
			t.Errorf("scores[%d] = %+v, want %s %d won=%v", i, scores[i], w.name, w.score, w.won)
		}
	}
}

func TestStoreStatsForPlayer(t *testing.T) {
	store := openTestStore(t)

	for _, m := range []MatchResult{
		sampleMatch("m1", "ann", "ben", 100, 50, "ann-id"),
		sampleMatch("m2", "ben", "ann", 80, 70, "ann-id"),
		sampleMatch("m3", "ann", "cat", 10, 90, "cat-id"),
	} {
		if _, err := store.SaveMatch(m); err != nil {
			t.Fatalf("SaveMatch() failed: %v", err)
		}
	}

	stats, err := store.StatsForPlayer("ann")
	if err != nil {
		t.Fatalf("StatsForPlayer() failed: %v", err)
	}
	if stats.Matches != 3 {
		t.Errorf("Matches = %d, want 3", stats.Matches)
	}
	if stats.Wins != 2 {
		t.Errorf("Wins = %d, want 2", stats.Wins)
	}
	if stats.HighScore != 100 {
		t.Errorf("HighScore = %d, want 100", stats.HighScore)
	}

	empty, err := store.StatsForPlayer("zed")
	if err != nil {
		t.Fatalf("StatsForPlayer() failed: %v", err)
	}
	if empty.Matches != 0 || empty.Wins != 0 || empty.HighScore != 0 {
		t.Errorf("stats for unknown player = %+v, want zero", empty)
	}
}

func TestStoreStatsForPlayerSameNameBothSeats(t *testing.T) {
	store := openTestStore(t)

	m := sampleMatch("m1", "Player", "Player", 30, 90, "")
	m.Player1ID, m.Player2ID, m.WinnerID = "p1", "p2", "p2"
	if _, err := store.SaveMatch(m); err != nil {
		t.Fatalf("SaveMatch() failed: %v", err)
	}

	stats, err := store.StatsForPlayer("Player")
	if err != nil {
		t.Fatalf("StatsForPlayer() failed: %v", err)
	}
	if stats.HighScore != 90 {
		t.Errorf("HighScore = %d, want 90", stats.HighScore)
	}
	if stats.Matches != 1 || stats.Wins != 1 {
		t.Errorf("Matches, Wins = %d, %d, want 1, 1", stats.Matches, stats.Wins)
	}
}

func TestStoreImplementsMatchResultSaver(t *testing.T) {
	store := openTestStore(t)

	var saver multiplayer.MatchResultSaver = store
	err := saver.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:      "abc",
		SessionID:    "lobby",
		Player1ID:    "p1",
		Player1Name:  "ann",
		Player1Score: 30,
		Player2ID:    "p2",
		Player2Name:  "ben",
		WinnerID:     "p1",
		EndReason:    multiplayer.EndReasonOverflow,
		DurationSecs: 12,
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}

	got, err := store.MatchByID("abc")
	if err != nil || got == nil {
		t.Fatalf("MatchByID() = %v, %v", got, err)
	}
	if got.WinnerName() != "ann" || got.Duration != 12 || got.SessionID != "lobby" {
		t.Errorf("saved result = %+v", got)
	}
}
