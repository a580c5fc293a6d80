package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	storage "github.com/jack-games/jackofhearts/internal/database"
	"github.com/jack-games/jackofhearts/internal/database/roomstate/model"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	ctx := context.Background()
	db, err := storage.NewFromEnv(ctx, &storage.Config{
		FilePath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(ctx)
	})

	return New(db)
}

func testState(id string) model.State {
	return model.State{
		ID:                 id,
		MinPlayers:         3,
		DiscussionTime:     30,
		GuessingTime:       10,
		Password:           "pw",
		Phase:              2,
		CurrentRound:       4,
		DiscussionTimeLeft: 17,
		Suits:              []string{"♠", "♥"},
		Ranks:              []string{"A", "K"},
		JackID:             "p2",
		Players: []model.Player{
			{ID: "p1", Name: "P1", Suit: "♠", Rank: "A", Alive: true},
			{ID: "p2", Name: "P2", Suit: "♥", Rank: "K", IsJack: true, Alive: true},
		},
		Eliminated: []model.Elimination{
			{ID: "p3", Name: "P3", CorrectSuit: "♠", Guess: "♥", Reason: "wrongGuess", Round: 2},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestAddFetch(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	want := testState("r1")
	if err := db.Add(want); err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := db.Fetch("r1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.ID != want.ID || got.Phase != want.Phase || got.CurrentRound != want.CurrentRound {
		t.Errorf("fetched state differs: %+v vs %+v", got, want)
	}
	if got.JackID != want.JackID {
		t.Errorf("jack id %q, want %q", got.JackID, want.JackID)
	}
	if len(got.Players) != 2 || got.Players[1].IsJack != true {
		t.Errorf("players not preserved: %+v", got.Players)
	}
	if len(got.Eliminated) != 1 || got.Eliminated[0].Reason != "wrongGuess" {
		t.Errorf("eliminations not preserved: %+v", got.Eliminated)
	}
}

func TestAddOverwritesSameID(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	state := testState("r1")
	if err := db.Add(state); err != nil {
		t.Fatalf("add: %v", err)
	}

	state.CurrentRound = 5
	if err := db.Add(state); err != nil {
		t.Fatalf("add again: %v", err)
	}

	got, err := db.Fetch("r1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.CurrentRound != 5 {
		t.Errorf("round %d, want 5", got.CurrentRound)
	}

	all, err := db.FetchAll()
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 entry after overwrite, got %d", len(all))
	}
}

func TestFetchAllEmpty(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	all, err := db.FetchAll()
	if err != nil {
		t.Fatalf("fetch all on fresh database: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no entries, got %d", len(all))
	}
}

func TestFetchMissing(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	if _, err := db.Fetch("nope"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("fetch on fresh database: got %v, want ErrEntryNotFound", err)
	}

	if err := db.Add(testState("r1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := db.Fetch("nope"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("fetch unknown id: got %v, want ErrEntryNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	if err := db.Delete("r1"); !errors.Is(err, ErrBucketNotFound) {
		t.Errorf("delete on fresh database: got %v, want ErrBucketNotFound", err)
	}

	if err := db.Add(testState("r1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := db.Delete("r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.Fetch("r1"); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("fetch after delete: got %v, want ErrEntryNotFound", err)
	}

	// Deleting an absent key is not an error.
	if err := db.Delete("r1"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}
