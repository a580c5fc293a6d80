package game

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jack-games/jackofhearts/internal/cache/cachelru"
	"github.com/jack-games/jackofhearts/internal/database"
	statedb "github.com/jack-games/jackofhearts/internal/database/roomstate/database"
)

func testStateDB(t *testing.T) *statedb.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.NewFromEnv(ctx, &database.Config{
		FilePath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(ctx)
	})

	return statedb.New(db)
}

func TestCreateRoomValidation(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil, nil, nil)

	if _, err := registry.CreateRoom("r1", 3, 30, 10, ""); !errors.Is(err, PasswordRequiredErr) {
		t.Errorf("empty password: got %v, want PasswordRequiredErr", err)
	}
	if _, err := registry.CreateRoom("r1", 2, 30, 10, "pw"); !errors.Is(err, BadConfigErr) {
		t.Errorf("minPlayers below floor: got %v, want BadConfigErr", err)
	}
	if _, err := registry.CreateRoom("r1", 11, 30, 10, "pw"); !errors.Is(err, BadConfigErr) {
		t.Errorf("minPlayers above ceiling: got %v, want BadConfigErr", err)
	}
	if _, err := registry.CreateRoom("r1", 3, 0, 10, "pw"); !errors.Is(err, BadConfigErr) {
		t.Errorf("zero discussion time: got %v, want BadConfigErr", err)
	}
	if _, err := registry.CreateRoom("r1", 3, 30, -1, "pw"); !errors.Is(err, BadConfigErr) {
		t.Errorf("negative guessing time: got %v, want BadConfigErr", err)
	}
}

func TestCreateRoomExistingIDReturnsSameRoom(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil, nil, nil)

	first, err := registry.CreateRoom("r1", 3, 30, 10, "pw")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Different settings on the second call must not replace the room.
	second, err := registry.CreateRoom("r1", 5, 60, 20, "other")
	if err != nil {
		t.Fatalf("create again: %v", err)
	}
	if first != second {
		t.Error("second create replaced the existing room")
	}
}

func TestAdmitRouting(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil, nil, nil)
	if _, err := registry.CreateRoom("r1", 3, 30, 10, "pw"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, _, err := registry.Admit(&fakeConn{}, "nope", "P1", "pw"); !errors.Is(err, RoomNotFoundErr) {
		t.Errorf("unknown room: got %v, want RoomNotFoundErr", err)
	}
	if _, _, err := registry.Admit(&fakeConn{}, "r1", "P1", "wrong"); !errors.Is(err, WrongPasswordErr) {
		t.Errorf("wrong password: got %v, want WrongPasswordErr", err)
	}

	conn := &fakeConn{}
	player, room, err := registry.Admit(conn, "r1", "P1", "pw")
	if err != nil {
		t.Fatalf("admit: %v", err)
	}
	if room.ID() != "r1" {
		t.Errorf("admitted into room %s", room.ID())
	}

	if _, _, err := registry.Admit(&fakeConn{}, "r1", "P1", "pw"); !errors.Is(err, NameTakenErr) {
		t.Errorf("duplicate name: got %v, want NameTakenErr", err)
	}
	if _, _, err := registry.Admit(conn, "r1", "P2", "pw"); !errors.Is(err, AlreadyJoinedErr) {
		t.Errorf("second join on one connection: got %v, want AlreadyJoinedErr", err)
	}

	// A dropped name is a reconnect, not a conflict.
	registry.Disconnect("r1", player.ID)
	again, _, err := registry.Admit(&fakeConn{}, "r1", "P1", "pw")
	if err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if again.ID != player.ID {
		t.Errorf("reconnect created a new player: %s vs %s", again.ID, player.ID)
	}
}

func TestJoinableRoomsExcludesStarted(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil, nil, nil)
	if _, err := registry.CreateRoom("open", 4, 30, 10, "pw"); err != nil {
		t.Fatalf("create open: %v", err)
	}
	started, err := registry.CreateRoom("started", 3, 30, 10, "pw")
	if err != nil {
		t.Fatalf("create started: %v", err)
	}
	t.Cleanup(started.Stop)

	for _, name := range []string{"P1", "P2", "P3"} {
		if _, _, err := registry.Admit(&fakeConn{}, "started", name, "pw"); err != nil {
			t.Fatalf("admit %s: %v", name, err)
		}
	}
	started.Stop()

	rooms := registry.JoinableRooms()
	if len(rooms) != 1 {
		t.Fatalf("expected 1 joinable room, got %d", len(rooms))
	}
	if rooms[0].ID != "open" {
		t.Errorf("wrong room listed: %s", rooms[0].ID)
	}
	if !rooms[0].HasPassword {
		t.Error("password presence not reported")
	}
	if rooms[0].MaxPlayers != MaxRoomPlayers {
		t.Errorf("maxPlayers %d, want %d", rooms[0].MaxPlayers, MaxRoomPlayers)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := database.NewFromEnv(ctx, &database.Config{FilePath: dbPath})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	registry := NewRegistry(statedb.New(db), nil, nil)
	room, err := registry.CreateRoom("r1", 3, 30, 10, "pw")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, name := range []string{"P1", "P2", "P3"} {
		if _, _, err := registry.Admit(&fakeConn{}, "r1", name, "pw"); err != nil {
			t.Fatalf("admit %s: %v", name, err)
		}
	}
	room.Stop()
	registry.SaveAll()

	before := room.Snapshot()
	if err := db.Close(ctx); err != nil {
		t.Fatalf("close database: %v", err)
	}

	db, err = database.NewFromEnv(ctx, &database.Config{FilePath: dbPath})
	if err != nil {
		t.Fatalf("reopen database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(ctx)
	})

	restoredRegistry := NewRegistry(statedb.New(db), nil, nil)
	if err := restoredRegistry.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	restored, ok := restoredRegistry.Room("r1")
	if !ok {
		t.Fatal("room not restored")
	}
	t.Cleanup(restored.Stop)

	after := restored.Snapshot()
	if after.Phase != before.Phase {
		t.Errorf("phase changed: %d vs %d", after.Phase, before.Phase)
	}
	if after.CurrentRound != before.CurrentRound {
		t.Errorf("round changed: %d vs %d", after.CurrentRound, before.CurrentRound)
	}
	if after.JackID != before.JackID {
		t.Errorf("jack changed: %s vs %s", after.JackID, before.JackID)
	}
	if len(after.Players) != len(before.Players) {
		t.Fatalf("player count changed: %d vs %d", len(after.Players), len(before.Players))
	}
	for i, p := range after.Players {
		if p.ID != before.Players[i].ID || p.Suit != before.Players[i].Suit || p.Rank != before.Players[i].Rank {
			t.Errorf("player %d changed: %+v vs %+v", i, p, before.Players[i])
		}
		if !p.Disconnected {
			t.Errorf("restored player %s not marked disconnected", p.Name)
		}
	}
}

func TestFinishedRoomIsRetired(t *testing.T) {
	t.Parallel()

	stateDb := testStateDB(t)
	finished, err := cachelru.NewLRU(8)
	if err != nil {
		t.Fatalf("new lru: %v", err)
	}

	registry := NewRegistry(stateDb, finished, nil)
	room, err := registry.CreateRoom("r1", 3, 30, 10, "pw")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, name := range []string{"P1", "P2", "P3"} {
		if _, _, err := registry.Admit(&fakeConn{}, "r1", name, "pw"); err != nil {
			t.Fatalf("admit %s: %v", name, err)
		}
	}
	room.Stop()
	room.forceGuessing()
	room.Stop()

	// Everybody guesses wrong: draw, game over.
	room.mtx.Lock()
	for _, p := range room.players {
		p.HasGuessed = true
		p.Guess = "?"
	}
	room.resolveRoundLocked()
	room.mtx.Unlock()

	// Retirement runs off the room's goroutine; give it a moment.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := registry.Room("r1"); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("finished room still in the registry")
		}
		time.Sleep(10 * time.Millisecond)
	}

	state, ok := registry.FinishedRoom("r1")
	if !ok {
		t.Fatal("final state missing from the retention cache")
	}
	if Phase(state.Phase) != PhaseFinished {
		t.Errorf("retained state in phase %d", state.Phase)
	}

	if _, err := stateDb.Fetch("r1"); !errors.Is(err, statedb.ErrEntryNotFound) {
		t.Errorf("snapshot not deleted on retirement: %v", err)
	}
}

func TestLoadDropsFinishedSnapshots(t *testing.T) {
	t.Parallel()

	stateDb := testStateDB(t)

	registry := NewRegistry(stateDb, nil, nil)
	room, err := registry.CreateRoom("r1", 3, 30, 10, "pw")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	room.mtx.Lock()
	room.phase = PhaseFinished
	room.mtx.Unlock()
	registry.SaveAll()

	fresh := NewRegistry(stateDb, nil, nil)
	if err := fresh.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := fresh.Room("r1"); ok {
		t.Error("finished room restored")
	}
	if _, err := stateDb.Fetch("r1"); !errors.Is(err, statedb.ErrEntryNotFound) {
		t.Errorf("finished snapshot not deleted on load: %v", err)
	}
}
