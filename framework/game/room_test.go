package game

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Futarimiti/riichi-hairi/framework/game/engines/mahjong"
)

func TestRoomManager_CreateAndDelete(t *testing.T) {
	rm := NewRoomManager(mahjong.Rules{Players: mahjong.FourPlayer}, nil)

	if _, err := rm.CreateRoom(5, true); !errors.Is(err, ErrInvalidPlayerCount) {
		t.Fatalf("5 players expected ErrInvalidPlayerCount, got %v", err)
	}

	room, err := rm.CreateRoom(0, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got, ok := rm.GetRoom(room.ID); !ok || got != room {
		t.Fatalf("room %s not found", room.ID)
	}
	if rm.GetStats() != 1 {
		t.Fatalf("expected 1 room, got %d", rm.GetStats())
	}

	out, err := room.Execute("=123m456p789s12z55z")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.Snapshot.Players != mahjong.FourPlayer || out.Snapshot.Phase != PhaseLackOne {
		t.Fatalf("unexpected snapshot %+v", out.Snapshot)
	}

	if err := rm.DeleteRoom(room.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := rm.DeleteRoom(room.ID); err == nil {
		t.Fatalf("second delete should fail")
	}
}

func TestRoomManager_NormalModeRoom(t *testing.T) {
	rm := NewRoomManager(mahjong.Rules{Players: mahjong.FourPlayer}, nil)
	room, err := rm.CreateRoom(mahjong.ThreePlayer, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := room.Execute("+1m"); !errors.Is(err, ErrModeViolation) {
		t.Fatalf("draw in a normal room expected ErrModeViolation, got %v", err)
	}
	if _, err := room.Execute("234m123456789p11s"); !errors.Is(err, mahjong.ErrIllegalTileForConfig) {
		t.Fatalf("3p room should reject 2m, got %v", err)
	}
}

func TestRoomManager_SweepIdle(t *testing.T) {
	rm := NewRoomManager(mahjong.Rules{}, nil)
	old, _ := rm.CreateRoom(0, true)
	time.Sleep(5 * time.Millisecond)
	fresh, _ := rm.CreateRoom(0, true)

	if n := rm.SweepIdle(0); n != 0 {
		t.Fatalf("zero ttl should not sweep, swept %d", n)
	}
	if n := rm.SweepIdle(3 * time.Millisecond); n != 1 {
		t.Fatalf("expected 1 idle room, swept %d", n)
	}
	if _, ok := rm.GetRoom(old.ID); ok {
		t.Fatalf("idle room should be gone")
	}
	if _, ok := rm.GetRoom(fresh.ID); !ok {
		t.Fatalf("fresh room should stay")
	}
}

func TestRoom_ConcurrentCommands(t *testing.T) {
	rm := NewRoomManager(mahjong.Rules{}, nil)
	room, _ := rm.CreateRoom(0, true)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = room.Execute("*-5z")
		}()
	}
	wg.Wait()

	out, err := room.Execute("?")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(out.Records) != 4 {
		t.Fatalf("only four 5z can be removed, got %d records", len(out.Records))
	}
}

func TestMonitor_Collect(t *testing.T) {
	rm := NewRoomManager(mahjong.Rules{}, nil)
	_, _ = rm.CreateRoom(0, false)
	m := NewMonitor(rm, time.Second, 0)

	info, err := m.Collect()
	if err != nil {
		t.Skipf("load sampling unavailable: %v", err)
	}
	if info.Rooms != 1 || info.Goroutines <= 0 || info.SampledAt.IsZero() {
		t.Fatalf("unexpected load info %+v", info)
	}
	if !m.Latest().SampledAt.IsZero() {
		t.Fatalf("Collect should not store the sample")
	}
	m.Stop()
	m.Stop()
}
