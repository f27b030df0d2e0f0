package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"qwirkle-server/models"
	"qwirkle-server/rules"
)

func TestGetStateWhileFilling(t *testing.T) {
	svc, _ := newTestService(t)
	seat, _ := svc.CreateGame(context.Background(), "alice", CreateGameInput{Seats: 3})

	st, err := svc.GetState(context.Background(), "alice", seat.PlayerID)
	if err != nil {
		t.Fatal(err)
	}
	if st.Version != StateVersion || st.Phase != models.PhaseFilling {
		t.Fatalf("state = %+v", st)
	}
	if st.CurrentTurn != nil || st.RemainingTime != nil || st.GameFinished {
		t.Fatalf("filling game has a turn: %+v", st)
	}
	if len(st.MyTiles) != rules.RackSize || st.PoolRemaining != 108-rules.RackSize {
		t.Fatalf("rack = %d, pool = %d", len(st.MyTiles), st.PoolRemaining)
	}
}

func TestGetStateDuringTurn(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()
	tb := startGame(t, svc, "alice", "bob")
	alice, bob := tb.players[0], tb.players[1]

	rack, _ := loadRack(svc.DB, alice)
	if _, err := svc.PlaceTile(ctx, "alice", tb.gameID, alice, rack[0].TileID, 3, -2); err != nil {
		t.Fatal(err)
	}
	clock.Advance(20 * time.Second)

	st, err := svc.GetState(ctx, "alice", alice)
	if err != nil {
		t.Fatal(err)
	}
	if st.Phase != models.PhaseActive || st.CurrentTurn == nil || *st.CurrentTurn != alice {
		t.Fatalf("state = %+v", st)
	}
	if *st.RemainingTime != 40 {
		t.Fatalf("remaining = %d", *st.RemainingTime)
	}
	if len(st.Cells) != 1 || st.Cells[0].X != 3 || st.Cells[0].Y != -2 || st.Cells[0].TileID != rack[0].TileID {
		t.Fatalf("cells = %+v", st.Cells)
	}
	if len(st.PlacedThisStep) != 1 || len(st.MyTiles) != rules.RackSize-1 {
		t.Fatalf("placed = %v, rack = %d", st.PlacedThisStep, len(st.MyTiles))
	}
	if len(st.Players) != 2 || st.Players[0].TilesInRack != rules.RackSize-1 || st.Players[1].TilesInRack != rules.RackSize {
		t.Fatalf("players = %+v", st.Players)
	}

	// Bob sees the board but not alice's turn details.
	bobView, err := svc.GetState(ctx, "bob", bob)
	if err != nil {
		t.Fatal(err)
	}
	if len(bobView.PlacedThisStep) != 0 || len(bobView.Cells) != 1 {
		t.Fatalf("bob view = %+v", bobView)
	}

	if _, err := svc.GetState(ctx, "bob", alice); !errors.Is(err, ErrForbidden) {
		t.Fatalf("peeking at alice: %v", err)
	}
	if _, err := svc.GetState(ctx, "bob", 424242); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("missing player: %v", err)
	}
}
