package services

import (
	"context"
	"time"

	"qwirkle-server/models"
	"qwirkle-server/rules"

	"gorm.io/gorm"
)

// StateVersion is bumped whenever GameState changes shape.
const StateVersion = 1

type PlayerView struct {
	PlayerID    uint   `json:"playerId"`
	Login       string `json:"login"`
	TurnOrder   int    `json:"turnOrder"`
	Score       int    `json:"score"`
	TilesInRack int    `json:"tilesInRack"`
}

type CellView struct {
	X      int         `json:"x"`
	Y      int         `json:"y"`
	TileID uint        `json:"tileId"`
	Code   int         `json:"code"`
	Shape  rules.Shape `json:"shape"`
	Color  rules.Color `json:"color"`
}

// GameState is everything one player may see about their game.
type GameState struct {
	Version         int          `json:"version"`
	GameID          uint         `json:"gameId"`
	PlayerID        uint         `json:"playerId"`
	Seats           int          `json:"seats"`
	MoveTime        int          `json:"moveTime"`
	Phase           string       `json:"phase"`
	Players         []PlayerView `json:"players"`
	Cells           []CellView   `json:"cells"`
	MyTiles         []RackTile   `json:"myTiles"`
	CurrentTurn     *uint        `json:"currentTurn"`
	CurrentStepID   *uint        `json:"currentStepId"`
	RemainingTime   *int         `json:"remainingTime"`
	PoolRemaining   int          `json:"poolRemaining"`
	GameFinished    bool         `json:"gameFinished"`
	WinnerPlayerID  *uint        `json:"winnerPlayerId"`
	PlacedThisStep  []rules.Pos  `json:"placedThisStep"`
	SwappedThisStep bool         `json:"swappedThisStep"`
}

// GetState returns the caller's view of the game after applying any
// pending timeouts.
func (s *GameService) GetState(ctx context.Context, login string, playerID uint) (*GameState, error) {
	player, err := s.authorize(ctx, login, playerID)
	if err != nil {
		return nil, err
	}
	s.AdvanceIfTimedOut(ctx, player.GameID)

	var st *GameState
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		st, err = s.buildState(tx, player.GameID, player.ID)
		return err
	})
	return st, err
}

func (s *GameService) buildState(tx *gorm.DB, gameID, playerID uint) (*GameState, error) {
	var game models.Game
	if err := tx.Where("id = ?", gameID).Take(&game).Error; err != nil {
		return nil, ErrGameNotFound
	}
	var players []models.Player
	if err := tx.Where("game_id = ?", gameID).Order("turn_order ASC").Find(&players).Error; err != nil {
		return nil, internal("load players", err)
	}

	st := &GameState{
		Version:        StateVersion,
		GameID:         game.ID,
		PlayerID:       playerID,
		Seats:          game.Seats,
		MoveTime:       game.MoveTime,
		Players:        make([]PlayerView, 0, len(players)),
		Cells:          []CellView{},
		PlacedThisStep: []rules.Pos{},
	}

	type rackCount struct {
		PlayerID uint
		N        int
	}
	var counts []rackCount
	if err := tx.Model(&models.PlayerTile{}).Select("player_id, COUNT(*) AS n").
		Where("game_id = ?", gameID).Group("player_id").Scan(&counts).Error; err != nil {
		return nil, internal("count racks", err)
	}
	inRack := make(map[uint]int, len(counts))
	for _, c := range counts {
		inRack[c.PlayerID] = c.N
	}
	for _, p := range players {
		st.Players = append(st.Players, PlayerView{
			PlayerID:    p.ID,
			Login:       p.Login,
			TurnOrder:   p.TurnOrder,
			Score:       p.Score,
			TilesInRack: inRack[p.ID],
		})
	}

	board, rows, err := loadBoard(tx, gameID)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		t := board[rules.Pos{X: r.X, Y: r.Y}]
		st.Cells = append(st.Cells, CellView{X: r.X, Y: r.Y, TileID: r.TileID, Code: r.Code, Shape: t.Shape, Color: t.Color})
	}

	if st.MyTiles, err = loadRack(tx, playerID); err != nil {
		return nil, err
	}
	if st.PoolRemaining, err = poolRemaining(tx, gameID); err != nil {
		return nil, err
	}

	fin, err := finishedRecord(tx, gameID)
	if err != nil {
		return nil, err
	}
	st.Phase = phaseOf(len(players), game.Seats, fin != nil)
	if fin != nil {
		st.GameFinished = true
		winner := fin.WinnerPlayerID
		st.WinnerPlayerID = &winner
		zero := 0
		st.RemainingTime = &zero
		return st, nil
	}

	step, err := latestStep(tx, gameID, false)
	if err != nil || step == nil {
		return st, err
	}
	st.CurrentTurn = &step.PlayerID
	st.CurrentStepID = &step.ID
	left := remaining(step.StartedAt, game.MoveTime, s.now())
	st.RemainingTime = &left

	if step.PlayerID == playerID {
		if st.PlacedThisStep, err = stepPlacements(tx, step.ID); err != nil {
			return nil, err
		}
		if st.SwappedThisStep, err = hasSwapped(tx, step.ID, playerID); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func phaseOf(players, seats int, finished bool) string {
	switch {
	case finished:
		return models.PhaseFinished
	case players < seats:
		return models.PhaseFilling
	default:
		return models.PhaseActive
	}
}

// remaining is the whole seconds left in a turn, never negative.
func remaining(started time.Time, moveTime int, now time.Time) int {
	if moveTime <= 0 {
		moveTime = int(defaultMoveTime / time.Second)
	}
	left := time.Duration(moveTime)*time.Second - now.Sub(started)
	if left < 0 {
		return 0
	}
	return int(left / time.Second)
}
