package services

import (
	"context"
	"errors"
	"time"

	"qwirkle-server/models"
	"qwirkle-server/rules"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Clock returns the current time. Tests swap it to move turns forward.
type Clock func() time.Time

// GameService owns every game-state transition. Each public operation runs in
// one transaction; rows are locked game first, then players, then steps.
type GameService struct {
	DB  *gorm.DB
	Now Clock
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{DB: db, Now: time.Now}
}

func (s *GameService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// authorize loads a player and checks it belongs to login.
func (s *GameService) authorize(ctx context.Context, login string, playerID uint) (*models.Player, error) {
	if playerID == 0 {
		return nil, invalidInput("player id is required")
	}
	var p models.Player
	err := s.DB.WithContext(ctx).Where("id = ?", playerID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, internal("load player", err)
	}
	if p.Login != login {
		return nil, ErrForbidden
	}
	return &p, nil
}

func lockGame(tx *gorm.DB, gameID uint) (*models.Game, error) {
	var g models.Game
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", gameID).Take(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, internal("lock game", err)
	}
	return &g, nil
}

// lockPlayers returns the game's players in turn order.
func lockPlayers(tx *gorm.DB, gameID uint) ([]models.Player, error) {
	var players []models.Player
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("game_id = ?", gameID).
		Order("turn_order ASC").
		Find(&players).Error
	if err != nil {
		return nil, internal("lock players", err)
	}
	return players, nil
}

// latestStep returns the current step, or nil before the game has started.
func latestStep(tx *gorm.DB, gameID uint, lock bool) (*models.Step, error) {
	q := tx.Where("game_id = ?", gameID).Order("id DESC").Limit(1)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var steps []models.Step
	if err := q.Find(&steps).Error; err != nil {
		return nil, internal("load step", err)
	}
	if len(steps) == 0 {
		return nil, nil
	}
	return &steps[0], nil
}

func finishedRecord(tx *gorm.DB, gameID uint) (*models.FinishedGame, error) {
	var rows []models.FinishedGame
	if err := tx.Where("game_id = ?", gameID).Limit(1).Find(&rows).Error; err != nil {
		return nil, internal("load finished game", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

type boardRow struct {
	X      int
	Y      int
	TileID uint
	Code   int
}

// loadBoard reads the game's cells with their tile codes.
func loadBoard(tx *gorm.DB, gameID uint) (rules.Board, []boardRow, error) {
	var rows []boardRow
	err := tx.Table("cells").
		Select("cells.x, cells.y, cells.tile_id, tiles.code").
		Joins("JOIN tiles ON tiles.id = cells.tile_id").
		Where("cells.game_id = ?", gameID).
		Order("cells.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, internal("load board", err)
	}
	b := make(rules.Board, len(rows))
	for _, r := range rows {
		t, err := rules.Decode(r.Code)
		if err != nil {
			return nil, nil, internal("decode board tile", err)
		}
		b[rules.Pos{X: r.X, Y: r.Y}] = t
	}
	return b, rows, nil
}

// stepPlacements lists the coordinates placed during a step, oldest first.
func stepPlacements(tx *gorm.DB, stepID uint) ([]rules.Pos, error) {
	var rows []models.Placement
	if err := tx.Where("step_id = ?", stepID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, internal("load placements", err)
	}
	out := make([]rules.Pos, 0, len(rows))
	for _, r := range rows {
		out = append(out, rules.Pos{X: r.X, Y: r.Y})
	}
	return out, nil
}

func hasSwapped(tx *gorm.DB, stepID, playerID uint) (bool, error) {
	var n int64
	err := tx.Model(&models.Swap{}).Where("step_id = ? AND player_id = ?", stepID, playerID).Count(&n).Error
	if err != nil {
		return false, internal("load swap marker", err)
	}
	return n > 0, nil
}

func playerIndex(players []models.Player, id uint) int {
	for i := range players {
		if players[i].ID == id {
			return i
		}
	}
	return -1
}
