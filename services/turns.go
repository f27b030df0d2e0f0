package services

import (
	"context"
	"time"

	"qwirkle-server/models"
	"qwirkle-server/rules"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultMoveTime = 60 * time.Second

// FinishResult reports the outcome of closing a turn.
type FinishResult struct {
	TurnScore      int   `json:"turnScore"`
	Qwirkles       int   `json:"qwirkles"`
	NextPlayerID   *uint `json:"nextPlayerId"`
	GameFinished   bool  `json:"gameFinished"`
	WinnerPlayerID *uint `json:"winnerPlayerId"`
	EndGameBonus   int   `json:"endGameBonus"`
}

// AdvanceIfTimedOut skips every turn whose move time has run out. It never
// fails the caller: any error is logged and the game is left untouched.
func (s *GameService) AdvanceIfTimedOut(ctx context.Context, gameID uint) int {
	var skipped int
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		skipped, err = s.advanceTimedOut(tx, gameID)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Uint("game_id", gameID).Msg("timeout advance skipped")
		return 0
	}
	if skipped > 0 {
		log.Info().Uint("game_id", gameID).Int("steps", skipped).Msg("turns skipped on timeout")
	}
	return skipped
}

func (s *GameService) advanceTimedOut(tx *gorm.DB, gameID uint) (int, error) {
	game, err := lockGame(tx, gameID)
	if err != nil {
		return 0, err
	}
	if fin, err := finishedRecord(tx, gameID); err != nil || fin != nil {
		return 0, err
	}
	players, err := lockPlayers(tx, gameID)
	if err != nil {
		return 0, err
	}
	if len(players) == 0 || len(players) < game.Seats {
		return 0, nil
	}

	now := s.now()
	last, err := latestStep(tx, gameID, true)
	if err != nil {
		return 0, err
	}
	if last == nil {
		return 0, startFirstStep(tx, gameID, players, now)
	}

	moveTime := time.Duration(game.MoveTime) * time.Second
	if moveTime <= 0 {
		moveTime = defaultMoveTime
	}
	elapsed := now.Sub(last.StartedAt)
	if elapsed < moveTime {
		return 0, nil
	}
	n := int(elapsed / moveTime)
	if n > rules.MaxCatchUpSteps {
		n = rules.MaxCatchUpSteps
	}

	// Tiles put down during a timed-out step stay on the board unscored.
	if err := tx.Where("step_id = ?", last.ID).Delete(&models.Placement{}).Error; err != nil {
		return 0, internal("drop skipped placements", err)
	}

	idx := playerIndex(players, last.PlayerID)
	if idx < 0 {
		idx = 0
	}
	for i := 0; i < n; i++ {
		skipped := players[idx]
		// Courtesy refill; a failure here must not block the rotation.
		if err := tx.Transaction(func(sp *gorm.DB) error {
			_, err := refill(sp, &skipped, rules.RackSize)
			return err
		}); err != nil {
			log.Debug().Err(err).Uint("player_id", skipped.ID).Msg("courtesy refill failed")
		}
		idx = (idx + 1) % len(players)
		step := models.Step{GameID: gameID, PlayerID: players[idx].ID, StartedAt: now}
		if err := tx.Create(&step).Error; err != nil {
			return 0, internal("create step", err)
		}
	}
	return n, nil
}

// startFirstStep opens the first turn for the lowest turn order.
func startFirstStep(tx *gorm.DB, gameID uint, players []models.Player, now time.Time) error {
	step := models.Step{GameID: gameID, PlayerID: players[0].ID, StartedAt: now}
	if err := tx.Create(&step).Error; err != nil {
		return internal("create first step", err)
	}
	return nil
}

// FinishTurn scores the current step, refills the rack and passes the turn.
// When the pool and every rack are empty the game ends instead.
func (s *GameService) FinishTurn(ctx context.Context, login string, playerID uint) (*FinishResult, error) {
	player, err := s.authorize(ctx, login, playerID)
	if err != nil {
		return nil, err
	}
	s.AdvanceIfTimedOut(ctx, player.GameID)

	var res FinishResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := lockGame(tx, player.GameID)
		if err != nil {
			return err
		}
		players, err := lockPlayers(tx, game.ID)
		if err != nil {
			return err
		}
		if fin, err := finishedRecord(tx, game.ID); err != nil {
			return err
		} else if fin != nil {
			return ErrGameFinished
		}
		if len(players) < game.Seats {
			return ErrGameNotFull
		}
		step, err := latestStep(tx, game.ID, true)
		if err != nil {
			return err
		}
		if step == nil || step.PlayerID != player.ID {
			return ErrNotYourTurn
		}
		idx := playerIndex(players, player.ID)
		me := players[idx]

		placed, err := stepPlacements(tx, step.ID)
		if err != nil {
			return err
		}
		board, _, err := loadBoard(tx, game.ID)
		if err != nil {
			return err
		}
		score := rules.ScoreStep(board, placed)
		if err := tx.Where("step_id = ?", step.ID).Delete(&models.Placement{}).Error; err != nil {
			return internal("clear placements", err)
		}

		if _, err := refill(tx, &me, rules.RackSize); err != nil {
			return err
		}

		over, err := isExhausted(tx, game.ID)
		if err != nil {
			return err
		}
		res.TurnScore = score.Points
		res.Qwirkles = score.Qwirkles
		if over {
			res.EndGameBonus = rules.EndGameBonus
		}
		if err := addScore(tx, me.ID, res.TurnScore+res.EndGameBonus); err != nil {
			return err
		}

		if over {
			fin, created, err := s.markFinished(tx, game.ID)
			if err != nil {
				return err
			}
			if !created {
				return ErrGameFinished
			}
			res.GameFinished = true
			res.WinnerPlayerID = &fin.WinnerPlayerID
			return nil
		}

		next := players[(idx+1)%len(players)]
		if err := tx.Create(&models.Step{GameID: game.ID, PlayerID: next.ID, StartedAt: s.now()}).Error; err != nil {
			return internal("create step", err)
		}
		res.NextPlayerID = &next.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("game_id", player.GameID).
		Uint("player_id", player.ID).
		Int("score", res.TurnScore).
		Bool("finished", res.GameFinished).
		Msg("turn finished")
	return &res, nil
}

func addScore(tx *gorm.DB, playerID uint, points int) error {
	if points == 0 {
		return nil
	}
	err := tx.Model(&models.Player{}).Where("id = ?", playerID).
		Update("score", gorm.Expr("score + ?", points)).Error
	if err != nil {
		return internal("update score", err)
	}
	return nil
}

// isExhausted reports whether the pool and every rack of the game are empty.
func isExhausted(tx *gorm.DB, gameID uint) (bool, error) {
	left, err := poolRemaining(tx, gameID)
	if err != nil || left > 0 {
		return false, err
	}
	var racked int64
	if err := tx.Model(&models.PlayerTile{}).Where("game_id = ?", gameID).Count(&racked).Error; err != nil {
		return false, internal("count racks", err)
	}
	return racked == 0, nil
}

// MarkFinished records the game as finished with the current leader as
// winner. Only the first call commits a record; later calls return the
// existing one with created false.
func (s *GameService) MarkFinished(ctx context.Context, gameID uint) (*models.FinishedGame, bool, error) {
	var (
		fin     *models.FinishedGame
		created bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockGame(tx, gameID); err != nil {
			return err
		}
		var err error
		fin, created, err = s.markFinished(tx, gameID)
		return err
	})
	return fin, created, err
}

func (s *GameService) markFinished(tx *gorm.DB, gameID uint) (*models.FinishedGame, bool, error) {
	var winner models.Player
	err := tx.Where("game_id = ?", gameID).Order("score DESC, turn_order ASC").Take(&winner).Error
	if err != nil {
		return nil, false, internal("pick winner", err)
	}

	rec := models.FinishedGame{GameID: gameID, WinnerPlayerID: winner.ID, FinishedAt: s.now()}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if result.Error != nil {
		return nil, false, internal("record finished game", result.Error)
	}
	if result.RowsAffected == 0 {
		existing, err := finishedRecord(tx, gameID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	log.Info().Uint("game_id", gameID).Uint("winner_player_id", winner.ID).Msg("game finished")
	return &rec, true, nil
}
