package services

import (
	"context"
	"errors"

	"qwirkle-server/models"
	"qwirkle-server/rules"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxCoordinate bounds how far from the origin a tile may go. The catalog
// cannot reach it, so it only rejects garbage input.
const maxCoordinate = 1000

// PlaceResult previews what a placement is worth. Points are only credited
// when the turn is finished.
type PlaceResult struct {
	PlacementScore int         `json:"placementScore"`
	Qwirkles       int         `json:"qwirkles"`
	PlacedThisStep []rules.Pos `json:"placedThisStep"`
}

// PlaceTile moves a tile from the player's rack onto the board. A zero
// gameID means the player's own game.
func (s *GameService) PlaceTile(ctx context.Context, login string, gameID, playerID, tileID uint, x, y int) (*PlaceResult, error) {
	if tileID == 0 {
		return nil, invalidInput("tile id is required")
	}
	if abs(x) > maxCoordinate || abs(y) > maxCoordinate {
		return nil, invalidInput("coordinates out of range")
	}
	player, err := s.authorize(ctx, login, playerID)
	if err != nil {
		return nil, err
	}
	if gameID == 0 {
		gameID = player.GameID
	} else if player.GameID != gameID {
		return nil, ErrPlayerNotFound
	}
	s.AdvanceIfTimedOut(ctx, gameID)

	pos := rules.Pos{X: x, Y: y}
	var res PlaceResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := lockGame(tx, gameID)
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
		if swapped, err := hasSwapped(tx, step.ID, player.ID); err != nil {
			return err
		} else if swapped {
			return ErrAlreadySwapped
		}

		var held models.PlayerTile
		err = tx.Preload("Tile").Where("player_id = ? AND tile_id = ?", player.ID, tileID).Take(&held).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTileNotInRack
		}
		if err != nil {
			return internal("load rack tile", err)
		}
		tile, err := rules.Decode(held.Tile.Code)
		if err != nil {
			return placementError(err)
		}

		board, _, err := loadBoard(tx, game.ID)
		if err != nil {
			return err
		}
		placed, err := stepPlacements(tx, step.ID)
		if err != nil {
			return err
		}
		if err := rules.ValidatePlacement(board, placed, tile, pos); err != nil {
			return placementError(err)
		}

		if err := tx.Delete(&held).Error; err != nil {
			return internal("remove rack tile", err)
		}
		if err := tx.Create(&models.Cell{GameID: game.ID, X: x, Y: y, TileID: tileID}).Error; err != nil {
			return internal("place cell", err)
		}
		rec := models.Placement{GameID: game.ID, StepID: step.ID, PlayerID: player.ID, X: x, Y: y, TileID: tileID}
		if err := tx.Create(&rec).Error; err != nil {
			return internal("log placement", err)
		}

		board[pos] = tile
		score := rules.ScorePlacement(board, pos)
		res = PlaceResult{
			PlacementScore: score.Points,
			Qwirkles:       score.Qwirkles,
			PlacedThisStep: append(placed, pos),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Uint("game_id", gameID).Uint("player_id", playerID).Int("x", x).Int("y", y).Msg("tile placed")
	return &res, nil
}

// SwapTiles exchanges the whole rack instead of placing this turn.
func (s *GameService) SwapTiles(ctx context.Context, login string, playerID uint) ([]RackTile, error) {
	player, err := s.authorize(ctx, login, playerID)
	if err != nil {
		return nil, err
	}
	s.AdvanceIfTimedOut(ctx, player.GameID)

	var rack []RackTile
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
		placed, err := stepPlacements(tx, step.ID)
		if err != nil {
			return err
		}
		if len(placed) > 0 {
			return ErrPlacedBeforeSwap
		}
		if swapped, err := hasSwapped(tx, step.ID, player.ID); err != nil {
			return err
		} else if swapped {
			return ErrAlreadySwapped
		}

		me := players[playerIndex(players, player.ID)]
		if err := swapRack(tx, &me); err != nil {
			return err
		}
		marker := models.Swap{GameID: game.ID, StepID: step.ID, PlayerID: me.ID, SwappedAt: s.now()}
		if err := tx.Create(&marker).Error; err != nil {
			return internal("record swap", err)
		}
		rack, err = loadRack(tx, me.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Uint("player_id", playerID).Msg("rack swapped")
	return rack, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
