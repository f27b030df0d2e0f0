package services

import (
	"context"
	"errors"

	"qwirkle-server/models"
	"qwirkle-server/rules"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RackTile is one tile in a player's hand.
type RackTile struct {
	TileID uint        `json:"tileId"`
	Code   int         `json:"code"`
	Shape  rules.Shape `json:"shape"`
	Color  rules.Color `json:"color"`
}

// Refill tops the player's rack up to target tiles from the game's pool and
// returns how many were drawn. Drawing stops early when the pool runs dry.
func (s *GameService) Refill(ctx context.Context, playerID uint, target int) (int, error) {
	var drawn int
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Player
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", playerID).Take(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlayerNotFound
			}
			return internal("lock player", err)
		}
		var err error
		drawn, err = refill(tx, &p, target)
		return err
	})
	return drawn, err
}

// refill draws random free tiles for p. Candidate rows are locked with SKIP
// LOCKED so concurrent refills in the same game never pick the same instance.
func refill(tx *gorm.DB, p *models.Player, target int) (int, error) {
	var have int64
	if err := tx.Model(&models.PlayerTile{}).Where("player_id = ?", p.ID).Count(&have).Error; err != nil {
		return 0, internal("count rack", err)
	}
	need := target - int(have)
	if need <= 0 {
		return 0, nil
	}

	var ids []uint
	err := tx.Model(&models.Tile{}).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("NOT EXISTS (SELECT 1 FROM player_tiles pt WHERE pt.tile_id = tiles.id AND pt.game_id = ?)", p.GameID).
		Where("NOT EXISTS (SELECT 1 FROM cells c WHERE c.tile_id = tiles.id AND c.game_id = ?)", p.GameID).
		Order("random()").
		Limit(need).
		Pluck("tiles.id", &ids).Error
	if err != nil {
		return 0, internal("draw tiles", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	rack := make([]models.PlayerTile, 0, len(ids))
	for _, id := range ids {
		rack = append(rack, models.PlayerTile{GameID: p.GameID, PlayerID: p.ID, TileID: id})
	}
	if err := tx.Create(&rack).Error; err != nil {
		return 0, internal("fill rack", err)
	}
	return len(ids), nil
}

// swapRack returns every rack tile to the pool and draws a fresh hand.
func swapRack(tx *gorm.DB, p *models.Player) error {
	if err := tx.Where("player_id = ?", p.ID).Delete(&models.PlayerTile{}).Error; err != nil {
		return internal("empty rack", err)
	}
	_, err := refill(tx, p, rules.RackSize)
	return err
}

func loadRack(tx *gorm.DB, playerID uint) ([]RackTile, error) {
	var rows []models.PlayerTile
	if err := tx.Preload("Tile").Where("player_id = ?", playerID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, internal("load rack", err)
	}
	out := make([]RackTile, 0, len(rows))
	for _, r := range rows {
		out = append(out, RackTile{
			TileID: r.TileID,
			Code:   r.Tile.Code,
			Shape:  rules.Shape(r.Tile.Shape),
			Color:  rules.Color(r.Tile.Color),
		})
	}
	return out, nil
}

// poolRemaining counts catalog tiles neither in a rack nor on the board of
// this game.
func poolRemaining(tx *gorm.DB, gameID uint) (int, error) {
	var total, racked, placed int64
	if err := tx.Model(&models.Tile{}).Count(&total).Error; err != nil {
		return 0, internal("count tiles", err)
	}
	if err := tx.Model(&models.PlayerTile{}).Where("game_id = ?", gameID).Count(&racked).Error; err != nil {
		return 0, internal("count racks", err)
	}
	if err := tx.Model(&models.Cell{}).Where("game_id = ?", gameID).Count(&placed).Error; err != nil {
		return 0, internal("count cells", err)
	}
	return int(total - racked - placed), nil
}

// SeedTiles tops the shared catalog up to CopiesPerPair instances of every
// shape/color pair and returns how many were inserted.
func (s *GameService) SeedTiles(ctx context.Context) (int, error) {
	inserted := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		type codeCount struct {
			Code int
			N    int
		}
		var counts []codeCount
		if err := tx.Model(&models.Tile{}).Select("code, COUNT(*) AS n").Group("code").Scan(&counts).Error; err != nil {
			return internal("count catalog", err)
		}
		have := make(map[int]int, len(counts))
		for _, c := range counts {
			have[c.Code] = c.N
		}

		var missing []models.Tile
		for _, t := range rules.Catalog() {
			code, err := t.Code()
			if err != nil {
				return internal("encode tile", err)
			}
			for i := have[code]; i < rules.CopiesPerPair; i++ {
				missing = append(missing, models.Tile{Code: code, Shape: string(t.Shape), Color: string(t.Color)})
			}
		}
		if len(missing) == 0 {
			return nil
		}
		if err := tx.Create(&missing).Error; err != nil {
			return internal("seed tiles", err)
		}
		inserted = len(missing)
		return nil
	})
	return inserted, err
}
