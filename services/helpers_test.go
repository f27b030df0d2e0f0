package services

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"qwirkle-server/models"
	"qwirkle-server/rules"
	"qwirkle-server/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := utils.OpenDatabase("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared", logger.Silent)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := utils.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestService(t *testing.T) (*GameService, *fakeClock) {
	t.Helper()
	svc := NewGameService(openTestDB(t))
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc.Now = clock.Now
	if _, err := svc.SeedTiles(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return svc, clock
}

type table struct {
	gameID  uint
	players []uint // by turn order
}

// startGame creates a game for the given logins and seats everyone. The
// first login creates it.
func startGame(t *testing.T, svc *GameService, logins ...string) table {
	t.Helper()
	ctx := context.Background()
	seat, err := svc.CreateGame(ctx, logins[0], CreateGameInput{Seats: len(logins), MoveTime: 60})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tb := table{gameID: seat.GameID, players: []uint{seat.PlayerID}}
	for _, l := range logins[1:] {
		s, err := svc.JoinGame(ctx, l, seat.GameID)
		if err != nil {
			t.Fatalf("join %s: %v", l, err)
		}
		tb.players = append(tb.players, s.PlayerID)
	}
	return tb
}

func mustCode(t *testing.T, tile rules.Tile) int {
	t.Helper()
	code, err := tile.Code()
	if err != nil {
		t.Fatalf("code %v: %v", tile, err)
	}
	return code
}

// freeInstance returns an unused instance of tile in this game.
func freeInstance(t *testing.T, db *gorm.DB, gameID uint, tile rules.Tile) uint {
	t.Helper()
	var ids []uint
	err := db.Model(&models.Tile{}).
		Where("code = ?", mustCode(t, tile)).
		Where("NOT EXISTS (SELECT 1 FROM player_tiles pt WHERE pt.tile_id = tiles.id AND pt.game_id = ?)", gameID).
		Where("NOT EXISTS (SELECT 1 FROM cells c WHERE c.tile_id = tiles.id AND c.game_id = ?)", gameID).
		Order("id").Limit(1).Pluck("tiles.id", &ids).Error
	if err != nil || len(ids) == 0 {
		t.Fatalf("no free %v: %v", tile, err)
	}
	return ids[0]
}

// clearRacks returns every rack tile of the game to the pool.
func clearRacks(t *testing.T, db *gorm.DB, gameID uint) {
	t.Helper()
	if err := db.Where("game_id = ?", gameID).Delete(&models.PlayerTile{}).Error; err != nil {
		t.Fatalf("clear racks: %v", err)
	}
}

// give puts the listed tiles in a player's rack and returns their ids.
func give(t *testing.T, db *gorm.DB, gameID, playerID uint, tiles ...rules.Tile) []uint {
	t.Helper()
	ids := make([]uint, 0, len(tiles))
	for _, tile := range tiles {
		id := freeInstance(t, db, gameID, tile)
		if err := db.Create(&models.PlayerTile{GameID: gameID, PlayerID: playerID, TileID: id}).Error; err != nil {
			t.Fatalf("give: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

// putCell places a tile straight onto the board.
func putCell(t *testing.T, db *gorm.DB, gameID uint, x, y int, tile rules.Tile) {
	t.Helper()
	id := freeInstance(t, db, gameID, tile)
	if err := db.Create(&models.Cell{GameID: gameID, X: x, Y: y, TileID: id}).Error; err != nil {
		t.Fatalf("put cell: %v", err)
	}
}

func rackSize(t *testing.T, db *gorm.DB, playerID uint) int {
	t.Helper()
	var n int64
	if err := db.Model(&models.PlayerTile{}).Where("player_id = ?", playerID).Count(&n).Error; err != nil {
		t.Fatalf("count rack: %v", err)
	}
	return int(n)
}

func playerScore(t *testing.T, db *gorm.DB, playerID uint) int {
	t.Helper()
	var p models.Player
	if err := db.Where("id = ?", playerID).Take(&p).Error; err != nil {
		t.Fatalf("load player: %v", err)
	}
	return p.Score
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("kind = %s (%v), want %s", got, err, kind)
	}
}
