package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"qwirkle-server/models"
	"qwirkle-server/rules"

	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	MinSeats        = 2
	MaxSeats        = 4
	MinMoveTime     = 10
	MaxMoveTime     = 3600
	DefaultMoveTime = 60
	maxTitleLength  = 80
)

// CreateGameInput holds the lobby settings for a new game. Zero values pick
// the defaults.
type CreateGameInput struct {
	Seats    int    `json:"seats"`
	MoveTime int    `json:"moveTime"`
	Title    string `json:"title"`
}

// Seat identifies the caller's player in a game.
type Seat struct {
	GameID   uint `json:"gameId"`
	PlayerID uint `json:"playerId"`
	Joined   bool `json:"joined"` // false when the seat already existed
}

// OpenGame is a lobby listing entry.
type OpenGame struct {
	GameID       uint      `json:"gameId"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Seats        int       `json:"seats"`
	MoveTime     int       `json:"moveTime"`
	CreatorLogin string    `json:"creator"`
	PlayersCount int       `json:"playersCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// MyGame is a game the caller has a seat in.
type MyGame struct {
	GameID         uint   `json:"gameId"`
	PlayerID       uint   `json:"playerId"`
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	Seats          int    `json:"seats"`
	PlayersCount   int    `json:"playersCount"`
	Phase          string `json:"phase"`
	WinnerPlayerID *uint  `json:"winnerPlayerId"`
}

// CreateGame opens a new game with the caller in the first seat.
func (s *GameService) CreateGame(ctx context.Context, login string, in CreateGameInput) (*Seat, error) {
	if in.Seats == 0 {
		in.Seats = MaxSeats
	}
	if in.MoveTime == 0 {
		in.MoveTime = DefaultMoveTime
	}
	if in.Seats < MinSeats || in.Seats > MaxSeats {
		return nil, invalidInput("seats must be between 2 and 4")
	}
	if in.MoveTime < MinMoveTime || in.MoveTime > MaxMoveTime {
		return nil, invalidInput("move time must be between 10 and 3600 seconds")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = login + "'s game"
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, invalidInput("title is too long")
	}

	seat := &Seat{Joined: true}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game := models.Game{
			Title:        title,
			Slug:         slug.Make(title),
			Seats:        in.Seats,
			MoveTime:     in.MoveTime,
			CreatorLogin: login,
		}
		if err := tx.Create(&game).Error; err != nil {
			return internal("create game", err)
		}
		p := models.Player{GameID: game.ID, Login: login, TurnOrder: 1}
		if err := tx.Create(&p).Error; err != nil {
			return internal("create player", err)
		}
		if _, err := refill(tx, &p, rules.RackSize); err != nil {
			return err
		}
		seat.GameID, seat.PlayerID = game.ID, p.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Uint("game_id", seat.GameID).Str("login", login).Int("seats", in.Seats).Msg("game created")
	return seat, nil
}

// JoinGame seats the caller, fills their rack and starts the game once the
// last seat is taken. Joining twice returns the existing seat.
func (s *GameService) JoinGame(ctx context.Context, login string, gameID uint) (*Seat, error) {
	if gameID == 0 {
		return nil, invalidInput("game id is required")
	}
	var seat *Seat
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := lockGame(tx, gameID)
		if err != nil {
			return err
		}
		players, err := lockPlayers(tx, gameID)
		if err != nil {
			return err
		}
		for _, p := range players {
			if p.Login == login {
				seat = &Seat{GameID: gameID, PlayerID: p.ID}
				return nil
			}
		}
		if len(players) >= game.Seats {
			return ErrGameFull
		}

		order := 1
		if n := len(players); n > 0 {
			order = players[n-1].TurnOrder + 1
		}
		p := models.Player{GameID: gameID, Login: login, TurnOrder: order}
		if err := tx.Create(&p).Error; err != nil {
			return internal("create player", err)
		}
		if _, err := refill(tx, &p, rules.RackSize); err != nil {
			return err
		}
		players = append(players, p)

		if len(players) == game.Seats {
			step, err := latestStep(tx, gameID, true)
			if err != nil {
				return err
			}
			if step == nil {
				if err := startFirstStep(tx, gameID, players, s.now()); err != nil {
					return err
				}
			}
		}
		seat = &Seat{GameID: gameID, PlayerID: p.ID, Joined: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if seat.Joined {
		log.Info().Uint("game_id", gameID).Str("login", login).Msg("player joined")
	}
	return seat, nil
}

// ListOpenGames lists games still filling that the caller has not joined,
// newest first.
func (s *GameService) ListOpenGames(ctx context.Context, login string) ([]OpenGame, error) {
	out := []OpenGame{}
	err := s.DB.WithContext(ctx).
		Table("games g").
		Select("g.id AS game_id, g.title, g.slug, g.seats, g.move_time, g.creator_login, g.created_at, COUNT(p.id) AS players_count").
		Joins("LEFT JOIN players p ON p.game_id = g.id").
		Where("NOT EXISTS (SELECT 1 FROM players me WHERE me.game_id = g.id AND me.login = ?)", login).
		Group("g.id, g.title, g.slug, g.seats, g.move_time, g.creator_login, g.created_at").
		Having("COUNT(p.id) < g.seats").
		Order("g.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, internal("list open games", err)
	}
	return out, nil
}

// MyGames lists every game the caller has a seat in, newest first.
func (s *GameService) MyGames(ctx context.Context, login string) ([]MyGame, error) {
	out := []MyGame{}
	err := s.DB.WithContext(ctx).
		Table("players p").
		Select(`g.id AS game_id, p.id AS player_id, g.title, g.slug, g.seats,
			(SELECT COUNT(*) FROM players o WHERE o.game_id = g.id) AS players_count,
			f.winner_player_id`).
		Joins("JOIN games g ON g.id = p.game_id").
		Joins("LEFT JOIN finished_games f ON f.game_id = g.id").
		Where("p.login = ?", login).
		Order("g.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, internal("list my games", err)
	}
	for i := range out {
		out[i].Phase = phaseOf(out[i].PlayersCount, out[i].Seats, out[i].WinnerPlayerID != nil)
	}
	return out, nil
}

// DeleteGame removes a game and everything in it. Only the creator may.
func (s *GameService) DeleteGame(ctx context.Context, login string, gameID uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := lockGame(tx, gameID)
		if err != nil {
			return err
		}
		var creator models.Player
		err = tx.Where("game_id = ? AND turn_order = 1", gameID).Take(&creator).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return internal("load creator", err)
		}
		owner := game.CreatorLogin
		if creator.ID != 0 {
			owner = creator.Login
		}
		if owner != login {
			return ErrNotCreator
		}
		return deleteGameRows(tx, gameID)
	})
	if err != nil {
		return err
	}
	log.Info().Uint("game_id", gameID).Str("login", login).Msg("game deleted")
	return nil
}

func deleteGameRows(tx *gorm.DB, gameID uint) error {
	for _, m := range []any{
		&models.Swap{},
		&models.Placement{},
		&models.Step{},
		&models.Cell{},
		&models.PlayerTile{},
		&models.FinishedGame{},
		&models.Player{},
	} {
		if err := tx.Where("game_id = ?", gameID).Delete(m).Error; err != nil {
			return internal("delete game rows", err)
		}
	}
	if err := tx.Delete(&models.Game{}, gameID).Error; err != nil {
		return internal("delete game", err)
	}
	return nil
}

// PurgeStaleLobbies deletes games that are still filling and were created
// before now-ttl. Started and finished games are left alone.
func (s *GameService) PurgeStaleLobbies(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := s.now().Add(-ttl)
	var ids []uint
	err := s.DB.WithContext(ctx).
		Table("games g").
		Select("g.id").
		Joins("LEFT JOIN players p ON p.game_id = g.id").
		Where("g.created_at < ?", cutoff).
		Group("g.id, g.seats").
		Having("COUNT(p.id) < g.seats").
		Pluck("g.id", &ids).Error
	if err != nil {
		return 0, internal("find stale lobbies", err)
	}

	purged := 0
	for _, id := range ids {
		deleted := false
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			game, err := lockGame(tx, id)
			if err != nil {
				return err
			}
			players, err := lockPlayers(tx, id)
			if err != nil {
				return err
			}
			// Someone may have filled the last seat since the scan.
			if len(players) >= game.Seats {
				return nil
			}
			deleted = true
			return deleteGameRows(tx, id)
		})
		if err != nil {
			log.Warn().Err(err).Uint("game_id", id).Msg("failed to purge stale lobby")
			continue
		}
		if deleted {
			purged++
		}
	}
	return purged, nil
}
