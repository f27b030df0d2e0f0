package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"qwirkle-server/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// BlobStore is where finished-game snapshots go.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// Snapshot is the archived record of a finished game.
type Snapshot struct {
	GameID         uint         `json:"gameId"`
	Title          string       `json:"title"`
	Seats          int          `json:"seats"`
	MoveTime       int          `json:"moveTime"`
	WinnerPlayerID uint         `json:"winnerPlayerId"`
	FinishedAt     time.Time    `json:"finishedAt"`
	Players        []PlayerView `json:"players"`
	Cells          []CellView   `json:"cells"`
}

// ArchiveService uploads snapshots of finished games that have none yet.
type ArchiveService struct {
	DB    *gorm.DB
	Store BlobStore
	Now   Clock
}

func NewArchiveService(db *gorm.DB, store BlobStore) *ArchiveService {
	return &ArchiveService{DB: db, Store: store, Now: time.Now}
}

// ArchivePending archives up to limit finished games and returns how many
// were stored. A failed upload is logged and left for the next call.
func (a *ArchiveService) ArchivePending(ctx context.Context, limit int) (int, error) {
	var pending []models.FinishedGame
	err := a.DB.WithContext(ctx).
		Where("archived_at IS NULL").
		Order("finished_at ASC").
		Limit(limit).
		Find(&pending).Error
	if err != nil {
		return 0, internal("list unarchived games", err)
	}

	stored := 0
	for _, fin := range pending {
		if err := a.archive(ctx, fin); err != nil {
			log.Error().Err(err).Uint("game_id", fin.GameID).Msg("archive failed")
			continue
		}
		stored++
	}
	return stored, nil
}

func (a *ArchiveService) archive(ctx context.Context, fin models.FinishedGame) error {
	snap, err := a.BuildSnapshot(ctx, fin.GameID)
	if err != nil {
		return err
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("games/%d/%s.json", fin.GameID, uuid.NewString())
	if err := a.Store.Put(ctx, key, "application/json", body); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}

	now := time.Now()
	if a.Now != nil {
		now = a.Now()
	}
	err = a.DB.WithContext(ctx).Model(&models.FinishedGame{}).
		Where("game_id = ? AND archived_at IS NULL", fin.GameID).
		Updates(map[string]any{"archive_key": key, "archived_at": now}).Error
	if err != nil {
		return fmt.Errorf("mark archived: %w", err)
	}
	log.Info().Uint("game_id", fin.GameID).Str("key", key).Msg("game archived")
	return nil
}

// BuildSnapshot assembles the archived form of a finished game.
func (a *ArchiveService) BuildSnapshot(ctx context.Context, gameID uint) (*Snapshot, error) {
	var snap *Snapshot
	err := a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fin, err := finishedRecord(tx, gameID)
		if err != nil {
			return err
		}
		if fin == nil {
			return ErrGameNotFound
		}
		st, err := (&GameService{Now: a.Now}).buildState(tx, gameID, fin.WinnerPlayerID)
		if err != nil {
			return err
		}
		var game models.Game
		if err := tx.Where("id = ?", gameID).Take(&game).Error; err != nil {
			return internal("load game", err)
		}
		snap = &Snapshot{
			GameID:         gameID,
			Title:          game.Title,
			Seats:          st.Seats,
			MoveTime:       st.MoveTime,
			WinnerPlayerID: fin.WinnerPlayerID,
			FinishedAt:     fin.FinishedAt,
			Players:        st.Players,
			Cells:          st.Cells,
		}
		return nil
	})
	return snap, err
}
