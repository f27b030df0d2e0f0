// models/game.go
package models

import "time"

const (
	PhaseFilling  = "filling"  // seats < capacity
	PhaseActive   = "active"   // turns proceed
	PhaseFinished = "finished" // finished_games row exists
)

// Game is the lobby-level record. Its phase is never stored: it is derived
// from the players count and the finished_games table on every read.
type Game struct {
	ID           uint   `gorm:"primaryKey" json:"game_id"`
	Title        string `gorm:"type:varchar(80)" json:"title"`
	Slug         string `gorm:"type:varchar(96);index" json:"slug"`
	Seats        int    `gorm:"not null;check:seats >= 2 AND seats <= 4" json:"seats"`
	MoveTime     int    `gorm:"not null;default:60" json:"move_time"` // seconds per turn
	CreatorLogin string `gorm:"type:varchar(30);not null;index" json:"creator_login"`

	Players []Player `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"players,omitempty"`

	Timestamps
}

// Player is one seat in one game.
type Player struct {
	ID        uint   `gorm:"primaryKey" json:"player_id"`
	GameID    uint   `gorm:"not null;uniqueIndex:idx_players_game_login;uniqueIndex:idx_players_game_order" json:"game_id"`
	Login     string `gorm:"type:varchar(30);not null;uniqueIndex:idx_players_game_login" json:"login"`
	TurnOrder int    `gorm:"not null;uniqueIndex:idx_players_game_order" json:"turn_order"`
	Score     int    `gorm:"not null;default:0" json:"score"`

	Timestamps
}

// FinishedGame is written exactly once per game; the first commit wins.
type FinishedGame struct {
	GameID         uint       `gorm:"primaryKey;autoIncrement:false" json:"game_id"`
	WinnerPlayerID uint       `gorm:"not null" json:"winner_player_id"`
	FinishedAt     time.Time  `gorm:"not null" json:"finished_at"`
	ArchiveKey     *string    `gorm:"type:varchar(255)" json:"archive_key,omitempty"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
}
