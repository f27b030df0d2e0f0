package models

import "time"

// Step is one turn. The step with the highest ID for a game says whose turn
// it is; steps are only ever inserted.
type Step struct {
	ID        uint      `gorm:"primaryKey" json:"step_id"`
	GameID    uint      `gorm:"not null;index" json:"game_id"`
	PlayerID  uint      `gorm:"not null" json:"player_id"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
}

// Placement logs a tile put down during a step. Rows are deleted once the
// step has been scored or skipped.
type Placement struct {
	ID       uint `gorm:"primaryKey"`
	GameID   uint `gorm:"not null;index"`
	StepID   uint `gorm:"not null;index"`
	PlayerID uint `gorm:"not null"`
	X        int  `gorm:"not null"`
	Y        int  `gorm:"not null"`
	TileID   uint `gorm:"not null"`
}

// Swap marks that a player exchanged their rack during a step.
type Swap struct {
	ID        uint      `gorm:"primaryKey"`
	GameID    uint      `gorm:"not null;uniqueIndex:idx_swaps_game_step_player"`
	StepID    uint      `gorm:"not null;uniqueIndex:idx_swaps_game_step_player"`
	PlayerID  uint      `gorm:"not null;uniqueIndex:idx_swaps_game_step_player"`
	SwappedAt time.Time `gorm:"not null"`
}
