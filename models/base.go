package models

import "time"

// Timestamps adds GORM auto-times. Game rows are hard-deleted, so there is no
// soft-delete column here.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// All lists every model for AutoMigrate, parents first.
func All() []any {
	return []any{
		&User{},
		&Game{},
		&Player{},
		&Tile{},
		&PlayerTile{},
		&Cell{},
		&Step{},
		&Placement{},
		&Swap{},
		&FinishedGame{},
	}
}
