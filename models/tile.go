package models

// Tile is one physical tile instance. The catalog holds a fixed number of
// instances per shape/color pair and is shared by every game; where an
// instance sits is tracked per game by PlayerTile and Cell.
type Tile struct {
	ID    uint   `gorm:"primaryKey" json:"tile_id"`
	Code  int    `gorm:"not null;index" json:"code"`
	Shape string `gorm:"type:varchar(16);not null" json:"shape"`
	Color string `gorm:"type:varchar(16);not null" json:"color"`
}

// PlayerTile places a tile instance in a player's rack. The unique index on
// (game_id, tile_id) keeps an instance in at most one rack per game.
type PlayerTile struct {
	ID       uint `gorm:"primaryKey"`
	GameID   uint `gorm:"not null;uniqueIndex:idx_player_tiles_game_tile"`
	PlayerID uint `gorm:"not null;index"`
	TileID   uint `gorm:"not null;uniqueIndex:idx_player_tiles_game_tile"`

	Tile Tile `gorm:"foreignKey:TileID"`
}

// Cell is an occupied board position. Cells are never updated or removed
// while the game exists.
type Cell struct {
	ID     uint `gorm:"primaryKey"`
	GameID uint `gorm:"not null;uniqueIndex:idx_cells_game_xy;uniqueIndex:idx_cells_game_tile"`
	X      int  `gorm:"not null;uniqueIndex:idx_cells_game_xy"`
	Y      int  `gorm:"not null;uniqueIndex:idx_cells_game_xy"`
	TileID uint `gorm:"not null;uniqueIndex:idx_cells_game_tile"`

	Tile Tile `gorm:"foreignKey:TileID"`
}
