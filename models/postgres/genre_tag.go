package postgres

/*
 * 'Genre' and 'Tag' are simple labeled sets, many-to-many with Game.
 */
type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`

	Games []*Game `gorm:"many2many:game_genres;" json:"-"`
}

type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`

	Games []*Game `gorm:"many2many:game_tags;" json:"-"`
}
