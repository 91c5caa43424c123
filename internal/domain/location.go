package domain

type State struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:80;not null" json:"name"`
}

type City struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:120;not null" json:"name"`
	StateID uint   `gorm:"index;not null" json:"-"`
	State   *State `json:"state,omitempty"`
}
