package domain

type Product struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"size:180;not null" json:"name"`
	Price      float64    `gorm:"type:decimal(12,2);not null" json:"price"`
	Categories []Category `gorm:"many2many:product_categories" json:"categories,omitempty"`
}

// ProductFilter selects products whose name contains Name and that belong to
// at least one of CategoryIDs. An empty CategoryIDs matches nothing.
type ProductFilter struct {
	Name        string
	CategoryIDs []uint
}
