package entities

// Book is a catalog entry. ID is either assigned locally or taken verbatim
// from the external provider.
type Book struct {
	ID          string   `gorm:"primaryKey;size:128" json:"id"`
	Title       string   `gorm:"size:512;not null;index" json:"title"`
	Authors     []string `gorm:"serializer:json;type:text" json:"authors"`
	Cover       string   `gorm:"size:2048" json:"cover"`
	Description string   `gorm:"type:text" json:"description"`
	Link        string   `gorm:"size:2048" json:"link"`
}

func (Book) TableName() string {
	return "books"
}
