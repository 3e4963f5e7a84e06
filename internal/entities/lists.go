package entities

import "time"

type ReadingList struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:64;not null;index" json:"username"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Owner *User `gorm:"foreignKey:Username;references:Username" json:"-"`
}

func (ReadingList) TableName() string {
	return "reading_lists"
}

// ListBook records that a book appears on a list. The composite primary key
// rejects a second row for the same pair.
type ListBook struct {
	ListID    uint      `gorm:"primaryKey;autoIncrement:false" json:"list_id"`
	BookID    string    `gorm:"primaryKey;size:128" json:"book_id"`
	CreatedAt time.Time `json:"-"`

	List *ReadingList `gorm:"foreignKey:ListID" json:"-"`
	Book *Book        `gorm:"foreignKey:BookID" json:"-"`
}

func (ListBook) TableName() string {
	return "books_lists"
}

// Review is keyed by (list, author): one review per user per list.
type Review struct {
	ListID    uint      `gorm:"primaryKey;autoIncrement:false" json:"list_id"`
	Username  string    `gorm:"primaryKey;size:64" json:"username"`
	Rating    int       `gorm:"not null" json:"rating"`
	Title     *string   `gorm:"size:255" json:"title"`
	Body      *string   `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"-"`

	List   *ReadingList `gorm:"foreignKey:ListID" json:"-"`
	Author *User        `gorm:"foreignKey:Username;references:Username" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
