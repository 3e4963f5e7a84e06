package entities

type User struct {
	Username string  `gorm:"primaryKey;size:64" json:"username"`
	Password string  `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Email    string  `gorm:"size:255;not null" json:"email"`
	Bio      *string `gorm:"type:text" json:"bio"`
}

func (User) TableName() string {
	return "users"
}
