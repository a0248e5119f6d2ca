package model

// Note is an admin's remark about a user.
type Note struct {
	BaseModel
	AuthorID uint   `gorm:"index;not null" json:"authorId"`
	UserID   uint   `gorm:"index;not null" json:"userId"`
	Text     string `gorm:"type:text;not null" json:"text"`
}

func (Note) TableName() string {
	return "notes"
}
