package model

// swagger:model Answer
type Answer struct {
	BaseModel
	RelationID uint     `gorm:"index;not null" json:"relationId"`
	AuthorID   uint     `gorm:"index;not null" json:"authorId"`
	Text       string   `gorm:"type:text;not null" json:"text"`
	Reviews    []Review `gorm:"foreignKey:AnswerID" json:"reviews,omitempty"`
}

func (Answer) TableName() string {
	return "answers"
}

// swagger:model Review
type Review struct {
	BaseModel
	AnswerID uint   `gorm:"index;not null" json:"answerId"`
	AuthorID *uint  `gorm:"index" json:"authorId"`
	Text     string `gorm:"type:text;not null" json:"text"`
}

func (Review) TableName() string {
	return "reviews"
}
