package model

// swagger:model Task
type Task struct {
	BaseModel
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:2000" json:"description"`
	Answer      string    `gorm:"type:text" json:"answer"` // reference solution for reviewers
	IsTest      bool      `gorm:"default:false;index" json:"isTest"`
	AuthorID    *uint     `gorm:"index" json:"authorId"`
	Variants    []Variant `gorm:"foreignKey:TaskID" json:"variants,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

// Variant is one multiple-choice option of a test task.
// swagger:model Variant
type Variant struct {
	BaseModel
	TaskID   uint   `gorm:"index;not null" json:"taskId"`
	Text     string `gorm:"type:text;not null" json:"text"`
	Correct  bool   `gorm:"default:false" json:"correct"`
	AuthorID *uint  `gorm:"index" json:"authorId"`
}

func (Variant) TableName() string {
	return "variants"
}

// UserVariant is a variant selected by a user on the latest attempt of a test task.
type UserVariant struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	VariantID uint `gorm:"primaryKey;autoIncrement:false;index" json:"variantId"`
	TaskID    uint `gorm:"index;not null" json:"taskId"`
}

func (UserVariant) TableName() string {
	return "user_variants"
}
