package model

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username    string   `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email       string   `gorm:"size:254" json:"email"`
	FirstName   string   `gorm:"size:150" json:"firstName"`
	LastName    string   `gorm:"size:150" json:"lastName"`
	Description string   `gorm:"size:500" json:"description"`
	Password    string   `gorm:"size:100;not null" json:"-"`
	Role        UserRole `gorm:"size:20;default:'user'" json:"role"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
