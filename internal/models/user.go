package models

type Company struct {
	BaseModel
	Name         string `gorm:"not null" json:"name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
}

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Name         string   `json:"name"`
	Role         UserRole `gorm:"not null;default:client" json:"role"`
	CompanyID    *string  `gorm:"type:uuid;index" json:"company_id,omitempty"`
	Company      *Company `gorm:"foreignKey:CompanyID" json:"-"`
	IsActive     bool     `gorm:"default:true" json:"is_active"`
}

// IsStaff reports whether the user is an internal operator.
func (u *User) IsStaff() bool {
	return u.Role == UserRoleStaff
}
