package models

// User represents an account able to authenticate and own orders.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string `json:"name" gorm:"type:varchar(100);index;not null"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password string `json:"-" gorm:"type:varchar(255);not null"` // Argon2 hash, never plaintext
	Active   bool   `json:"active" gorm:"default:true"`
	Admin    bool   `json:"admin" gorm:"default:false"`
}
