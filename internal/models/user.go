package models

// DefaultProfileImage is the sentinel filename for users without an
// uploaded profile image. It is never deleted from the upload directory.
const DefaultProfileImage = "default.webp"

// User is an account record. Email is the unique lookup key; the numeric id
// exists so the record fits the document-store contract.
type User struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Password     string `gorm:"not null" json:"password,omitempty"`
	Nickname     string `gorm:"not null" json:"nickname"`
	ProfileImage string `json:"profileImage"`
}

func (u *User) RecordID() int      { return u.ID }
func (u *User) SetRecordID(id int) { u.ID = id }

// Sanitized returns a copy safe for API responses (password hash stripped).
func (u *User) Sanitized() *User {
	clone := *u
	clone.Password = ""
	return &clone
}
