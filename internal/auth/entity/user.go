package entity

import "time"

// User represents an account row in the `users` table. PasswordHash never
// leaves the repo/service layer; handlers serialize PublicUser instead.
type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Username     string    `db:"username"`
	FullName     string    `db:"full_name"`
	StudentID    string    `db:"student_id"`
	Major        string    `db:"major"`
	YearLevel    int       `db:"year_level"`
	PasswordHash string    `db:"password_hash"`
	PlanType     string    `db:"plan_type"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// PublicUser is the externally visible projection of a user.
type PublicUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	StudentID string    `json:"student_id"`
	Major     string    `json:"major"`
	YearLevel int       `json:"year_level"`
	PlanType  string    `json:"plan_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public returns the serializable view of u.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		StudentID: u.StudentID,
		Major:     u.Major,
		YearLevel: u.YearLevel,
		PlanType:  u.PlanType,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ProfileChangeset carries a partial profile update. A nil field means the
// field was omitted from the payload and must be left untouched.
type ProfileChangeset struct {
	Username  *string `json:"username"`
	FullName  *string `json:"full_name"`
	Major     *string `json:"major"`
	YearLevel *int    `json:"year_level"`
}

// Empty reports whether the changeset sets no fields at all.
func (c *ProfileChangeset) Empty() bool {
	return c.Username == nil && c.FullName == nil && c.Major == nil && c.YearLevel == nil
}
