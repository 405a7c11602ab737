package models

import "strings"

// User represents a row in the 'users' table. Posts are paired with users by
// list position in the view, not by UserID.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
	Phone    string `db:"phone" json:"phone"`
	Website  string `db:"website" json:"website"`
}

// Initials returns the first letter of the first two words of the name.
func (u User) Initials() string {
	var b strings.Builder
	for i, word := range strings.Fields(u.Name) {
		if i == 2 {
			break
		}
		b.WriteString(strings.ToUpper(string([]rune(word)[:1])))
	}
	return b.String()
}
