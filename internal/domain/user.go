package domain

import "strings"

// User identifies a system account. Username is the uniqueness key.
type User struct {
	Username    string
	DisplayName string
}

// String renders "Real Name (user)", or just the username when no display
// name is known.
func (u User) String() string {
	if strings.TrimSpace(u.DisplayName) == "" {
		return u.Username
	}
	return u.DisplayName + " (" + u.Username + ")"
}

// CloneUsers returns a copy safe to hand out as a snapshot.
func CloneUsers(in []User) []User {
	if in == nil {
		return []User{}
	}
	out := make([]User, len(in))
	copy(out, in)
	return out
}

// FindUser returns the entry with the given username.
func FindUser(users []User, username string) (User, bool) {
	for _, u := range users {
		if u.Username == username {
			return u, true
		}
	}
	return User{}, false
}

// Reselect picks the selection after the user list was refreshed.
//
// A previous selection that is still listed is kept, with its display name
// refreshed. Otherwise the first entry wins. An empty list clears it.
func Reselect(prev *User, users []User) *User {
	if prev != nil {
		if u, ok := FindUser(users, prev.Username); ok {
			return &u
		}
	}
	if len(users) == 0 {
		return nil
	}
	first := users[0]
	return &first
}
