package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// User is an account from the fixed user list. There is no user
// administration; accounts are provisioned in code.
type User struct {
	ID       string
	Username string
	// Password is the bcrypt hash of the account password.
	Password string
	Email    string
	Roles    []Role
}

// Shared hash of "p" (cost 12), matching the demo accounts.
const demoHash = "$2a$12$svF5HZm6ioH26i35SeD2EOTsqCWQisr4KDpQAggtRQepVbTHHOKUC"

var users = []User{
	{
		ID:       "10000000-0000-0000-0000-000000000001",
		Username: "admin",
		Password: demoHash,
		Email:    "admin@acme.com",
		Roles:    []Role{RoleAdmin, RoleMitarbeiter, RoleAbteilungsleiter, RoleKunde},
	},
	{
		ID:       "10000000-0000-0000-0000-000000000002",
		Username: "alfred.alpha",
		Password: demoHash,
		Email:    "alfred.alpha@acme.com",
		Roles:    []Role{RoleMitarbeiter, RoleKunde},
	},
	{
		ID:       "10000000-0000-0000-0000-000000000003",
		Username: "antonia.alpha",
		Password: demoHash,
		Email:    "antonia.alpha@acme.com",
		Roles:    []Role{RoleAbteilungsleiter, RoleMitarbeiter, RoleKunde},
	},
	{
		ID:       "10000000-0000-0000-0000-000000000004",
		Username: "dirk.delta",
		Password: demoHash,
		Email:    "dirk.delta@acme.com",
		Roles:    []Role{RoleKunde},
	},
	{
		ID:       "10000000-0000-0000-0000-000000000005",
		Username: "emilia.epsilon",
		Password: demoHash,
		Email:    "emilia.epsilon@acme.com",
		Roles:    []Role{RoleKunde},
	},
}

// FindUser looks up an account by username.
func FindUser(username string) (*User, bool) {
	for i := range users {
		if users[i].Username == username {
			return &users[i], true
		}
	}
	return nil, false
}

// CheckPassword compares the plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
