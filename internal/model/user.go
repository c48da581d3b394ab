package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. PasswordHash and IsActive never leave the server, so
// their json tags suppress them.
//
// Fields:
//  ID           – primary key identifier of the user.
//  UserName     – unique login name, immutable once created.
//  FirstName    – given name.
//  LastName     – family name.
//  Email        – contact address.
//  PasswordHash – bcrypt hashed password.
//  IsActive     – soft-delete flag; inactive users cannot log in.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `db:"id" json:"id"`                       // users.id
	UserName     string    `db:"user_name" json:"user_name"`         // users.user_name
	FirstName    string    `db:"first_name" json:"first_name"`       // users.first_name
	LastName     string    `db:"last_name" json:"last_name"`         // users.last_name
	Email        string    `db:"email" json:"email"`                 // users.email
	PasswordHash string    `db:"password_hash" json:"-"`             // users.password_hash
	IsActive     bool      `db:"is_active" json:"-"`                 // users.is_active
	CreatedAt    time.Time `db:"created_at" json:"created_at"`       // users.created_at
}

// NewUser carries the registration fields.  Password is the plain text
// value; the credential store hashes it before insert.
type NewUser struct {
	UserName  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}
