package model

import "time"

// Session models a row in the `sessions` table.  A row is written at every
// login and flipped inactive at logout; rows are never deleted, so the
// table doubles as a login history.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the session.
//  Token     – SHA‑256 hex digest of the issued JWT.
//  IsActive  – false once the user logged out.
//  CreatedAt – timestamp of issuance.
type Session struct {
	ID        uint64    `db:"id"`         // sessions.id
	UserID    uint64    `db:"user_id"`    // sessions.user_id
	Token     string    `db:"token"`      // sessions.token
	IsActive  bool      `db:"is_active"`  // sessions.is_active
	CreatedAt time.Time `db:"created_at"` // sessions.created_at
}
