package models

import (
	"time"
)

type User struct {
	ID           string
	UserName     string // unique, stored lower-cased
	FirstName    string
	LastName     string
	Email        string // unique, stored lower-cased
	Notes        string
	PasswordHash string // never serialized to API responses
	IsActive     bool
	IsApproved   bool
	IsAdmin      bool
	DateCreated  time.Time
	DateUpdated  time.Time
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Pagination bounds shared by the repository and the HTTP boundary.
const (
	MaxListLimit     = 1000
	DefaultListLimit = 500
	MaxListOffset    = 1_000_000_000
)

// UserFilter holds the enumerated filterable fields. String fields use
// substring matching, booleans use equality, time fields are inclusive floors.
// Nil/zero fields are not applied.
type UserFilter struct {
	UserName     string
	FirstName    string
	LastName     string
	Email        string
	Notes        string
	IsActive     *bool
	IsApproved   *bool
	IsAdmin      *bool // internal only, used by seeding guards
	CreatedSince time.Time
	UpdatedSince time.Time
}

// ListParams is a declarative list request: filters plus sort and page window.
type ListParams struct {
	Filter  UserFilter
	OrderBy string // "<field>:<direction>", empty for storage order
	Limit   int
	Offset  int
}

// DayWindows is the accepted set of created_days/updated_days values.
var DayWindows = map[int]bool{
	7: true, 14: true, 30: true, 60: true, 90: true, 180: true, 365: true, 731: true,
}

// SortableUserFields is the order_by whitelist.
var SortableUserFields = map[string]bool{
	"user_name":    true,
	"first_name":   true,
	"last_name":    true,
	"email":        true,
	"date_created": true,
	"date_updated": true,
}
