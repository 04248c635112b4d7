package entity

import "time"

type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Firstname    string
	DateOfBirth  time.Time
	PhoneNumber  string
	Address      string
	IsVerified   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
