package models

import "time"

type WaitlistEntry struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	EmailHash    string    `json:"-"` // sha256 наружу не отдаём
	SignupIPHash string    `json:"-"`
	UserAgent    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
