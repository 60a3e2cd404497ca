package domain

import "time"

type Organization struct {
	ID          string
	Name        string
	Description string // optional, defaults to ""
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
