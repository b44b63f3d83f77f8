package domain

import "time"

type Court struct {
	ID        int64
	Name      string
	Surface   string
	Indoor    bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
