package entity

import "time"

type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	IsRead    int       `json:"is_read"` // 0|1, as the backend reports it
	CreatedAt time.Time `json:"created_at"`
}
