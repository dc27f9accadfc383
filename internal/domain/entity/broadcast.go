package entity

import "time"

type Broadcast struct {
	ID         int64     `json:"id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
