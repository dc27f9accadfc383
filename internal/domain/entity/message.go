package entity

import "time"

// MaxMessageLength is enforced client-side before any send request.
const MaxMessageLength = 500

type Message struct {
	ID          int64     `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Content     string    `json:"content"`
	TradeID     int64     `json:"trade_id,omitempty"`
	ReportID    int64     `json:"report_id,omitempty"`
	IsBridged   bool      `json:"is_bridged"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConversationKey identifies a thread. The same two users may hold
// independent threads per trade, so the trade id is part of the key.
type ConversationKey struct {
	PeerID  string `json:"peer_id"`
	TradeID int64  `json:"trade_id,omitempty"`
}

// ActiveConversation is the single source of truth for where outgoing
// messages and read acknowledgements go while a conversation is open.
// It is derived once, when the conversation is opened, never re-derived
// from loaded messages.
type ActiveConversation struct {
	ConversationKey
	ReportID  int64 `json:"report_id,omitempty"`
	IsBridged bool  `json:"is_bridged"`
}
