package entity

type ConversationSummary struct {
	PeerID          string `json:"peer_id"`
	PeerDisplayName string `json:"peer_display_name"`
	PeerAvatar      string `json:"peer_avatar,omitempty"`
	TradeID         int64  `json:"trade_id,omitempty"`
	LastMessage     string `json:"last_message,omitempty"`
	UnreadCount     int    `json:"unread_count"`
}

func (s *ConversationSummary) Key() ConversationKey {
	return ConversationKey{PeerID: s.PeerID, TradeID: s.TradeID}
}
