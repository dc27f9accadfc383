package entity

type DashboardSummary struct {
	OpenTrades       int `json:"open_trades"`
	ActiveListings   int `json:"active_listings"`
	PendingMiddleman int `json:"pending_middleman"`
	UnreadMessages   int `json:"unread_messages"`
	OpenReports      int `json:"open_reports"`
	CompletedTrades  int `json:"completed_trades"`
}
