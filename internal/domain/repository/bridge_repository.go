package repository

import "context"

// BridgeRepository relays outgoing messages of a bridged conversation
// to the external messaging bridge. Strictly best-effort: a failed
// relay is logged and must never block the normal send.
type BridgeRepository interface {
	Relay(ctx context.Context, reportID int64, senderID, content string) error
}
