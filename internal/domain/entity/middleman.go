package entity

// MiddlemanStatus is the server's report of the two-party handshake for
// one trade. BothRequested comes from the server as a single field and
// is never re-derived from the two request flags client-side, since the
// flags can be observed out of sync across polls.
type MiddlemanStatus struct {
	User1Requested      bool  `json:"user1_requested"`
	User2Requested      bool  `json:"user2_requested"`
	UserIsUser1         bool  `json:"user_is_user1"`
	BothRequested       bool  `json:"both_requested"`
	CooldownRemainingMs int64 `json:"cooldown_remaining_ms"`
}

// SelfRequested reports whether the local user already opted in.
func (s *MiddlemanStatus) SelfRequested() bool {
	if s.UserIsUser1 {
		return s.User1Requested
	}
	return s.User2Requested
}

// PeerRequested reports whether the other party already opted in.
func (s *MiddlemanStatus) PeerRequested() bool {
	if s.UserIsUser1 {
		return s.User2Requested
	}
	return s.User1Requested
}
