package models

// Conversation is the deduplicated thread record for one unordered pair of users.
// Participants are stored in canonical order (UserAID < UserBID) and the composite
// unique index enforces at most one row per pair, whichever direction the first
// message travelled in.
type Conversation struct {
	BaseModel
	UserAID       string  `gorm:"size:36;not null;uniqueIndex:uk_conversation_pair,priority:1" json:"userAId"`
	UserBID       string  `gorm:"size:36;not null;uniqueIndex:uk_conversation_pair,priority:2" json:"userBId"`
	LastMessageID *string `gorm:"size:36" json:"lastMessageId,omitempty"`

	LastMessage *Message `gorm:"foreignKey:LastMessageID" json:"lastMessage,omitempty"`
}

// PairKey returns the canonical ordering of two user ids. Lookups and inserts
// both go through this so (A,B) and (B,A) address the same row.
func PairKey(userA, userB string) (string, string) {
	if userB < userA {
		return userB, userA
	}
	return userA, userB
}

// Other returns the participant of the conversation that is not userID.
func (c *Conversation) Other(userID string) string {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// Involves reports whether userID is one of the two participants.
func (c *Conversation) Involves(userID string) bool {
	return c.UserAID == userID || c.UserBID == userID
}
