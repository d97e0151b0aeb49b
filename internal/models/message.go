package models

// MessageKind represents the kind of a message payload
type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindFile  MessageKind = "file"
	MessageKindImage MessageKind = "image"
)

// MaxContentLength is the longest message content accepted, in characters.
const MaxContentLength = 1000

// Message represents a direct message between two users.
// Timestamps are server-assigned via BaseModel; CreatedAt never changes after insert.
type Message struct {
	BaseModel
	SenderID   string      `gorm:"size:36;index;not null" json:"senderId"`
	ReceiverID string      `gorm:"size:36;index;not null" json:"receiverId"`
	Content    string      `gorm:"type:text;not null" json:"content"`
	Kind       MessageKind `gorm:"size:10;default:'text'" json:"kind"`
	Read       bool        `gorm:"column:is_read;default:false" json:"isRead"`

	// Optional file metadata, only meaningful for file/image kinds
	FileURL  string `gorm:"size:512" json:"fileUrl,omitempty"`
	FileName string `gorm:"size:255" json:"fileName,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`

	// Relations
	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}
