package notification

import "time"

type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

// FeedSize is the number of notifications a student sees at once.
const FeedSize = 10

type Notification struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	StudentName string    `json:"studentName,omitempty"`
	Type        Type      `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Date        time.Time `json:"date"`
	Read        bool      `json:"read"`
}

// Item is a notification as shown in a feed, with its age relative to now.
type Item struct {
	Notification
	Age string `json:"age"`
}

type NewNotification struct {
	StudentID   string
	StudentName string
	Type        Type
	Title       string
	Message     string
}

type QueryFilter struct {
	StudentID string
	Unread    bool
}
