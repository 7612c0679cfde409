package submissions

import "time"

// Submission represents one persisted resume submission owned by a user.
// ID and CreatedAt are assigned by the store at insertion and never change.
type Submission struct {
	ID        int64
	Username  string
	Filename  string
	File      []byte
	JobTitle  string
	Score     float64
	CreatedAt time.Time
}

// HasAttachment reports whether the submission carries original file bytes.
func (s Submission) HasAttachment() bool {
	return len(s.File) > 0
}
