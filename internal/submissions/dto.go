package submissions

import "time"

// SubmissionResponse is the outward-facing representation of a submission.
// DownloadURL is only present while the record is visible and its link open.
type SubmissionResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Filename    string    `json:"filename,omitempty"`
	JobTitle    string    `json:"jobTitle"`
	Score       float64   `json:"score"`
	HasFile     bool      `json:"hasFile"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toResponse(sub Submission, links map[int64]Link) SubmissionResponse {
	resp := SubmissionResponse{
		ID:        sub.ID,
		Username:  sub.Username,
		Filename:  sub.Filename,
		JobTitle:  sub.JobTitle,
		Score:     sub.Score,
		HasFile:   sub.HasAttachment(),
		CreatedAt: sub.CreatedAt,
	}
	if link, ok := links[sub.ID]; ok {
		resp.DownloadURL = link.URL
	}
	return resp
}
