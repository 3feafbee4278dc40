package project

import "time"

// Project groups tasks inside one organization
type Project struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	OrgID     string    `json:"orgId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListOptions filters project listings. An empty OrgID imposes no constraint.
type ListOptions struct {
	OrgID string
}
