package models

import "time"

type Scholarship struct {
	ID          string     `json:"id"`
	Name        string     `json:"name" validate:"notblank,max=200"`
	Provider    string     `json:"provider,omitempty"`
	Amount      int        `json:"amount" validate:"gte=0"`
	Renewable   bool       `json:"renewable"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty" validate:"omitempty,url"`

	Eligibility

	MatchScore int `json:"matchScore"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ScholarshipFilter narrows scholarship listings.
type ScholarshipFilter struct {
	MinAmount     int
	DeadlineAfter *time.Time
	Limit         int
	Offset        int
}
