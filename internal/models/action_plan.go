package models

import "time"

type ActionItem struct {
	ID       string     `json:"id"`
	Title    string     `json:"title" validate:"notblank,max=200"`
	Category string     `json:"category,omitempty" validate:"omitempty,oneof=testing essays applications financialAid mentoring research activities"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
	Done     bool       `json:"done"`
}

type ActionPlan struct {
	ID        string       `json:"id"`
	StudentID string       `json:"studentId" validate:"notblank"`
	Title     string       `json:"title" validate:"notblank,max=200"`
	Items     []ActionItem `json:"items" validate:"dive"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// OpenItems returns the items not yet done.
func (p *ActionPlan) OpenItems() []ActionItem {
	open := make([]ActionItem, 0, len(p.Items))
	for _, item := range p.Items {
		if !item.Done {
			open = append(open, item)
		}
	}
	return open
}

type GeneratePlanRequest struct {
	StudentID string `json:"studentId" validate:"notblank"`
	Title     string `json:"title" validate:"max=200"`
}

type UpdateActionItemRequest struct {
	Done    *bool      `json:"done"`
	Title   *string    `json:"title" validate:"omitempty,notblank,max=200"`
	DueDate *time.Time `json:"dueDate"`
}

type UpdateActionPlanRequest struct {
	Title string       `json:"title" validate:"notblank,max=200"`
	Items []ActionItem `json:"items" validate:"dive"`
}
