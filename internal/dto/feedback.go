package dto

import "time"

type CreateFeedbackRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=100"`
	Content string `json:"content" binding:"required"`
}

type UpdateFeedbackRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=100"`
	Content *string `json:"content" binding:"omitempty,min=1"`
}

type FeedbackResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListFeedbackResponse struct {
	Items []FeedbackResponse `json:"items"`
}
