package models

import "time"

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// ChatResponse is the reply from the tutor.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ChatHistory is one stored chat turn. ID and CreatedAt are assigned by the store.
type ChatHistory struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type ChatHistoryResponse struct {
	History []*ChatHistory `json:"history"`
}
