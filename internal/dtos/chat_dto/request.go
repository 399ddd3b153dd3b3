package chat_dto

type CreateMessageRequest struct {
	Content string  `json:"content" validate:"required_without=FileURL"`
	FileURL *string `json:"fileUrl,omitempty" validate:"omitempty,min=1"`
}

type UpdateMessageRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

type ListMessagesRequest struct {
	Cursor *string `json:"cursor,omitempty"`
	Limit  int     `json:"limit" validate:"omitempty,min=1,max=100"`
}
