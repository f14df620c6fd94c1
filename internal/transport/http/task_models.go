package http

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required" example:"Buy milk"`
	Description *string `json:"description" example:"2 litres"`
	Date        *string `json:"date" example:"2024-05-01"`
	Time        *string `json:"time" example:"09:30"`
}

// UpdateTaskRequest documents the accepted keys of PUT /tasks/{id}. Every key
// is optional; the body is decoded by service.ParseTaskPatch.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Time        *string `json:"time,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}
