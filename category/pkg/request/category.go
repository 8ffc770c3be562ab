package request

type Category struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
}

type UpdateCategory struct {
	Name        *string `json:"name"        validate:"omitempty,min=1"`
	Description *string `json:"description"`
}
