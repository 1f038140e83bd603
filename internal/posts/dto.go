package posts

type CreatePostRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=200"`
	Content  string   `json:"content" validate:"required,min=10"`
	Tags     []string `json:"tags" validate:"max=10,dive,max=50"`
	ImageURL *string  `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// UpdatePostRequest replaces the full editable payload, mirroring create.
type UpdatePostRequest = CreatePostRequest

// ListQuery narrows and pages post listings. Zero-valued filters are off.
type ListQuery struct {
	Page         int
	Limit        int
	Tag          string
	Search       string
	AuthorID     int64
	BookmarkedBy int64
}
