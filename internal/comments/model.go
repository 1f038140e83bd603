package comments

import "time"

// Author is the denormalised commenter summary embedded in payloads.
type Author struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// Comment represents a comment on a post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	User      Author    `json:"user"`
	Body      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
