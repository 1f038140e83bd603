package posts

import "time"

// Author is the denormalised author summary embedded in post payloads.
type Author struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// Post represents a blog post. IsLiked and IsBookmarked are filled per
// viewer; they stay false for anonymous requests.
type Post struct {
	ID            int64     `json:"id"`
	Author        Author    `json:"author"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Tags          []string  `json:"tags"`
	ImageURL      *string   `json:"imageUrl,omitempty"`
	LikesCount    int       `json:"likesCount"`
	CommentsCount int       `json:"commentsCount"`
	IsLiked       bool      `json:"isLiked"`
	IsBookmarked  bool      `json:"isBookmarked"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Flags carries a viewer's interaction state for one post.
type Flags struct {
	Liked      bool
	Bookmarked bool
}
