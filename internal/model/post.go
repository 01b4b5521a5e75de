package model

import "time"

// Post is a short text post authored by exactly one user. Likes are kept
// as a relational set (post_likes rows), not a counter, so a like by the
// same user counts once and toggling is idempotent per pair of calls.
type Post struct {
	ID        string    // posts.id
	AuthorID  string    // posts.author_id
	Content   string    // posts.content
	CreatedAt time.Time // posts.created_at

	// Derived from post_likes when the post is loaded.
	LikeCount int      // number of distinct users who like the post
	LikedBy   []string // ids of users who like the post
}

// Like is a single row of the post_likes membership set.
type Like struct {
	PostID    string    // post_likes.post_id
	UserID    string    // post_likes.user_id
	CreatedAt time.Time // post_likes.created_at
}
