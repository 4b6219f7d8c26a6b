package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is stored in the MongoDB "categories" collection.
// Name carries a unique index.
type Category struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	Name        string             `json:"name"        bson:"name"`
	Slug        string             `json:"slug"        bson:"slug"`
	Description string             `json:"description" bson:"description"`
	CreatedAt   time.Time          `json:"created_at"  bson:"created_at"`
}

// Comment is embedded in a post's append-only comments array.
// User is the author's Postgres user id.
type Comment struct {
	User      string    `json:"user"       bson:"user"`
	Text      string    `json:"text"       bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Post is stored in the MongoDB "posts" collection. Category holds the
// referenced category's ObjectID and Author the Postgres user id; both are
// resolved to their summary forms at read time.
type Post struct {
	ID            primitive.ObjectID `json:"id"             bson:"_id,omitempty"`
	Title         string             `json:"title"          bson:"title"`
	Slug          string             `json:"slug"           bson:"slug"`
	Content       string             `json:"content"        bson:"content"`
	Category      primitive.ObjectID `json:"category"       bson:"category"`
	FeaturedImage string             `json:"featured_image" bson:"featured_image"`
	Author        string             `json:"author"         bson:"author"`
	Comments      []Comment          `json:"comments"       bson:"comments"`
	CreatedAt     time.Time          `json:"created_at"     bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"     bson:"updated_at"`
}

// AuthorRef is the resolved summary of a user reference.
type AuthorRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CommentView is a comment with its user reference resolved.
type CommentView struct {
	User      AuthorRef `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView is a post with category and author references resolved, as
// returned by the API.
type PostView struct {
	ID            primitive.ObjectID `json:"id"`
	Title         string             `json:"title"`
	Slug          string             `json:"slug"`
	Content       string             `json:"content"`
	Category      Category           `json:"category"`
	FeaturedImage string             `json:"featured_image"`
	Author        AuthorRef          `json:"author"`
	Comments      []CommentView      `json:"comments"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// PostPage is the paginated response for GET /api/posts.
type PostPage struct {
	Posts      []PostView `json:"posts"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}

// CategoryRequest is the JSON body for category create and update. On
// update, an empty field means "leave unchanged".
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CommentRequest is the JSON body for POST /api/posts/{id}/comments.
type CommentRequest struct {
	Text string `json:"text"`
}
