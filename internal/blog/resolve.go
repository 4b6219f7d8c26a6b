package blog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/blog-platform/backend/internal/models"
)

// Placeholders shown when a reference points at a deleted entity. Category
// deletion does not cascade to posts, so dangling references are possible.
const (
	uncategorizedName = "Uncategorized"
	deletedUsername   = "deleted user"
)

// resolvePosts joins each post's category and user references to their
// summary forms, the way the original documents are populated for display.
func (h *Handler) resolvePosts(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	catIDs := make([]primitive.ObjectID, 0, len(posts))
	seenCats := make(map[primitive.ObjectID]bool)
	var userIDs []string
	seenUsers := make(map[string]bool)

	addUser := func(id string) {
		if id != "" && !seenUsers[id] {
			seenUsers[id] = true
			userIDs = append(userIDs, id)
		}
	}
	for _, p := range posts {
		if !seenCats[p.Category] {
			seenCats[p.Category] = true
			catIDs = append(catIDs, p.Category)
		}
		addUser(p.Author)
		for _, c := range p.Comments {
			addUser(c.User)
		}
	}

	cats, err := h.categories.GetCategoriesByID(ctx, catIDs)
	if err != nil {
		return nil, err
	}
	names, err := h.users.GetUsernames(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postView(p, cats, names))
	}
	return views, nil
}

func (h *Handler) resolvePost(ctx context.Context, p *models.Post) (*models.PostView, error) {
	views, err := h.resolvePosts(ctx, []models.Post{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func postView(p models.Post, cats map[primitive.ObjectID]models.Category, names map[string]string) models.PostView {
	cat, ok := cats[p.Category]
	if !ok {
		cat = models.Category{ID: p.Category, Name: uncategorizedName}
	}
	comments := make([]models.CommentView, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, commentView(c, names))
	}
	return models.PostView{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Category:      cat,
		FeaturedImage: p.FeaturedImage,
		Author:        authorRef(p.Author, names),
		Comments:      comments,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func commentView(c models.Comment, names map[string]string) models.CommentView {
	return models.CommentView{
		User:      authorRef(c.User, names),
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func authorRef(id string, names map[string]string) models.AuthorRef {
	username, ok := names[id]
	if !ok {
		username = deletedUsername
	}
	return models.AuthorRef{ID: id, Username: username}
}
