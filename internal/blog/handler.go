package blog

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/blog-platform/backend/internal/models"
	"github.com/ayush/blog-platform/backend/internal/store"
	"github.com/ayush/blog-platform/backend/internal/web"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// CategoryStore defines the interface for category persistence.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	GetCategoriesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Category, error)
	CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, id, name, slug, description string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// PostStore defines the interface for post persistence, comments included.
type PostStore interface {
	ListPosts(ctx context.Context, f store.PostFilter) ([]models.Post, int64, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	InsertPost(ctx context.Context, post *models.Post) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, upd store.PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	AppendComment(ctx context.Context, postID string, c models.Comment) (*models.Post, error)
}

// UserDirectory resolves user ids to usernames for display.
type UserDirectory interface {
	GetUsernames(ctx context.Context, ids []string) (map[string]string, error)
}

// FileStore defines the interface for uploaded-image storage.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// Handler holds the category, post and comment HTTP handlers.
type Handler struct {
	categories CategoryStore
	posts      PostStore
	users      UserDirectory
	files      FileStore

	// ownerOnly restricts post update/delete to the post's author.
	ownerOnly bool
}

func NewHandler(categories CategoryStore, posts PostStore, users UserDirectory, files FileStore, ownerOnly bool) *Handler {
	return &Handler{categories: categories, posts: posts, users: users, files: files, ownerOnly: ownerOnly}
}

// ── Categories ───────────────────────────────────────────

// ListCategories returns all categories sorted by name.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.ListCategories(r.Context())
	if err != nil {
		log.Printf("list categories: %v", err)
		web.ServerError(w)
		return
	}
	if cats == nil {
		cats = []models.Category{}
	}
	web.JSON(w, http.StatusOK, cats)
}

// GetCategory returns a single category.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := h.categories.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		web.Error(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		log.Printf("get category: %v", err)
		web.ServerError(w)
		return
	}
	web.JSON(w, http.StatusOK, cat)
}

// CreateCategory creates a category. A duplicate name is a conflict.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if details := validateCategory(req.Name, req.Description, false); len(details) > 0 {
		web.ValidationError(w, details)
		return
	}

	name := strings.TrimSpace(req.Name)
	cat, err := h.categories.CreateCategory(r.Context(), &models.Category{
		Name:        name,
		Slug:        slug.Make(name),
		Description: req.Description,
	})
	if errors.Is(err, store.ErrDuplicate) {
		web.Error(w, http.StatusConflict, "Category name already exists")
		return
	}
	if err != nil {
		log.Printf("create category: %v", err)
		web.ServerError(w)
		return
	}
	web.JSON(w, http.StatusCreated, cat)
}

// UpdateCategory applies a partial update; empty fields are left unchanged.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if details := validateCategory(req.Name, req.Description, true); len(details) > 0 {
		web.ValidationError(w, details)
		return
	}

	name := strings.TrimSpace(req.Name)
	cat, err := h.categories.UpdateCategory(r.Context(), chi.URLParam(r, "id"), name, slug.Make(name), req.Description)
	if errors.Is(err, store.ErrNotFound) {
		web.Error(w, http.StatusNotFound, "Category not found")
		return
	}
	if errors.Is(err, store.ErrDuplicate) {
		web.Error(w, http.StatusConflict, "Category name already exists")
		return
	}
	if err != nil {
		log.Printf("update category: %v", err)
		web.ServerError(w)
		return
	}
	web.JSON(w, http.StatusOK, cat)
}

// DeleteCategory removes a category. Posts referencing it keep their
// reference and resolve to "Uncategorized" at read time.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	err := h.categories.DeleteCategory(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		web.Error(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		log.Printf("delete category: %v", err)
		web.ServerError(w)
		return
	}
	web.JSON(w, http.StatusOK, map[string]string{"msg": "Category deleted successfully"})
}

// ── Posts ────────────────────────────────────────────────

// ListPosts returns a page of posts with optional search and category
// filtering, newest first.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := positiveInt(q.Get("page"), defaultPage)
	limit := positiveInt(q.Get("limit"), defaultLimit)

	posts, total, err := h.posts.ListPosts(r.Context(), store.PostFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		log.Printf("list posts: %v", err)
		web.ServerError(w)
		return
	}

	views, err := h.resolvePosts(r.Context(), posts)
	if err != nil {
		log.Printf("resolve posts: %v", err)
		web.ServerError(w)
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	web.JSON(w, http.StatusOK, models.PostPage{
		Posts:      views,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	})
}

// GetPost returns a single post with references resolved.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetPost(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		web.Error(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		log.Printf("get post: %v", err)
		web.ServerError(w)
		return
	}

	view, err := h.resolvePost(r.Context(), post)
	if err != nil {
		log.Printf("resolve post: %v", err)
		web.ServerError(w)
		return
	}
	web.JSON(w, http.StatusOK, view)
}

// CreatePost creates a post from a multipart form. The author is always
// the authenticated caller, never a client-supplied value.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)

	if err := r.ParseMultipartForm(maxUploadSize + 512*1024); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		web.Error(w, http.StatusBadRequest, "invalid form data")
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	details, catID := validatePost(title, content, r.FormValue("category"))
	if !catID.IsZero() {
		if _, err := h.categories.GetCategory(r.Context(), catID.Hex()); errors.Is(err, store.ErrNotFound) {
			details = append(details, web.FieldError{Field: "category", Message: "Category not found"})
		} else if err != nil {
			log.Printf("check category: %v", err)
			web.ServerError(w)
			return
		}
	}

	up, upDetails, err := readUpload(r)
	if err != nil {
		log.Printf("read upload: %v", err)
		web.ServerError(w)
		return
	}
	details = append(details, upDetails...)
	if len(details) > 0 {
		web.ValidationError(w, details)
		return
	}

	featured := ""
	if up != nil {
		if err := h.files.Upload(r.Context(), up.key, up.data, up.contentType); err != nil {
			log.Printf("store upload: %v", err)
			web.ServerError(w)
			return
		}
		featured = up.path()
	}

	title = strings.TrimSpace(title)
	post, err := h.posts.InsertPost(r.Context(), &models.Post{
		Title:         title,
		Slug:          slug.Make(title),
		Content:       content,
		Category:      catID,
		FeaturedImage: featured,
		Author:        userID,
	})
	if err != nil {
		log.Printf("insert post: %v", err)
		web.ServerError(w)
		return
	}

	view, err := h.resolvePost(r.Context(), post)
	if err != nil {
		log.Printf("resolve post: %v", err)
		web.ServerError(w)
		return
	}
	web.JSON(w, http.StatusCreated, view)
}

// UpdatePost replaces a post's fields from a multipart form. A new image
// supersedes the stored one and the old object is deleted, as is the old
// object when removeImage is set; both deletes are best-effort.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)

	if err := r.ParseMultipartForm(maxUploadSize + 512*1024); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		web.Error(w, http.StatusBadRequest, "invalid form data")
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	details, catID := validatePost(title, content, r.FormValue("category"))
	if !catID.IsZero() {
		if _, err := h.categories.GetCategory(r.Context(), catID.Hex()); errors.Is(err, store.ErrNotFound) {
			details = append(details, web.FieldError{Field: "category", Message: "Category not found"})
		} else if err != nil {
			log.Printf("check category: %v", err)
			web.ServerError(w)
			return
		}
	}

	up, upDetails, err := readUpload(r)
	if err != nil {
		log.Printf("read upload: %v", err)
		web.ServerError(w)
		return
	}
	details = append(details, upDetails...)
	if len(details) > 0 {
		web.ValidationError(w, details)
		return
	}

	existing, err := h.posts.GetPost(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		web.Error(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		log.Printf("get post: %v", err)
		web.ServerError(w)
		return
	}
	if h.ownerOnly && existing.Author != userID {
		web.Error(w, http.StatusForbidden, "not the author of this post")
		return
	}

	var featured *string
	switch {
	case up != nil:
		if err := h.files.Upload(r.Context(), up.key, up.data, up.contentType); err != nil {
			log.Printf("store upload: %v", err)
			web.ServerError(w)
			return
		}
		h.removeImage(r.Context(), existing.FeaturedImage)
		p := up.path()
		featured = &p
	case r.FormValue("removeImage") == "true":
		h.removeImage(r.Context(), existing.FeaturedImage)
		empty := ""
		featured = &empty
	}

	title = strings.TrimSpace(title)
	post, err := h.posts.UpdatePost(r.Context(), existing.ID.Hex(), store.PostUpdate{
		Title:         title,
		Slug:          slug.Make(title),
		Content:       content,
		Category:      catID,
		FeaturedImage: featured,
	})
	if errors.Is(err, store.ErrNotFound) {
		web.Error(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		log.Printf("update post: %v", err)
		web.ServerError(w)
		return
	}

	view, err := h.resolvePost(r.Context(), post)
	if err != nil {
		log.Printf("resolve post: %v", err)
		web.ServerError(w)
		return
	}
	web.JSON(w, http.StatusOK, view)
}

// DeletePost removes a post and its stored image.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)

	post, err := h.posts.GetPost(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		web.Error(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		log.Printf("get post: %v", err)
		web.ServerError(w)
		return
	}
	if h.ownerOnly && post.Author != userID {
		web.Error(w, http.StatusForbidden, "not the author of this post")
		return
	}

	if err := h.posts.DeletePost(r.Context(), post.ID.Hex()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			web.Error(w, http.StatusNotFound, "Post not found")
			return
		}
		log.Printf("delete post: %v", err)
		web.ServerError(w)
		return
	}
	h.removeImage(r.Context(), post.FeaturedImage)

	web.JSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}

// removeImage deletes the stored object behind a featured-image path.
// Best-effort: a missing object or a storage failure never fails the
// enclosing request.
func (h *Handler) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := h.files.Remove(ctx, uploadKey(path)); err != nil {
		log.Printf("remove image %s: %v", path, err)
	}
}

// ── Comments ─────────────────────────────────────────────

// AddComment appends a comment to the post and returns it with the user
// resolved.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value("user_id").(string)

	var req models.CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		web.ValidationError(w, []web.FieldError{{Field: "text", Message: "Comment text is required"}})
		return
	}

	comment := models.Comment{User: userID, Text: req.Text, CreatedAt: time.Now()}
	post, err := h.posts.AppendComment(r.Context(), chi.URLParam(r, "id"), comment)
	if errors.Is(err, store.ErrNotFound) {
		web.Error(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		log.Printf("add comment: %v", err)
		web.ServerError(w)
		return
	}

	names, err := h.users.GetUsernames(r.Context(), []string{userID})
	if err != nil {
		log.Printf("resolve comment user: %v", err)
		web.ServerError(w)
		return
	}
	appended := post.Comments[len(post.Comments)-1]
	web.JSON(w, http.StatusCreated, commentView(appended, names))
}

// ListComments returns a post's comments in insertion order.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.GetPost(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		web.Error(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		log.Printf("get post: %v", err)
		web.ServerError(w)
		return
	}

	var userIDs []string
	seen := make(map[string]bool)
	for _, c := range post.Comments {
		if !seen[c.User] {
			seen[c.User] = true
			userIDs = append(userIDs, c.User)
		}
	}
	names, err := h.users.GetUsernames(r.Context(), userIDs)
	if err != nil {
		log.Printf("resolve comment users: %v", err)
		web.ServerError(w)
		return
	}

	views := make([]models.CommentView, 0, len(post.Comments))
	for _, c := range post.Comments {
		views = append(views, commentView(c, names))
	}
	web.JSON(w, http.StatusOK, views)
}

// ── Uploads ──────────────────────────────────────────────

// ServeUpload streams a stored image back to the client.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.files.Download(r.Context(), chi.URLParam(r, "filename"))
	if errors.Is(err, store.ErrNotFound) {
		web.Error(w, http.StatusNotFound, "file not found")
		return
	}
	if err != nil {
		log.Printf("serve upload: %v", err)
		web.ServerError(w)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
