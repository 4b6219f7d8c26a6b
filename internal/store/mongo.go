package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/blog-platform/backend/internal/models"
)

// MongoStore handles category and post CRUD in MongoDB. Comments live
// embedded in their post document and are appended with $push, so two
// concurrent comment writes against the same post both persist.
type MongoStore struct {
	categories *mongo.Collection
	posts      *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		categories: db.Collection("categories"),
		posts:      db.Collection("posts"),
	}
}

// EnsureIndexes creates the unique category-name index and the post sort
// index. Safe to call on every boot.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("category name index: %w", err)
	}
	_, err = s.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("post created_at index: %w", err)
	}
	return nil
}

// ── Categories ───────────────────────────────────────────

func (s *MongoStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cats []models.Category
	if err := cur.All(ctx, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (s *MongoStore) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var cat models.Category
	if err := s.categories.FindOne(ctx, bson.M{"_id": oid}).Decode(&cat); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cat, nil
}

// GetCategoriesByID batch-fetches categories for read-time resolution.
// Missing ids are absent from the map, not an error.
func (s *MongoStore) GetCategoriesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Category, error) {
	out := make(map[primitive.ObjectID]models.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.categories.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cats []models.Category
	if err := cur.All(ctx, &cats); err != nil {
		return nil, err
	}
	for _, c := range cats {
		out[c.ID] = c
	}
	return out, nil
}

func (s *MongoStore) CreateCategory(ctx context.Context, cat *models.Category) (*models.Category, error) {
	cat.ID = primitive.NewObjectID()
	cat.CreatedAt = time.Now()
	if _, err := s.categories.InsertOne(ctx, cat); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("category insert: %w", err)
	}
	return cat, nil
}

// UpdateCategory applies the non-empty fields and returns the updated
// document.
func (s *MongoStore) UpdateCategory(ctx context.Context, id, name, slug, description string) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set := bson.M{}
	if name != "" {
		set["name"] = name
		set["slug"] = slug
	}
	if description != "" {
		set["description"] = description
	}
	if len(set) == 0 {
		return s.GetCategory(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var cat models.Category
	err = s.categories.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&cat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &cat, nil
}

func (s *MongoStore) DeleteCategory(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.categories.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ── Posts ────────────────────────────────────────────────

// PostFilter selects and pages the post listing. Page and Limit are
// 1-based and must already be normalized by the caller.
type PostFilter struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

// PostUpdate carries the full-document field update for a post. A nil
// FeaturedImage leaves the stored path unchanged.
type PostUpdate struct {
	Title         string
	Slug          string
	Content       string
	Category      primitive.ObjectID
	FeaturedImage *string
}

func (s *MongoStore) ListPosts(ctx context.Context, f PostFilter) ([]models.Post, int64, error) {
	query := bson.M{}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"content": re},
		}
	}
	if f.Category != "" {
		oid, err := primitive.ObjectIDFromHex(f.Category)
		if err != nil {
			return nil, 0, nil
		}
		query["category"] = oid
	}

	total, err := s.posts.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	skip := int64((f.Page - 1) * f.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(f.Limit))
	cur, err := s.posts.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *MongoStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var post models.Post
	if err := s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *MongoStore) InsertPost(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.ID = primitive.NewObjectID()
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	if _, err := s.posts.InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("post insert: %w", err)
	}
	return post, nil
}

func (s *MongoStore) UpdatePost(ctx context.Context, id string, upd PostUpdate) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set := bson.M{
		"title":      upd.Title,
		"slug":       upd.Slug,
		"content":    upd.Content,
		"category":   upd.Category,
		"updated_at": time.Now(),
	}
	if upd.FeaturedImage != nil {
		set["featured_image"] = *upd.FeaturedImage
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = s.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *MongoStore) DeletePost(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendComment atomically pushes the comment onto the post's comments
// array and returns the updated post.
func (s *MongoStore) AppendComment(ctx context.Context, postID string, c models.Comment) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrNotFound
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = s.posts.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"comments": c}},
		opts,
	).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}
