package blog

import (
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/blog-platform/backend/internal/web"
)

// validateCategory checks the name/description bounds. With partial set,
// empty fields mean "leave unchanged" and are skipped.
func validateCategory(name, description string, partial bool) []web.FieldError {
	var details []web.FieldError

	name = strings.TrimSpace(name)
	if name == "" {
		if !partial {
			details = append(details, web.FieldError{Field: "name", Message: "Category name is required"})
		}
	} else if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		details = append(details, web.FieldError{Field: "name", Message: "Category name must be between 2 and 50 characters"})
	}

	if description == "" {
		if !partial {
			details = append(details, web.FieldError{Field: "description", Message: "Description is required"})
		}
	} else if n := utf8.RuneCountInString(description); n < 10 || n > 500 {
		details = append(details, web.FieldError{Field: "description", Message: "Description must be between 10 and 500 characters"})
	}

	return details
}

// validatePost checks title/content bounds and that category is a
// syntactically valid id. All violations are reported together.
func validatePost(title, content, category string) ([]web.FieldError, primitive.ObjectID) {
	var details []web.FieldError

	if n := utf8.RuneCountInString(strings.TrimSpace(title)); n < 3 || n > 100 {
		details = append(details, web.FieldError{Field: "title", Message: "Title must be 3-100 characters"})
	}
	if utf8.RuneCountInString(content) < 10 {
		details = append(details, web.FieldError{Field: "content", Message: "Content must be at least 10 characters"})
	}

	catID, err := primitive.ObjectIDFromHex(category)
	if err != nil {
		details = append(details, web.FieldError{Field: "category", Message: "Valid category is required"})
	}

	return details, catID
}
