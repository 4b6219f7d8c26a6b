package blog

import (
	"strings"
	"testing"

	"github.com/ayush/blog-platform/backend/internal/web"
)

func fieldSet(details []web.FieldError) map[string]bool {
	fields := make(map[string]bool)
	for _, d := range details {
		fields[d.Field] = true
	}
	return fields
}

func TestValidateCategoryBounds(t *testing.T) {
	if details := validateCategory("Go", "A category about the Go programming language", false); len(details) != 0 {
		t.Fatalf("expected valid, got %v", details)
	}
	if details := validateCategory("G", "too short", false); len(details) != 2 {
		t.Fatalf("expected 2 violations, got %v", details)
	}
	if details := validateCategory(strings.Repeat("x", 51), strings.Repeat("y", 501), false); len(details) != 2 {
		t.Fatalf("expected 2 violations, got %v", details)
	}
}

func TestValidateCategoryRequired(t *testing.T) {
	details := validateCategory("", "", false)
	fields := fieldSet(details)
	if !fields["name"] || !fields["description"] {
		t.Fatalf("expected name and description required, got %v", details)
	}
}

func TestValidateCategoryPartialSkipsEmpty(t *testing.T) {
	if details := validateCategory("", "", true); len(details) != 0 {
		t.Fatalf("expected empty fields skipped on partial update, got %v", details)
	}
	// Provided fields are still bounded.
	if details := validateCategory("G", "", true); len(details) != 1 {
		t.Fatalf("expected 1 violation, got %v", details)
	}
}

func TestValidatePostCollectsAllViolations(t *testing.T) {
	details, _ := validatePost("ab", "short", "not-an-id")
	fields := fieldSet(details)
	if len(details) != 3 || !fields["title"] || !fields["content"] || !fields["category"] {
		t.Fatalf("expected title, content and category violations, got %v", details)
	}
}

func TestValidatePostAccepts(t *testing.T) {
	details, catID := validatePost("Hello World", "This is long enough content.", "655f1f77bcf86cd799439011")
	if len(details) != 0 {
		t.Fatalf("expected valid, got %v", details)
	}
	if catID.IsZero() {
		t.Fatal("expected parsed category id")
	}
}

func TestValidatePostTitleBounds(t *testing.T) {
	if details, _ := validatePost(strings.Repeat("x", 101), "valid content here", "655f1f77bcf86cd799439011"); len(details) != 1 {
		t.Fatalf("expected title violation, got %v", details)
	}
	// 3 chars is the minimum, whitespace excluded.
	if details, _ := validatePost("  ab  ", "valid content here", "655f1f77bcf86cd799439011"); len(details) != 1 {
		t.Fatalf("expected title violation, got %v", details)
	}
}
