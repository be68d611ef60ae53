package packages

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourdesk/models"
	"tourdesk/utils"
)

var (
	ErrNotFound      = errors.New("package not found")
	ErrDuplicateSlug = errors.New("slug already in use")
)

// Filter narrows List. A nil Active matches every package.
type Filter struct {
	Active *bool
}

// Store persists packages. Implementations return ErrNotFound for misses and
// ErrDuplicateSlug when the unique slug index rejects a write.
type Store interface {
	List(ctx context.Context, f Filter, opts utils.QueryOptions) ([]models.Package, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Package, error)
	FindBySlug(ctx context.Context, slug string) (*models.Package, error)
	// SlugsWithPrefix returns the slugs of every package other than exclude
	// whose slug starts with prefix.
	SlugsWithPrefix(ctx context.Context, prefix string, exclude primitive.ObjectID) ([]string, error)
	Insert(ctx context.Context, p *models.Package) error
	Replace(ctx context.Context, p *models.Package) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
