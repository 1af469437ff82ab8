package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/grvup/classroom/internal/model"
)

// UserRepository user data access.
// Lookups that match nothing return pkgerrors.ErrNotFound.
type UserRepository interface {
	// Create inserts a user; an email already in use yields pkgerrors.ErrDuplicate
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// GetBySessionID never matches an empty token
	GetBySessionID(ctx context.Context, sessionID string) (*model.User, error)
	// UpdateSession stores sessionID on the user; an empty value clears it
	UpdateSession(ctx context.Context, userID, sessionID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash, salt string) error
}

// ClassRepository class aggregate data access. Reads are always scoped to
// an owner: a class owned by someone else is reported as not found.
type ClassRepository interface {
	Create(ctx context.Context, class *model.Class) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Class, error)
	GetOwned(ctx context.Context, classID, ownerID string) (*model.Class, error)
	// Save writes the whole aggregate if nobody saved it since it was
	// loaded, else returns pkgerrors.ErrOptimisticLock. On success
	// class.Version is advanced.
	Save(ctx context.Context, class *model.Class) error
}

// Repository aggregate of all repositories
type Repository struct {
	User  UserRepository
	Class ClassRepository
}

// NewMongoRepository repositories backed by the MongoDB document store
func NewMongoRepository(db *mongo.Database) *Repository {
	return &Repository{
		User:  NewUserRepo(db),
		Class: NewClassRepo(db),
	}
}

// NewGormRepository repositories backed by Postgres
func NewGormRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:  NewUserGormRepo(db),
		Class: NewClassGormRepo(db),
	}
}
