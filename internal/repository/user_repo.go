package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/pkg/database"
	pkgerrors "github.com/grvup/classroom/pkg/errors"
)

// userDoc users collection document
type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Salt      string             `bson:"salt"`
	Name      string             `bson:"name"`
	SessionID string             `bson:"sessionid,omitempty"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func toUserDoc(u *model.User) (*userDoc, error) {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return nil, err
	}
	return &userDoc{
		ID:        oid,
		Email:     u.Email,
		Password:  u.Password,
		Salt:      u.Salt,
		Name:      u.Name,
		SessionID: u.SessionID,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Password:  d.Password,
		Salt:      d.Salt,
		Name:      d.Name,
		SessionID: d.SessionID,
		Role:      model.Role(d.Role),
		BaseModel: model.BaseModel{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
	}
}

// userRepo UserRepository on MongoDB
type userRepo struct {
	coll *mongo.Collection
}

// NewUserRepo creates the MongoDB UserRepository
func NewUserRepo(db *mongo.Database) UserRepository {
	return &userRepo{coll: db.Collection(database.UsersCollection)}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = model.NewID()
	}
	user.Touch(time.Now().UTC())

	doc, err := toUserDoc(user)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return pkgerrors.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, pkgerrors.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, pkgerrors.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"sessionid": sessionID})
}

func (r *userRepo) UpdateSession(ctx context.Context, userID, sessionID string) error {
	update := bson.M{"$set": bson.M{"sessionid": sessionID, "updatedAt": time.Now().UTC()}}
	if sessionID == "" {
		update = bson.M{
			"$unset": bson.M{"sessionid": ""},
			"$set":   bson.M{"updatedAt": time.Now().UTC()},
		}
	}
	return r.updateByID(ctx, userID, update)
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID, passwordHash, salt string) error {
	return r.updateByID(ctx, userID, bson.M{"$set": bson.M{
		"password":  passwordHash,
		"salt":      salt,
		"updatedAt": time.Now().UTC(),
	}})
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *userRepo) updateByID(ctx context.Context, userID string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return pkgerrors.ErrNotFound
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}
