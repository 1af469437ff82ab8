package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/pkg/database"
	pkgerrors "github.com/grvup/classroom/pkg/errors"
)

// ── Documents ──

// classDoc classes collection document; students and lessons are embedded
type classDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	ClassName  string             `bson:"className"`
	ClassLevel string             `bson:"classLevel"`
	StartDate  string             `bson:"startDate"`
	EndDate    string             `bson:"endDate"`
	UserID     string             `bson:"userid"`
	Students   []studentDoc       `bson:"students"`
	Lessons    []lessonDoc        `bson:"lessons"`
	Version    int                `bson:"version"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

type studentDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	FirstName   string             `bson:"firstName"`
	LastName    string             `bson:"lastName"`
	DateOfBirth string             `bson:"DOB"`
	Address     string             `bson:"address"`
	City        string             `bson:"city"`
	Country     string             `bson:"country"`
	Image       imageDoc           `bson:"image"`
}

type imageDoc struct {
	Data     []byte `bson:"data"`
	MimeType string `bson:"mimetype"`
}

type lessonDoc struct {
	ID         primitive.ObjectID `bson:"_id"`
	LessonName string             `bson:"lessonName"`
	Notes      string             `bson:"textarea"`
	LessonDate string             `bson:"lessonDate"`
	Attendance []string           `bson:"attendance"`
}

func toClassDoc(c *model.Class) (*classDoc, error) {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return nil, fmt.Errorf("class id %q: %w", c.ID, err)
	}
	doc := &classDoc{
		ID:         oid,
		ClassName:  c.ClassName,
		ClassLevel: c.ClassLevel,
		StartDate:  c.StartDate,
		EndDate:    c.EndDate,
		UserID:     c.OwnerUserID,
		Students:   make([]studentDoc, 0, len(c.Students)),
		Lessons:    make([]lessonDoc, 0, len(c.Lessons)),
		Version:    c.Version,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	for _, s := range c.Students {
		sid, err := primitive.ObjectIDFromHex(s.ID)
		if err != nil {
			return nil, fmt.Errorf("student id %q: %w", s.ID, err)
		}
		doc.Students = append(doc.Students, studentDoc{
			ID:          sid,
			FirstName:   s.FirstName,
			LastName:    s.LastName,
			DateOfBirth: s.DateOfBirth,
			Address:     s.Address,
			City:        s.City,
			Country:     s.Country,
			Image:       imageDoc{Data: s.Image.Data, MimeType: s.Image.MimeType},
		})
	}
	for _, l := range c.Lessons {
		lid, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("lesson id %q: %w", l.ID, err)
		}
		attendance := l.Attendance
		if attendance == nil {
			attendance = []string{}
		}
		doc.Lessons = append(doc.Lessons, lessonDoc{
			ID:         lid,
			LessonName: l.LessonName,
			Notes:      l.Notes,
			LessonDate: l.LessonDate,
			Attendance: attendance,
		})
	}
	return doc, nil
}

func (d *classDoc) toModel() *model.Class {
	c := &model.Class{
		ID:          d.ID.Hex(),
		ClassName:   d.ClassName,
		ClassLevel:  d.ClassLevel,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		OwnerUserID: d.UserID,
		Students:    make([]model.Student, 0, len(d.Students)),
		Lessons:     make([]model.Lesson, 0, len(d.Lessons)),
		Version:     d.Version,
		BaseModel:   model.BaseModel{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
	}
	for _, s := range d.Students {
		c.Students = append(c.Students, model.Student{
			ID:          s.ID.Hex(),
			FirstName:   s.FirstName,
			LastName:    s.LastName,
			DateOfBirth: s.DateOfBirth,
			Address:     s.Address,
			City:        s.City,
			Country:     s.Country,
			Image:       model.Image{Data: s.Image.Data, MimeType: s.Image.MimeType},
		})
	}
	for _, l := range d.Lessons {
		c.Lessons = append(c.Lessons, model.Lesson{
			ID:         l.ID.Hex(),
			LessonName: l.LessonName,
			Notes:      l.Notes,
			LessonDate: l.LessonDate,
			Attendance: l.Attendance,
		})
	}
	return c
}

// ── Repository ──

// classRepo ClassRepository on MongoDB
type classRepo struct {
	coll *mongo.Collection
}

// NewClassRepo creates the MongoDB ClassRepository
func NewClassRepo(db *mongo.Database) ClassRepository {
	return &classRepo{coll: db.Collection(database.ClassesCollection)}
}

func (r *classRepo) Create(ctx context.Context, class *model.Class) error {
	if class.ID == "" {
		class.ID = model.NewID()
	}
	class.Version = 1
	class.Touch(time.Now().UTC())

	doc, err := toClassDoc(class)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return err
}

// ListByOwner skips photo bytes; the home page never shows them
func (r *classRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Class, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetProjection(bson.M{"students.image.data": 0})

	cur, err := r.coll.Find(ctx, bson.M{"userid": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	classes := []model.Class{}
	for cur.Next(ctx) {
		var doc classDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		classes = append(classes, *doc.toModel())
	}
	return classes, cur.Err()
}

func (r *classRepo) GetOwned(ctx context.Context, classID, ownerID string) (*model.Class, error) {
	oid, err := primitive.ObjectIDFromHex(classID)
	if err != nil {
		return nil, pkgerrors.ErrNotFound
	}

	var doc classDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": oid, "userid": ownerID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *classRepo) Save(ctx context.Context, class *model.Class) error {
	loaded := class.Version
	class.Version = loaded + 1
	class.Touch(time.Now().UTC())

	doc, err := toClassDoc(class)
	if err != nil {
		class.Version = loaded
		return err
	}

	filter := bson.M{"_id": doc.ID, "userid": class.OwnerUserID, "version": loaded}
	res, err := r.coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		class.Version = loaded
		return err
	}
	if res.MatchedCount == 0 {
		class.Version = loaded
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}
