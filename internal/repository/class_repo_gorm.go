package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/grvup/classroom/internal/model"
	pkgerrors "github.com/grvup/classroom/pkg/errors"
)

// classRow classes table; the embedded students and lessons are JSONB
// columns so the aggregate is still written in a single statement.
type classRow struct {
	ID         string                             `gorm:"type:varchar(24);primaryKey"`
	ClassName  string                             `gorm:"type:varchar(200);not null;default:''"`
	ClassLevel string                             `gorm:"type:varchar(100);not null;default:''"`
	StartDate  string                             `gorm:"type:varchar(40);not null;default:''"`
	EndDate    string                             `gorm:"type:varchar(40);not null;default:''"`
	UserID     string                             `gorm:"column:userid;type:varchar(24);not null;index:classes_userid_idx"`
	Students   datatypes.JSONSlice[model.Student] `gorm:"type:jsonb;not null"`
	Lessons    datatypes.JSONSlice[model.Lesson]  `gorm:"type:jsonb;not null"`
	Version    int                                `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName table name
func (classRow) TableName() string { return "classes" }

func toClassRow(c *model.Class) *classRow {
	students := c.Students
	if students == nil {
		students = []model.Student{}
	}
	lessons := c.Lessons
	if lessons == nil {
		lessons = []model.Lesson{}
	}
	return &classRow{
		ID:         c.ID,
		ClassName:  c.ClassName,
		ClassLevel: c.ClassLevel,
		StartDate:  c.StartDate,
		EndDate:    c.EndDate,
		UserID:     c.OwnerUserID,
		Students:   datatypes.NewJSONSlice(students),
		Lessons:    datatypes.NewJSONSlice(lessons),
		Version:    c.Version,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (r *classRow) toModel() *model.Class {
	return &model.Class{
		ID:          r.ID,
		ClassName:   r.ClassName,
		ClassLevel:  r.ClassLevel,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		OwnerUserID: r.UserID,
		Students:    []model.Student(r.Students),
		Lessons:     []model.Lesson(r.Lessons),
		Version:     r.Version,
		BaseModel:   model.BaseModel{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}

// classGormRepo ClassRepository on Postgres
type classGormRepo struct {
	db *gorm.DB
}

// NewClassGormRepo creates the GORM ClassRepository
func NewClassGormRepo(db *gorm.DB) ClassRepository {
	return &classGormRepo{db: db}
}

func (r *classGormRepo) Create(ctx context.Context, class *model.Class) error {
	if class.ID == "" {
		class.ID = model.NewID()
	}
	class.Version = 1
	class.Touch(time.Now().UTC())

	return r.db.WithContext(ctx).Create(toClassRow(class)).Error
}

func (r *classGormRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Class, error) {
	var rows []classRow
	err := r.db.WithContext(ctx).
		Where("userid = ?", ownerID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	classes := make([]model.Class, 0, len(rows))
	for i := range rows {
		classes = append(classes, *rows[i].toModel())
	}
	return classes, nil
}

func (r *classGormRepo) GetOwned(ctx context.Context, classID, ownerID string) (*model.Class, error) {
	var row classRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND userid = ?", classID, ownerID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (r *classGormRepo) Save(ctx context.Context, class *model.Class) error {
	now := time.Now().UTC()
	row := toClassRow(class)

	res := r.db.WithContext(ctx).
		Model(&classRow{}).
		Where("id = ? AND userid = ? AND version = ?", class.ID, class.OwnerUserID, class.Version).
		Updates(map[string]interface{}{
			"class_name":  row.ClassName,
			"class_level": row.ClassLevel,
			"start_date":  row.StartDate,
			"end_date":    row.EndDate,
			"students":    row.Students,
			"lessons":     row.Lessons,
			"version":     gorm.Expr("version + 1"),
			"updated_at":  now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}

	class.Version++
	class.UpdatedAt = now
	return nil
}
