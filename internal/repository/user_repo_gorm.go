package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/grvup/classroom/internal/model"
	pkgerrors "github.com/grvup/classroom/pkg/errors"
)

// userRow users table
type userRow struct {
	ID        string  `gorm:"type:varchar(24);primaryKey"`
	Email     string  `gorm:"type:varchar(255);not null;uniqueIndex:users_email_key"`
	Password  string  `gorm:"type:varchar(64);not null"`
	Salt      string  `gorm:"type:varchar(64);not null"`
	Name      string  `gorm:"type:varchar(200);not null;default:''"`
	SessionID *string `gorm:"column:sessionid;type:varchar(64);index:users_sessionid_idx"`
	Role      string  `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName table name
func (userRow) TableName() string { return "users" }

func toUserRow(u *model.User) *userRow {
	row := &userRow{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Salt:      u.Salt,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.SessionID != "" {
		sid := u.SessionID
		row.SessionID = &sid
	}
	return row
}

func (r *userRow) toModel() *model.User {
	u := &model.User{
		ID:        r.ID,
		Email:     r.Email,
		Password:  r.Password,
		Salt:      r.Salt,
		Name:      r.Name,
		Role:      model.Role(r.Role),
		BaseModel: model.BaseModel{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
	if r.SessionID != nil {
		u.SessionID = *r.SessionID
	}
	return u
}

// userGormRepo UserRepository on Postgres
type userGormRepo struct {
	db *gorm.DB
}

// NewUserGormRepo creates the GORM UserRepository
func NewUserGormRepo(db *gorm.DB) UserRepository {
	return &userGormRepo{db: db}
}

func (r *userGormRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = model.NewID()
	}
	user.Touch(time.Now().UTC())

	if err := r.db.WithContext(ctx).Create(toUserRow(user)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return pkgerrors.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *userGormRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userGormRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userGormRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, pkgerrors.ErrNotFound
	}
	return r.first(ctx, "sessionid = ?", sessionID)
}

func (r *userGormRepo) UpdateSession(ctx context.Context, userID, sessionID string) error {
	var value interface{} = sessionID
	if sessionID == "" {
		value = nil
	}
	return r.update(ctx, userID, map[string]interface{}{"sessionid": value})
}

func (r *userGormRepo) UpdatePassword(ctx context.Context, userID, passwordHash, salt string) error {
	return r.update(ctx, userID, map[string]interface{}{"password": passwordHash, "salt": salt})
}

func (r *userGormRepo) first(ctx context.Context, query string, arg string) (*model.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return row.toModel(), nil
}

func (r *userGormRepo) update(ctx context.Context, userID string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", userID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}
