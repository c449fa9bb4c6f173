package directory

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) ListDoctors(ctx context.Context) ([]User, error) {
	var doctors []User
	if err := r.db.WithContext(ctx).
		Where("role = ?", RoleDoctor).
		Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}
