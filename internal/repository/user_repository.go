package repository

import (
	"context"

	"github.com/picelmedia/wabot-admin/internal/entities"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateAccount inserts a user, its tenant and the profile linking them in one
// transaction. Ids left empty are generated.
func (r *UserRepository) CreateAccount(ctx context.Context, user *entities.User, client *entities.Client, profile *entities.Profile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if err := tx.Create(client).Error; err != nil {
			return err
		}
		profile.ID = user.ID
		profile.ClientID = client.ID
		return tx.Create(profile).Error
	})
	return translateError(err, "create account")
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err, "find user by email")
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err, "find user")
	}
	return &user, nil
}

// FindProfile returns the profile of userID, which carries its client_id.
func (r *UserRepository) FindProfile(ctx context.Context, userID string) (*entities.Profile, error) {
	var profile entities.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&profile).Error; err != nil {
		return nil, translateError(err, "find profile")
	}
	return &profile, nil
}
