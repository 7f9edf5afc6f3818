package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BuildForSDGCohort2/Team-096-backend/models"
)

// Errors surfaced by user operations and mapped to 400-class responses.
var (
	ErrEmailImmutable = errors.New("email is a write-once field and cannot be changed")
	ErrInvalidGender  = errors.New("gender must be one of M, F or empty")
)

// ProfileInput carries profile sub-fields. Nil fields are left untouched on
// update and take their zero defaults on registration.
type ProfileInput struct {
	Gender      *string `json:"gender"`
	Address     *string `json:"address"`
	PhoneNumber *int64  `json:"phone_number"`
	IsFarmer    *bool   `json:"is_farmer"`
	IsInvestor  *bool   `json:"is_investor"`
}

// RegisterInput is the payload for creating a user with its profile.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Profile   *ProfileInput
}

// UpdateUserInput is the payload for a user update. Every field is optional;
// a present Email must equal the stored one or the update is rejected.
type UpdateUserInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Profile   *ProfileInput
}

func validGender(g string) bool {
	switch g {
	case models.GenderUnspecified, models.GenderMale, models.GenderFemale:
		return true
	}
	return false
}

// RegisterUser creates a User and its linked Profile in one transaction.
// The password is hashed before storage. Omitted profile fields keep their
// defaults.
func RegisterUser(db *gorm.DB, in RegisterInput) (*models.User, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	profile := models.Profile{}
	if in.Profile != nil {
		if err := applyProfileInput(&profile, in.Profile); err != nil {
			return nil, err
		}
	}

	user := models.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
		Profile:   &profile,
	}

	// Creating the user also persists the nested profile; a failure on
	// either rolls back both.
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update to the user and merges profile
// sub-fields. Email is write-once: a differing value fails validation before
// anything is persisted.
func UpdateUser(db *gorm.DB, user *models.User, in UpdateUserInput) error {
	if in.Email != nil && *in.Email != user.Email {
		return ErrEmailImmutable
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return err
		}
		user.Password = hash
	}

	if user.Profile == nil {
		user.Profile = &models.Profile{UserID: user.ID}
	}
	if in.Profile != nil {
		if err := applyProfileInput(user.Profile, in.Profile); err != nil {
			return err
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		return tx.Save(user.Profile).Error
	})
}

// applyProfileInput overwrites only the provided profile keys.
func applyProfileInput(profile *models.Profile, in *ProfileInput) error {
	if in.Gender != nil {
		if !validGender(*in.Gender) {
			return ErrInvalidGender
		}
		profile.Gender = *in.Gender
	}
	if in.Address != nil {
		profile.Address = in.Address
	}
	if in.PhoneNumber != nil {
		profile.PhoneNumber = in.PhoneNumber
	}
	if in.IsFarmer != nil {
		profile.IsFarmer = *in.IsFarmer
	}
	if in.IsInvestor != nil {
		profile.IsInvestor = *in.IsInvestor
	}
	return nil
}
