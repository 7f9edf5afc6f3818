package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BuildForSDGCohort2/Team-096-backend/models"
	"github.com/BuildForSDGCohort2/Team-096-backend/utils"
)

// ErrInvalidUnit is returned when a produce measurement unit is outside the
// allowed set.
var ErrInvalidUnit = errors.New("measurement_unit must be one of bags, tonnes or units")

// PrepareCategoryForSave computes the derived slug field from the current
// state of the category. It is called before every write and touches nothing
// else, so it stays independent of the storage call itself.
func PrepareCategoryForSave(category *models.Category) {
	category.Slug = utils.EnsureSlug(category.Name, category.Slug, utils.CategoryMarker)
}

// PrepareProduceForSave validates the measurement unit and computes the
// derived slug field, mirroring the category policy with the produce marker.
func PrepareProduceForSave(produce *models.Produce) error {
	if produce.Unit == "" {
		produce.Unit = models.UnitBags
	}
	if !models.ValidMeasurementUnit(produce.Unit) {
		return ErrInvalidUnit
	}
	produce.Slug = utils.EnsureSlug(produce.Name, produce.Slug, utils.ProduceMarker)
	return nil
}

// CreateCategory persists a new category with its derived slug.
func CreateCategory(db *gorm.DB, category *models.Category) error {
	PrepareCategoryForSave(category)
	return db.Create(category).Error
}

// CreateCategoryWithProducts persists a category together with an optional
// batch of produce listings owned by the given user, all in one transaction.
func CreateCategoryWithProducts(db *gorm.DB, category *models.Category, products []models.Produce, ownerID uint) error {
	PrepareCategoryForSave(category)
	for i := range products {
		products[i].OwnerID = ownerID
		if err := PrepareProduceForSave(&products[i]); err != nil {
			return err
		}
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(category).Error; err != nil {
			return err
		}
		for i := range products {
			products[i].CategoryID = category.ID
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateProduce persists a new produce listing with its derived slug.
func CreateProduce(db *gorm.DB, produce *models.Produce) error {
	if err := PrepareProduceForSave(produce); err != nil {
		return err
	}
	return db.Create(produce).Error
}

// SaveProduce persists changes to an existing produce listing, re-deriving
// the slug when it no longer carries the marker token.
func SaveProduce(db *gorm.DB, produce *models.Produce) error {
	if err := PrepareProduceForSave(produce); err != nil {
		return err
	}
	return db.Save(produce).Error
}

// DeleteCategory removes a category after repointing every dependent produce
// to the sentinel "General" category, which is created on demand. Both phases
// run in a single transaction: no produce ever observably references a
// deleted category.
func DeleteCategory(db *gorm.DB, category *models.Category) error {
	return db.Transaction(func(tx *gorm.DB) error {
		general, err := findOrCreateGeneralCategory(tx, category)
		if err != nil {
			return err
		}
		if general != nil {
			err = tx.Model(&models.Produce{}).
				Where("category_id = ?", category.ID).
				Update("category_id", general.ID).Error
		} else {
			// Deleting the sentinel itself has no reassignment target;
			// its produce goes with it.
			err = tx.Where("category_id = ?", category.ID).Delete(&models.Produce{}).Error
		}
		if err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
}

// findOrCreateGeneralCategory returns the sentinel category, creating it if
// absent. Deleting the sentinel itself needs no reassignment target, so nil
// is returned in that case.
func findOrCreateGeneralCategory(tx *gorm.DB, deleting *models.Category) (*models.Category, error) {
	if deleting.Name == models.GeneralCategoryName {
		return nil, nil
	}

	var general models.Category
	err := tx.Where("name = ?", models.GeneralCategoryName).First(&general).Error
	if err == nil {
		return &general, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	general = models.Category{Name: models.GeneralCategoryName}
	PrepareCategoryForSave(&general)
	if err := tx.Create(&general).Error; err != nil {
		return nil, err
	}
	return &general, nil
}
