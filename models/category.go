package models

// GeneralCategoryName is the sentinel category that adopts produce whose
// original category is deleted. It is created on demand.
const GeneralCategoryName = "General"

// Category groups produce listings. The slug is unique across all
// categories and always carries the category marker token once saved.
type Category struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Name     string    `gorm:"size:200;index;not null" json:"category_name"`
	Slug     string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Products []Produce `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
