package services

import (
	"errors"

	"buildflow-backend/models"

	"gorm.io/gorm"
)

// Default EÜR categories seeded at startup. The German names are stored
// values and appear in forms and reports.
var defaultCategories = []models.Category{
	{Name: "Erlöse", Type: models.EntryIncome},
	{Name: "Materialerlöse", Type: models.EntryIncome},
	{Name: "Gutschriften", Type: models.EntryIncome},
	{Name: "Zinsen", Type: models.EntryIncome},
	{Name: "Materialkosten", Type: models.EntryExpense},
	{Name: "Fahrtkosten", Type: models.EntryExpense},
	{Name: "Miete", Type: models.EntryExpense},
	{Name: "Versicherungen", Type: models.EntryExpense},
	{Name: "Werbekosten", Type: models.EntryExpense},
	{Name: "Telefon/Internet", Type: models.EntryExpense},
	{Name: "Arbeitskleidung", Type: models.EntryExpense},
	{Name: "Werkzeuge", Type: models.EntryExpense},
}

// Categories holds the well-known category ids the reconciler writes to.
// They are resolved once at startup instead of by name lookup per request.
type Categories struct {
	LaborRevenue    uint // "Erlöse" (income)
	MaterialRevenue uint // "Materialerlöse" (income)
	MaterialCosts   uint // "Materialkosten" (expense)
}

// SeedCategories inserts the default categories that are not present yet.
func SeedCategories(db *gorm.DB) error {
	for _, cat := range defaultCategories {
		var existing models.Category
		err := db.Where("name = ? AND type = ?", cat.Name, cat.Type).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&cat).Error; err != nil {
			return err
		}
	}
	return nil
}

// LoadCategories resolves the well-known category keys.
func LoadCategories(db *gorm.DB) (*Categories, error) {
	lookup := func(name, typ string) (uint, error) {
		var cat models.Category
		if err := db.Where("name = ? AND type = ?", name, typ).First(&cat).Error; err != nil {
			return 0, err
		}
		return cat.ID, nil
	}

	var cats Categories
	var err error
	if cats.LaborRevenue, err = lookup("Erlöse", models.EntryIncome); err != nil {
		return nil, err
	}
	if cats.MaterialRevenue, err = lookup("Materialerlöse", models.EntryIncome); err != nil {
		return nil, err
	}
	if cats.MaterialCosts, err = lookup("Materialkosten", models.EntryExpense); err != nil {
		return nil, err
	}
	return &cats, nil
}
