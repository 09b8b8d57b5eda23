package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/thisdjs/breakfast-menu-app/internal/models"
)

// Placeholder glyph for items submitted without an icon.
const defaultIcon = "❓"

// ValidationError reports per-field problems with an item draft.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid item draft: %d field(s) failed validation", len(e.Fields))
}

// CreateItem validates the draft, resolves its category, assigns the next
// available id over the combined catalog and appends the new item to the
// user-created list, persisting it and recomputing derived state. Returns
// *ValidationError when the draft is rejected; no item is created in that
// case.
func (s *Store) CreateItem(draft models.ItemDraft) (models.MenuItem, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	draft.Price = strings.TrimSpace(draft.Price)
	draft.Category = strings.TrimSpace(draft.Category)
	draft.NewCategory = strings.TrimSpace(draft.NewCategory)
	draft.Icon = strings.TrimSpace(draft.Icon)
	draft.IconName = strings.TrimSpace(draft.IconName)
	draft.Image = strings.TrimSpace(draft.Image)

	fields := map[string]string{}

	if err := s.validate.Struct(draft); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return models.MenuItem{}, fmt.Errorf("validating item draft: %w", err)
		}
		for _, fe := range verrs {
			fields[draftFieldName(fe.Field())] = draftFieldMessage(fe)
		}
	}

	price, err := strconv.ParseFloat(draft.Price, 64)
	if draft.Price != "" {
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
			fields["price"] = "Price must be a positive number."
		}
	}

	if draft.Icon != "" && !isPictographic(draft.Icon) {
		fields["icon"] = "Please enter a single valid emoji."
	}

	category := draft.Category
	if category == models.NewCategorySentinel {
		if draft.NewCategory == "" {
			fields["newCategory"] = "New category name cannot be empty."
		}
		category = draft.NewCategory
	}
	if category == "" && fields["newCategory"] == "" {
		category = "Uncategorized"
	}

	if len(fields) > 0 {
		return models.MenuItem{}, &ValidationError{Fields: fields}
	}

	icon := draft.Icon
	if icon == "" {
		icon = defaultIcon
	}
	iconName := draft.IconName
	if iconName == "" {
		iconName = draft.Name
	}

	s.mu.Lock()
	var maxID int64
	for _, item := range s.allItems {
		if item.ID > maxID {
			maxID = item.ID
		}
	}

	item := models.MenuItem{
		ID:       maxID + 1,
		Name:     draft.Name,
		Price:    price,
		Category: category,
		Icon:     icon,
		IconName: iconName,
		Image:    draft.Image,
	}

	s.userItems = append(s.userItems, item)
	s.kv.Save(userItemsKey, s.userItems)
	s.recomputeLocked()
	s.mu.Unlock()

	s.notify()

	s.log.Info("menu item created",
		"id", item.ID,
		"name", item.Name,
		"category", item.Category,
	)
	return item, nil
}

func draftFieldName(structField string) string {
	switch structField {
	case "Name":
		return "name"
	case "Price":
		return "price"
	case "Category":
		return "category"
	case "NewCategory":
		return "newCategory"
	case "Icon":
		return "icon"
	case "IconName":
		return "iconName"
	case "Image":
		return "image"
	}
	return structField
}

func draftFieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Name":
		if fe.Tag() == "max" {
			return "Name cannot exceed 50 characters."
		}
		return "Name is required."
	case "Price":
		return "Price is required."
	case "Image":
		return "Image must be a valid URL."
	}
	return "Invalid value."
}

// isPictographic reports whether s is exactly one pictographic rune. The
// check approximates the Unicode Extended_Pictographic property: a single
// rune that is a symbol or sits in the supplementary pictographic planes.
func isPictographic(s string) bool {
	if utf8.RuneCountInString(s) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return false
	}
	return r >= 0x1F000 || unicode.In(r, unicode.S)
}
