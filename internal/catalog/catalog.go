package catalog

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/bistrokit/bistrokit/internal/domain"
)

// Categories is the fixed, ordered list of menu category labels. Items carry
// one of these labels as free text; grouping queries one category at a time.
var Categories = []string{
	"Lunch dnia",
	"Deser dnia",
	"Przystawki",
	"Śniadania",
	"Kanapki",
	"Zupy",
	"Bowle",
	"Dania główne",
	"Dania dla dzieci",
	"Sałatki",
	"Desery",
	"Napoje ciepłe",
	"Napoje zimne",
	"Napoje specjalne",
	"Alkohole",
}

// storefrontPages maps public storefront page slugs to their category subsets.
var storefrontPages = map[string][]string{
	"sniadania":              {"Śniadania", "Kanapki"},
	"bowle":                  {"Bowle"},
	"salatki":                {"Sałatki"},
	"dania-gorace":           {"Dania główne", "Dania dla dzieci"},
	"zupy-desery-przystawki": {"Zupy", "Desery", "Przystawki"},
	"napoje":                 {"Napoje ciepłe", "Napoje zimne", "Napoje specjalne", "Alkohole"},
}

var ErrUnknownPage = errors.New("unknown storefront page")

// Group is one displayed menu section.
type Group struct {
	Category string            `json:"category"`
	Items    []domain.MenuItem `json:"items"`
}

// Reader reads the menu catalog grouped by category. No caching; every call
// re-queries so admin edits show up on the next poll.
type Reader struct {
	db *gorm.DB
}

func NewReader(db *gorm.DB) *Reader {
	return &Reader{db: db}
}

// Grouped returns every category in display order. availableOnly filters to
// available items for customer-facing contexts; admin views pass false.
func (r *Reader) Grouped(ctx context.Context, availableOnly bool) ([]Group, error) {
	groups := make([]Group, 0, len(Categories))
	for _, category := range Categories {
		items, err := r.byCategory(ctx, category, availableOnly)
		if err != nil {
			return nil, err
		}
		groups = append(groups, Group{Category: category, Items: items})
	}
	return groups, nil
}

// Page returns the available items for one public storefront page.
func (r *Reader) Page(ctx context.Context, slug string) ([]Group, error) {
	categories, ok := storefrontPages[slug]
	if !ok {
		return nil, ErrUnknownPage
	}
	groups := make([]Group, 0, len(categories))
	for _, category := range categories {
		items, err := r.byCategory(ctx, category, true)
		if err != nil {
			return nil, err
		}
		groups = append(groups, Group{Category: category, Items: items})
	}
	return groups, nil
}

// VisibleEvents returns events that have not ended yet, soonest first.
// Upcoming events stay listed so customers can see what is planned.
func (r *Reader) VisibleEvents(ctx context.Context, now time.Time) ([]domain.Event, error) {
	events := make([]domain.Event, 0)
	err := r.db.WithContext(ctx).
		Where("end_date >= ?", now).
		Order("start_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *Reader) byCategory(ctx context.Context, category string, availableOnly bool) ([]domain.MenuItem, error) {
	q := r.db.WithContext(ctx).Where("category = ?", category)
	if availableOnly {
		q = q.Where("available = ?", true)
	}
	items := make([]domain.MenuItem, 0)
	if err := q.Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteMenuItem removes a menu item together with every order line that
// references it, so no orphaned rows remain.
func DeleteMenuItem(ctx context.Context, db *gorm.DB, itemID int64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item domain.MenuItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}
		if err := tx.Where("menu_item_id = ?", itemID).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
}
