package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/testkit"
)

func ptr[T any](v T) *T { return &v }

func createItem(t *testing.T, db *gorm.DB, propertyID uint, name string, description *string) models.MenuItem {
	t.Helper()
	item := models.MenuItem{PropertyID: propertyID, Name: name, Description: description, Status: models.MenuEnabled}
	require.NoError(t, NewMenuItemRepository(db).Create(context.Background(), &item))
	return item
}

func TestFindMissingIsNotFound(t *testing.T) {
	db := testkit.NewDB(t)
	ctx := context.Background()

	_, err := NewPropertyRepository(db).Find(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = NewMenuItemRepository(db).Find(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = NewGuestRecordRepository(db).Find(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = NewUserRepository(db).FindByEmail(ctx, "nobody@staydesk.test")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMenuPagePaginatesByName(t *testing.T) {
	db := testkit.NewDB(t)
	owner := testkit.CreateUser(t, db, "owner@staydesk.test")
	p := testkit.CreateProperty(t, db, owner, "Harbour")

	for i := 13; i >= 1; i-- {
		createItem(t, db, p.ID, fmt.Sprintf("Dish %02d", i), nil)
	}

	repo := NewMenuItemRepository(db)
	items, page, err := repo.Page(context.Background(), MenuFilter{PropertyID: p.ID, Page: 2})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "Dish 13", items[0].Name)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)
	assert.Equal(t, int64(13), page.Total)
	assert.Equal(t, 13, page.From)
	assert.Equal(t, 13, page.To)
	assert.NotNil(t, items[0].Categories)
}

func TestMenuPageSearchIsScopedAndCaseInsensitive(t *testing.T) {
	db := testkit.NewDB(t)
	owner := testkit.CreateUser(t, db, "owner@staydesk.test")
	p := testkit.CreateProperty(t, db, owner, "Harbour")
	other := testkit.CreateProperty(t, db, owner, "Lagoon")

	createItem(t, db, p.ID, "Chocolate Cake", nil)
	createItem(t, db, p.ID, "Caesar Salad", ptr("no CHOCOLATE here"))
	createItem(t, db, p.ID, "Lemonade", nil)
	createItem(t, db, other.ID, "Chocolate Mousse", nil)

	items, _, err := NewMenuItemRepository(db).Page(context.Background(), MenuFilter{PropertyID: p.ID, Search: "  chocolate "})
	require.NoError(t, err)

	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	assert.Equal(t, []string{"Caesar Salad", "Chocolate Cake"}, names)
}

func TestMenuPageSearchEscapesWildcards(t *testing.T) {
	db := testkit.NewDB(t)
	owner := testkit.CreateUser(t, db, "owner@staydesk.test")
	p := testkit.CreateProperty(t, db, owner, "Harbour")

	createItem(t, db, p.ID, "100% Orange Juice", nil)
	createItem(t, db, p.ID, "1000 Island Salad", nil)
	createItem(t, db, p.ID, "Club_Sandwich", nil)
	createItem(t, db, p.ID, "Club Sandwich", nil)

	repo := NewMenuItemRepository(db)
	ctx := context.Background()

	items, _, err := repo.Page(ctx, MenuFilter{PropertyID: p.ID, Search: "100%"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "100% Orange Juice", items[0].Name)

	items, _, err = repo.Page(ctx, MenuFilter{PropertyID: p.ID, Search: "b_s"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Club_Sandwich", items[0].Name)
}

func TestMenuPageFiltersByAnyCategory(t *testing.T) {
	db := testkit.NewDB(t)
	owner := testkit.CreateUser(t, db, "owner@staydesk.test")
	p := testkit.CreateProperty(t, db, owner, "Harbour")
	cats := testkit.SeedCategories(t, db, "Dessert", "Beverage", "Soup")

	repo := NewMenuItemRepository(db)
	ctx := context.Background()

	cake := createItem(t, db, p.ID, "Cake", nil)
	tea := createItem(t, db, p.ID, "Tea", nil)
	broth := createItem(t, db, p.ID, "Broth", nil)
	require.NoError(t, repo.AttachTags(ctx, cake.ID, []uint{cats[0].ID}))
	require.NoError(t, repo.AttachTags(ctx, tea.ID, []uint{cats[1].ID, cats[0].ID}))
	require.NoError(t, repo.AttachTags(ctx, broth.ID, []uint{cats[2].ID}))

	items, page, err := repo.Page(ctx, MenuFilter{PropertyID: p.ID, CategoryIDs: []uint{cats[0].ID, cats[1].ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, items, 2)
	assert.Equal(t, "Cake", items[0].Name)
	assert.Equal(t, "Tea", items[1].Name)

	// Categories are ordered by name.
	require.Len(t, items[1].Categories, 2)
	assert.Equal(t, "Beverage", items[1].Categories[0].Name)
	assert.Equal(t, "Dessert", items[1].Categories[1].Name)
}

func TestAttachTagsIsIdempotent(t *testing.T) {
	db := testkit.NewDB(t)
	owner := testkit.CreateUser(t, db, "owner@staydesk.test")
	p := testkit.CreateProperty(t, db, owner, "Harbour")
	cats := testkit.SeedCategories(t, db, "Dessert", "Beverage")

	repo := NewMenuItemRepository(db)
	ctx := context.Background()
	item := createItem(t, db, p.ID, "Cake", nil)

	require.NoError(t, repo.AttachTags(ctx, item.ID, []uint{cats[0].ID}))
	require.NoError(t, repo.AttachTags(ctx, item.ID, []uint{cats[0].ID, cats[1].ID}))

	ids, err := repo.TagIDs(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{cats[0].ID, cats[1].ID}, ids)

	require.NoError(t, repo.DetachTags(ctx, item.ID, []uint{}))
	ids, _ = repo.TagIDs(ctx, item.ID)
	assert.Len(t, ids, 2)

	require.NoError(t, repo.DetachTags(ctx, item.ID, nil))
	ids, _ = repo.TagIDs(ctx, item.ID)
	assert.Empty(t, ids)
}

func TestCategorySeedAndCache(t *testing.T) {
	db := testkit.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, []string{"Soup", "Dessert"}))
	require.NoError(t, repo.Seed(ctx, []string{"Dessert", "Appetizer"}))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Appetizer", "Dessert", "Soup"}, names)

	// A row inserted behind the repository's back is hidden by the cache
	// until the next Seed forgets it.
	require.NoError(t, db.Create(&models.Category{Name: "Brunch"}).Error)
	cached, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 3)

	require.NoError(t, repo.Seed(ctx, nil))
	fresh, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 4)

	found, err := repo.ExistingIDs(ctx, []uint{all[0].ID, 999})
	require.NoError(t, err)
	assert.Equal(t, []uint{all[0].ID}, found)
}

func TestGuestPageOrdersAndSearches(t *testing.T) {
	db := testkit.NewDB(t)
	owner := testkit.CreateUser(t, db, "owner@staydesk.test")
	p := testkit.CreateProperty(t, db, owner, "Harbour")

	repo := NewGuestRecordRepository(db)
	ctx := context.Background()
	for _, g := range []models.GuestRecord{
		{PropertyID: p.ID, GuestName: "Zoe", AreaName: "Penthouse", Status: models.GuestCheckedIn},
		{PropertyID: p.ID, GuestName: "adam", AreaName: "Garden Wing", Status: models.GuestCheckedIn},
		{PropertyID: p.ID, GuestName: "Mia", AreaName: "garden wing", Status: models.GuestCheckedOut},
	} {
		g := g
		require.NoError(t, repo.Create(ctx, &g))
	}

	guests, page, err := repo.Page(ctx, GuestFilter{PropertyID: p.ID, Search: "GARDEN"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, guests, 2)
	assert.Equal(t, "Mia", guests[0].GuestName)
	assert.Equal(t, "adam", guests[1].GuestName)
}

func TestPropertyOptionsAreOwnerScoped(t *testing.T) {
	db := testkit.NewDB(t)
	owner := testkit.CreateUser(t, db, "owner@staydesk.test")
	other := testkit.CreateUser(t, db, "other@staydesk.test")
	testkit.CreateProperty(t, db, owner, "Zenith")
	testkit.CreateProperty(t, db, owner, "Atoll")
	testkit.CreateProperty(t, db, other, "Elsewhere")

	opts, err := NewPropertyRepository(db).OptionsByOwner(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "Atoll", opts[0].Name)
	assert.Equal(t, "Zenith", opts[1].Name)
}
