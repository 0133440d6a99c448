package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/testkit"
	"github.com/staydesk/staydesk/pkg/upload"
)

func TestPropertyCreateStoresImages(t *testing.T) {
	f := setup(t)
	svc := NewPropertyService(f.db, f.disk)

	p, err := svc.Create(context.Background(), f.owner.ID, PropertyInput{
		Name:          "Sea View",
		City:          ptr("Lisbon"),
		StarRating:    ptr(4),
		HotelCategory: ptr(models.HotelLuxury),
	}, []upload.File{image(t, "a.png"), image(t, "b.png")})
	require.NoError(t, err)

	assert.Equal(t, f.owner.ID, p.UserID)
	require.Len(t, p.Images, 2)
	for _, img := range p.Images {
		assert.Equal(t, p.ID, img.PropertyID)
		assert.Equal(t, models.ImageInterior, img.Type)
		assert.True(t, f.exists(t, img.Image))
		assert.Regexp(t, `^property-images/[0-9a-f-]+\.png$`, img.Image)
	}
	assert.EqualValues(t, 2, f.count(t, &models.PropertyImage{}, "property_id = ?", p.ID))
}

func TestPropertyCreateValidates(t *testing.T) {
	f := setup(t)
	svc := NewPropertyService(f.db, f.disk)

	_, err := svc.Create(context.Background(), f.owner.ID, PropertyInput{
		StarRating:    ptr(6),
		Latitude:      ptr(91.0),
		HotelCategory: ptr(models.HotelCategory("hostel")),
	}, []upload.File{image(t, "a.png")})

	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "star_rating")
	assert.Contains(t, fields, "latitude")
	assert.Contains(t, fields, "hotel_category")

	assert.Empty(t, f.blobs(t, PropertyImagesDir), "nothing is stored for an invalid property")
	assert.EqualValues(t, 0, f.count(t, &models.Property{}, "1 = 1"))
}

func TestPropertyCreateCompensatesFailedUpload(t *testing.T) {
	disk := newFlakyDisk(t)
	disk.On("PutStream", mock.Anything).Return(nil).Once()
	disk.On("PutStream", mock.Anything).Return(errors.New("disk full"))
	disk.On("Delete", mock.Anything).Return(nil)

	f := setupWith(t, disk, disk.Root())
	svc := NewPropertyService(f.db, f.disk)

	_, err := svc.Create(context.Background(), f.owner.ID, PropertyInput{Name: "Sea View"},
		[]upload.File{image(t, "a.png"), image(t, "b.png")})

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "put", se.Op)
	assert.Equal(t, f.owner.ID, se.UserID)

	assert.Empty(t, f.blobs(t, PropertyImagesDir))
	assert.EqualValues(t, 0, f.count(t, &models.Property{}, "1 = 1"))
	disk.AssertNumberOfCalls(t, "Delete", 1)
	assert.Zero(t, f.purges.Len())
}

func TestFailedCompensationIsQueued(t *testing.T) {
	disk := newFlakyDisk(t)
	disk.On("PutStream", mock.Anything).Return(nil).Once()
	disk.On("PutStream", mock.Anything).Return(errors.New("disk full"))
	disk.On("Delete", mock.Anything).Return(errors.New("access denied"))

	f := setupWith(t, disk, disk.Root())
	svc := NewPropertyService(f.db, f.disk)

	_, err := svc.Create(context.Background(), f.owner.ID, PropertyInput{Name: "Sea View"},
		[]upload.File{image(t, "a.png"), image(t, "b.png")})
	require.Error(t, err)

	assert.Len(t, f.blobs(t, PropertyImagesDir), 1, "the orphan stays until the purge runs")
	assert.Equal(t, 1, f.purges.Len())
}

func TestPropertyCreateCompensatesFailedTransaction(t *testing.T) {
	f := setup(t)
	svc := NewPropertyService(f.db, f.disk)
	require.NoError(t, f.db.Migrator().DropTable(&models.PropertyImage{}))

	_, err := svc.Create(context.Background(), f.owner.ID, PropertyInput{Name: "Sea View"},
		[]upload.File{image(t, "a.png")})
	require.Error(t, err)

	assert.Empty(t, f.blobs(t, PropertyImagesDir))
	assert.EqualValues(t, 0, f.count(t, &models.Property{}, "1 = 1"), "the property row is rolled back")
}

func TestPropertyUpdateByNonOwnerChangesNothing(t *testing.T) {
	f := setup(t)
	svc := NewPropertyService(f.db, f.disk)
	p := testkit.CreateProperty(t, f.db, f.owner, "Sea View")

	_, err := svc.Update(context.Background(), f.other.ID, p.ID, PropertyPatch{Name: ptr("Hijacked")})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Show(context.Background(), f.owner.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sea View", got.Name)
	assert.Equal(t, f.owner.ID, got.UserID)
}

func TestPropertyUpdateAppliesPresentFields(t *testing.T) {
	f := setup(t)
	svc := NewPropertyService(f.db, f.disk)
	ctx := context.Background()

	p, err := svc.Create(ctx, f.owner.ID, PropertyInput{Name: "Sea View", City: ptr("Lisbon"), Phone: ptr("123")}, nil)
	require.NoError(t, err)

	got, err := svc.Update(ctx, f.owner.ID, p.ID, PropertyPatch{
		City:       Value("Porto"),
		Phone:      Null[string](),
		TotalRooms: Value(40),
	})
	require.NoError(t, err)

	assert.Equal(t, "Sea View", got.Name)
	assert.Equal(t, "Porto", *got.City)
	assert.Nil(t, got.Phone)
	assert.Equal(t, 40, *got.TotalRooms)

	_, err = svc.Update(ctx, f.owner.ID, p.ID, PropertyPatch{Name: ptr("")})
	assert.Contains(t, fieldErrors(t, err), "name")
}

func TestPropertyShowMissingIsNotFound(t *testing.T) {
	f := setup(t)
	svc := NewPropertyService(f.db, f.disk)

	_, err := svc.Show(context.Background(), f.owner.ID, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceImagesIgnoresForeignIDs(t *testing.T) {
	f := setup(t)
	svc := NewPropertyService(f.db, f.disk)
	ctx := context.Background()

	p, err := svc.Create(ctx, f.owner.ID, PropertyInput{Name: "Sea View"},
		[]upload.File{image(t, "a.png"), image(t, "b.png"), image(t, "c.png")})
	require.NoError(t, err)
	other, err := svc.Create(ctx, f.owner.ID, PropertyInput{Name: "Lagoon"}, []upload.File{image(t, "x.png")})
	require.NoError(t, err)

	a, foreign := p.Images[0], other.Images[0]
	diff, err := svc.ReplaceImages(ctx, f.owner.ID, p.ID,
		[]uint{a.ID, a.ID, foreign.ID}, []upload.File{image(t, "d.png")})
	require.NoError(t, err)

	assert.Equal(t, ImageDiff{Added: 1, Deleted: 1}, diff)
	assert.False(t, f.exists(t, a.Image))
	assert.True(t, f.exists(t, foreign.Image))

	got, err := svc.Show(ctx, f.owner.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 3)
	assert.Equal(t, p.Images[1].ID, got.Images[0].ID)
	assert.Equal(t, p.Images[2].ID, got.Images[1].ID)
	assert.EqualValues(t, 1, f.count(t, &models.PropertyImage{}, "property_id = ?", other.ID))
}

func TestReplaceImagesDeletesAndAdds(t *testing.T) {
	f := setup(t)
	svc := NewPropertyService(f.db, f.disk)
	ctx := context.Background()

	p, err := svc.Create(ctx, f.owner.ID, PropertyInput{Name: "Sea View"},
		[]upload.File{image(t, "a.png"), image(t, "b.png"), image(t, "c.png")})
	require.NoError(t, err)
	a, b, c := p.Images[0], p.Images[1], p.Images[2]

	diff, err := svc.ReplaceImages(ctx, f.owner.ID, p.ID, []uint{a.ID, b.ID}, []upload.File{image(t, "img1.png")})
	require.NoError(t, err)
	assert.Equal(t, ImageDiff{Added: 1, Deleted: 2}, diff)
	assert.Equal(t, "Uploaded 1 image(s) and deleted 2 image(s).", diff.Message())

	got, err := svc.Show(ctx, f.owner.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 2)
	assert.Equal(t, c.ID, got.Images[0].ID)
	assert.NotEqual(t, c.ID, got.Images[1].ID)
	assert.True(t, f.exists(t, got.Images[1].Image))
	assert.False(t, f.exists(t, a.Image))
	assert.False(t, f.exists(t, b.Image))
	assert.Len(t, f.blobs(t, PropertyImagesDir), 2)
}

func TestReplaceImagesStopsDeletingAfterFailure(t *testing.T) {
	disk := newFlakyDisk(t)
	disk.On("PutStream", mock.Anything).Return(nil)

	f := setupWith(t, disk, disk.Root())
	svc := NewPropertyService(f.db, f.disk)
	ctx := context.Background()

	p, err := svc.Create(ctx, f.owner.ID, PropertyInput{Name: "Sea View"},
		[]upload.File{image(t, "a.png"), image(t, "b.png")})
	require.NoError(t, err)
	a, b := p.Images[0], p.Images[1]

	disk.On("Delete", a.Image).Return(errors.New("denied"))
	disk.On("Delete", mock.Anything).Return(nil)

	diff, err := svc.ReplaceImages(ctx, f.owner.ID, p.ID, []uint{a.ID, b.ID}, []upload.File{image(t, "d.png")})
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "delete", se.Op)
	assert.Equal(t, ImageDiff{Added: 1, Deleted: 0}, diff)

	disk.AssertNumberOfCalls(t, "Delete", 1)
	assert.True(t, f.exists(t, a.Image))
	assert.True(t, f.exists(t, b.Image))
	assert.EqualValues(t, 3, f.count(t, &models.PropertyImage{}, "property_id = ?", p.ID))
}

func TestReplaceImagesByNonOwner(t *testing.T) {
	f := setup(t)
	svc := NewPropertyService(f.db, f.disk)
	p := testkit.CreateProperty(t, f.db, f.owner, "Sea View")

	_, err := svc.ReplaceImages(context.Background(), f.other.ID, p.ID, nil, []upload.File{image(t, "a.png")})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.blobs(t, PropertyImagesDir))
}

func TestDeleteImageChecksOwnership(t *testing.T) {
	f := setup(t)
	svc := NewPropertyService(f.db, f.disk)
	ctx := context.Background()

	p, err := svc.Create(ctx, f.owner.ID, PropertyInput{Name: "Sea View"}, []upload.File{image(t, "a.png")})
	require.NoError(t, err)
	img := p.Images[0]

	assert.ErrorIs(t, svc.DeleteImage(ctx, f.other.ID, img.ID), ErrForbidden)
	assert.True(t, f.exists(t, img.Image))

	require.NoError(t, svc.DeleteImage(ctx, f.owner.ID, img.ID))
	assert.False(t, f.exists(t, img.Image))
	assert.ErrorIs(t, svc.DeleteImage(ctx, f.owner.ID, img.ID), ErrNotFound)
}

func TestPropertyDeleteKeepsBlobsWhenRowsSurvive(t *testing.T) {
	f := setup(t)
	svc := NewPropertyService(f.db, f.disk)
	ctx := context.Background()

	p, err := svc.Create(ctx, f.owner.ID, PropertyInput{Name: "Sea View"}, []upload.File{image(t, "a.png")})
	require.NoError(t, err)

	require.NoError(t, f.db.Callback().Delete().Before("gorm:delete").Register("test:fail_property_delete", func(db *gorm.DB) {
		if db.Statement.Table == "properties" {
			_ = db.AddError(errors.New("locked"))
		}
	}))

	require.Error(t, svc.Delete(ctx, f.owner.ID, p.ID))
	assert.EqualValues(t, 1, f.count(t, &models.Property{}, "id = ?", p.ID))
	assert.EqualValues(t, 1, f.count(t, &models.PropertyImage{}, "property_id = ?", p.ID))
	assert.True(t, f.exists(t, p.Images[0].Image))
	assert.Zero(t, f.purges.Len())
}

func TestPropertyDeleteCascadesDespiteBlobFailure(t *testing.T) {
	disk := newFlakyDisk(t)
	disk.On("PutStream", mock.Anything).Return(nil)
	disk.On("Delete", inDir(MenuImagesDir)).Return(errors.New("access denied"))
	disk.On("Delete", mock.Anything).Return(nil)

	f := setupWith(t, disk, disk.Root())
	ctx := context.Background()
	cats := testkit.SeedCategories(t, f.db, "Dessert", "Soup")

	properties := NewPropertyService(f.db, f.disk)
	menu := NewMenuItemService(f.db, f.disk)
	guests := NewGuestRecordService(f.db, f.disk)

	p, err := properties.Create(ctx, f.owner.ID, PropertyInput{Name: "Sea View"},
		[]upload.File{image(t, "a.png"), image(t, "b.png")})
	require.NoError(t, err)
	keep, err := properties.Create(ctx, f.owner.ID, PropertyInput{Name: "Lagoon"}, nil)
	require.NoError(t, err)

	menuImg := image(t, "cake.png")
	item, err := menu.Create(ctx, f.owner.ID, MenuItemInput{PropertyID: p.ID, Name: "Cake", CategoryIDs: []uint{cats[0].ID, cats[1].ID}, Image: &menuImg})
	require.NoError(t, err)
	kept, err := menu.Create(ctx, f.owner.ID, MenuItemInput{PropertyID: keep.ID, Name: "Soup", CategoryIDs: []uint{cats[1].ID}})
	require.NoError(t, err)

	guestImg := image(t, "guest.png")
	guest, err := guests.Create(ctx, f.owner.ID, GuestInput{PropertyID: p.ID, GuestName: "Ana", AreaName: "Suite", Image: &guestImg})
	require.NoError(t, err)

	assert.ErrorIs(t, properties.Delete(ctx, f.other.ID, p.ID), ErrForbidden)
	require.NoError(t, properties.Delete(ctx, f.owner.ID, p.ID))

	assert.EqualValues(t, 0, f.count(t, &models.Property{}, "id = ?", p.ID))
	assert.EqualValues(t, 0, f.count(t, &models.PropertyImage{}, "property_id = ?", p.ID))
	assert.EqualValues(t, 0, f.count(t, &models.MenuItem{}, "property_id = ?", p.ID))
	assert.EqualValues(t, 0, f.count(t, &models.MenuItemCategory{}, "restaurant_menu_item_id = ?", item.ID))
	assert.EqualValues(t, 0, f.count(t, &models.GuestRecord{}, "property_id = ?", p.ID))

	for _, img := range p.Images {
		assert.False(t, f.exists(t, img.Image))
	}
	assert.False(t, f.exists(t, *guest.Image))
	assert.True(t, f.exists(t, *item.Image), "a failed blob delete leaves the blob behind")
	assert.Equal(t, 1, f.purges.Len(), "the failed delete is queued for retry")

	assert.EqualValues(t, 1, f.count(t, &models.MenuItem{}, "id = ?", kept.ID))
	assert.EqualValues(t, 1, f.count(t, &models.MenuItemCategory{}, "restaurant_menu_item_id = ?", kept.ID))
}
