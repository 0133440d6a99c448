package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/app/repositories"
	"github.com/staydesk/staydesk/pkg/testkit"
)

func day(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)
	return &d
}

func TestGuestCreateValidatesStay(t *testing.T) {
	f := setup(t)
	svc := NewGuestRecordService(f.db, f.disk)
	p := testkit.CreateProperty(t, f.db, f.owner, "Harbour")

	_, err := svc.Create(context.Background(), f.owner.ID, GuestInput{
		PropertyID:   p.ID,
		GuestName:    "Ana",
		AreaName:     "Suite",
		CheckInDate:  day(t, "2025-03-10"),
		CheckOutDate: day(t, "2025-03-09"),
	})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "check_out_date")

	_, err = svc.Create(context.Background(), f.owner.ID, GuestInput{PropertyID: p.ID})
	fields = fieldErrors(t, err)
	assert.Contains(t, fields, "guest_name")
	assert.Contains(t, fields, "area_name")
}

func TestGuestCreateDefaultsStatus(t *testing.T) {
	f := setup(t)
	svc := NewGuestRecordService(f.db, f.disk)
	p := testkit.CreateProperty(t, f.db, f.owner, "Harbour")

	img := image(t, "ana.png")
	g, err := svc.Create(context.Background(), f.owner.ID, GuestInput{
		PropertyID:   p.ID,
		GuestName:    "Ana",
		AreaName:     "Suite",
		RoomNumber:   ptr("101"),
		CheckInDate:  day(t, "2025-03-10"),
		CheckOutDate: day(t, "2025-03-10"),
		Image:        &img,
	})
	require.NoError(t, err)
	assert.Equal(t, models.GuestCheckedIn, g.Status)
	require.NotNil(t, g.Image)
	assert.Regexp(t, `^tv-managers/`, *g.Image)
	assert.True(t, f.exists(t, *g.Image))
}

func TestGuestUpdate(t *testing.T) {
	f := setup(t)
	svc := NewGuestRecordService(f.db, f.disk)
	ctx := context.Background()
	p := testkit.CreateProperty(t, f.db, f.owner, "Harbour")

	g, err := svc.Create(ctx, f.owner.ID, GuestInput{PropertyID: p.ID, GuestName: "Ana", AreaName: "Suite", RoomNumber: ptr("101")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, f.other.ID, g.ID, GuestPatch{GuestName: ptr("Eve")})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Update(ctx, f.owner.ID, g.ID, GuestPatch{
		Status:      ptr(models.GuestCheckedOut),
		RoomNumber:  Null[string](),
		CheckInDate: Value(*day(t, "2025-04-01")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.GuestName)
	assert.Equal(t, models.GuestCheckedOut, got.Status)
	assert.Nil(t, got.RoomNumber)
	assert.Equal(t, "2025-04-01", got.CheckInDate.Format(time.DateOnly))

	_, err = svc.Update(ctx, f.owner.ID, g.ID, GuestPatch{Status: ptr(models.GuestStatus("asleep"))})
	assert.Contains(t, fieldErrors(t, err), "status")
}

func TestGuestReplaceImageAndDelete(t *testing.T) {
	f := setup(t)
	svc := NewGuestRecordService(f.db, f.disk)
	ctx := context.Background()
	p := testkit.CreateProperty(t, f.db, f.owner, "Harbour")

	g, err := svc.Create(ctx, f.owner.ID, GuestInput{PropertyID: p.ID, GuestName: "Ana", AreaName: "Suite"})
	require.NoError(t, err)
	assert.Nil(t, g.Image)

	_, err = svc.ReplaceImage(ctx, f.other.ID, g.ID, image(t, "eve.png"))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.blobs(t, GuestImagesDir))

	g, err = svc.ReplaceImage(ctx, f.owner.ID, g.ID, image(t, "ana.png"))
	require.NoError(t, err)
	require.NotNil(t, g.Image)
	photo := *g.Image

	propertyID, err := svc.Delete(ctx, f.owner.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, propertyID)
	assert.False(t, f.exists(t, photo))

	_, err = svc.Find(ctx, f.owner.ID, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGuestIndex(t *testing.T) {
	f := setup(t)
	svc := NewGuestRecordService(f.db, f.disk)
	ctx := context.Background()
	p := testkit.CreateProperty(t, f.db, f.owner, "Harbour")

	for _, name := range []string{"Ana", "Bruno", "Carla"} {
		_, err := svc.Create(ctx, f.owner.ID, GuestInput{PropertyID: p.ID, GuestName: name, AreaName: "Garden"})
		require.NoError(t, err)
	}

	idx, err := svc.Index(ctx, f.owner.ID, repositories.GuestFilter{PropertyID: p.ID, Search: "br"})
	require.NoError(t, err)
	require.NotNil(t, idx.Selected)
	require.Len(t, idx.Guests, 1)
	assert.Equal(t, "Bruno", idx.Guests[0].GuestName)

	idx, err = svc.Index(ctx, f.other.ID, repositories.GuestFilter{PropertyID: p.ID})
	require.NoError(t, err)
	assert.Nil(t, idx.Selected)
	assert.Empty(t, idx.Guests)
}

func TestGuestMoveHidesUnknownProperty(t *testing.T) {
	f := setup(t)
	svc := NewGuestRecordService(f.db, f.disk)
	ctx := context.Background()
	p := testkit.CreateProperty(t, f.db, f.owner, "Harbour")
	foreign := testkit.CreateProperty(t, f.db, f.other, "Elsewhere")

	_, err := svc.Create(ctx, f.owner.ID, GuestInput{PropertyID: 999, GuestName: "Ana", AreaName: "Suite"})
	assert.ErrorIs(t, err, ErrNotFound)

	g, err := svc.Create(ctx, f.owner.ID, GuestInput{PropertyID: p.ID, GuestName: "Ana", AreaName: "Suite"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, f.owner.ID, g.ID, GuestPatch{PropertyID: ptr(uint(999))})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, f.owner.ID, g.ID, GuestPatch{PropertyID: ptr(foreign.ID)})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Find(ctx, f.owner.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.PropertyID)
}
