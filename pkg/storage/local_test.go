package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDiskRoundTrip(t *testing.T) {
	d := NewLocalDisk(t.TempDir(), "http://localhost/storage/")
	ctx := context.Background()

	key := HashName("/property-images/", ".png")
	require.True(t, strings.HasPrefix(key, "property-images/"))
	require.True(t, strings.HasSuffix(key, ".png"))

	require.NoError(t, d.PutStream(ctx, key, strings.NewReader("pixels")))
	got, err := d.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(got))

	ok, err := d.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://localhost/storage/"+key, d.URL(key))

	require.NoError(t, d.Delete(ctx, key))
	require.NoError(t, d.Delete(ctx, key), "deleting a missing blob is not an error")
	ok, err = d.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalDiskRejectsEscapes(t *testing.T) {
	d := NewLocalDisk(t.TempDir(), "")

	err := d.Put(context.Background(), "../outside.png", []byte("x"))
	assert.ErrorContains(t, err, "escapes root")
}

func TestHashNameIsUnique(t *testing.T) {
	a, b := HashName("tv-managers", "jpg"), HashName("tv-managers", "jpg")
	assert.NotEqual(t, a, b)
	assert.Equal(t, "tv-managers/", a[:len("tv-managers/")])
}

func TestUseUnknownDisk(t *testing.T) {
	_, err := Use("nope")
	assert.Error(t, err)
}
