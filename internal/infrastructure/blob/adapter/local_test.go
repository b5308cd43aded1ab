package adapter

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	saved, err := store.Save(ctx, strings.NewReader("payload"), "photo.PNG", "image/png")
	require.NoError(t, err)
	require.Equal(t, "photo.PNG", saved.Name)
	require.Equal(t, int64(7), saved.Size)
	require.True(t, strings.HasPrefix(saved.URL, "/uploads/images/"))
	require.True(t, strings.HasSuffix(saved.URL, ".png"))

	rc, err := store.Open(ctx, saved.URL)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))

	require.NoError(t, store.Delete(ctx, saved.URL))
	_, err = store.Open(ctx, saved.URL)
	require.Error(t, err)

	// deleting a missing blob stays a success
	require.NoError(t, store.Delete(ctx, saved.URL))
}

func TestLocalStoreSubdirByContentType(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	cases := map[string]string{
		"audio/mpeg":      "/uploads/audio/",
		"video/mp4":       "/uploads/videos/",
		"application/pdf": "/uploads/files/",
	}
	for contentType, prefix := range cases {
		saved, err := store.Save(ctx, strings.NewReader("x"), "f.bin", contentType)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(saved.URL, prefix), "content type %s should land under %s, got %s", contentType, prefix, saved.URL)
	}
}

func TestLocalStoreRejectsForeignURLs(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Open(ctx, "/elsewhere/file.png")
	require.Error(t, err)
	require.Error(t, store.Delete(ctx, "/uploads/../../etc/passwd"))
}
