package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewImageName(t *testing.T) {
	a := NewImageName(".JPG")
	b := NewImageName(".JPG")
	require.NotEqual(t, a, b)
	require.True(t, strings.HasSuffix(a, ".jpg"))
	require.Len(t, a, 36+4)
	require.True(t, strings.HasSuffix(NewImageName(".webp"), ".webp"))

	for _, bad := range []string{"", "png", "photo.html", "../x", `.a\b`, ".a/b", ".tar.gz"} {
		require.Len(t, NewImageName(bad), 36, bad)
	}
}

func TestLocalImageStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	s, err := NewLocalImageStore(dir)
	require.NoError(t, err)
	require.Equal(t, dir, s.Dir())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a.png", strings.NewReader("png-bytes")))
	data, err := os.ReadFile(filepath.Join(dir, "a.png"))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file must not be left behind")

	require.NoError(t, s.Remove(ctx, "a.png"))
	_, err = os.Stat(filepath.Join(dir, "a.png"))
	require.True(t, os.IsNotExist(err))
	require.NoError(t, s.Remove(ctx, "a.png"))

	for _, bad := range []string{"", "..", "../x.png", "sub/x.png"} {
		require.ErrorIs(t, s.Save(ctx, bad, strings.NewReader("x")), ErrInvalidName, bad)
		require.ErrorIs(t, s.Remove(ctx, bad), ErrInvalidName, bad)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	require.Error(t, s.Save(cancelled, "b.png", strings.NewReader("x")))
}
