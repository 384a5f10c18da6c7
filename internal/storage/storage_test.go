package storage

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveNamesByProfileAndTime(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	s := NewStorage(dir)
	s.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(1, 1, color.RGBA{R: 255, A: 255})

	first, err := s.Save(img, "My Profile")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "My_Profile_20260304_050607.png"), first)

	second, err := s.Save(img, "My Profile")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "My_Profile_20260304_050607_2.png"), second)

	f, err := os.Open(first)
	require.NoError(t, err)
	defer f.Close()
	back, err := png.Decode(f)
	require.NoError(t, err)
	r, _, _, _ := back.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "crosshair", sanitize("  "))
	assert.Equal(t, "a_b_c", sanitize("a/b:c"))
}
