package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotsight/internal/crosshair"
	"dotsight/internal/profile"
	"dotsight/internal/storage"
)

func TestListProfiles(t *testing.T) {
	store := profile.NewMemoryStore(zerolog.Nop())
	require.NoError(t, store.Save(crosshair.DefaultSettings("P1")))
	require.NoError(t, store.SetLastUsed("P1"))

	var buf bytes.Buffer
	require.NoError(t, listProfiles(&buf, store))
	assert.Equal(t, "  Default\n* P1\n", buf.String())
}

func TestDeleteProfile(t *testing.T) {
	store := profile.NewMemoryStore(zerolog.Nop())
	require.NoError(t, store.Save(crosshair.DefaultSettings("P1")))

	var buf bytes.Buffer
	assert.Error(t, deleteProfile(&buf, store, crosshair.DefaultProfileName))
	assert.ErrorIs(t, deleteProfile(&buf, store, "nope"), profile.ErrNotFound)
	require.NoError(t, deleteProfile(&buf, store, "P1"))
	assert.Contains(t, buf.String(), "deleted profile P1")
}

func TestRenderProfile(t *testing.T) {
	store := profile.NewMemoryStore(zerolog.Nop())
	st := crosshair.DefaultSettings("Custom")
	st.CrosshairType = crosshair.TypeCustom
	st.CustomData = &crosshair.Profile{Name: "Custom", Elements: []crosshair.Element{
		{Kind: crosshair.ShapeRectangle, X1: -5, Y1: -5, Width: 10, Height: 10, Thickness: 1, Color: crosshair.Green, Filled: true},
	}}
	require.NoError(t, store.Save(st))

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, renderToFile(path, store, "Custom", 64, 64))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	_, g, _, a := img.At(32, 32).RGBA()
	assert.NotZero(t, a)
	assert.NotZero(t, g)
}

func TestRenderMissingProfileUsesDefaults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderProfile(&buf, profile.NewMemoryStore(zerolog.Nop()), "ghost", 32, 32))
	assert.NotZero(t, buf.Len())
}

func TestExportProfile(t *testing.T) {
	dir := t.TempDir()
	path, err := exportProfile(storage.NewStorage(dir), profile.NewMemoryStore(zerolog.Nop()), "Default", 32, 32)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.FileExists(t, path)
}

func TestCreateProfileCopiesLastUsed(t *testing.T) {
	store := profile.NewMemoryStore(zerolog.Nop())
	st := crosshair.DefaultSettings("P1")
	st.CrosshairSize = 33
	require.NoError(t, store.Save(st))
	require.NoError(t, store.SetLastUsed("P1"))

	var buf bytes.Buffer
	require.NoError(t, createProfile(&buf, store, "P2", zerolog.Nop()))
	assert.Equal(t, "created profile P2\n", buf.String())

	got, err := store.Load("P2")
	require.NoError(t, err)
	assert.Equal(t, 33.0, got.CrosshairSize)
	last, _ := store.LastUsed()
	assert.Equal(t, "P2", last)

	assert.ErrorIs(t, createProfile(&buf, store, "P2", zerolog.Nop()), profile.ErrDuplicate)
	assert.Error(t, createProfile(&buf, store, " ", zerolog.Nop()))
}

func TestSetProfile(t *testing.T) {
	store := profile.NewMemoryStore(zerolog.Nop())
	require.NoError(t, store.Save(crosshair.DefaultSettings("P1")))

	var buf bytes.Buffer
	require.NoError(t, setProfile(&buf, store, "P1", "color=blue,size=30,type=Cross,thickness=3,target=Game", zerolog.Nop()))
	assert.Contains(t, buf.String(), "updated profile P1")

	got, err := store.Load("P1")
	require.NoError(t, err)
	assert.Equal(t, crosshair.Blue, got.SelectedColor)
	assert.Equal(t, 30.0, got.CrosshairSize)
	assert.Equal(t, 3.0, got.CrosshairThickness)
	assert.Equal(t, crosshair.TypeCross, got.CrosshairType)
	assert.Equal(t, "Game", got.SelectedGameWindow)

	// 不指定配置档时修改 Default（上次使用）
	require.NoError(t, setProfile(&buf, store, "", "type=dot", zerolog.Nop()))
	def, err := store.Load(crosshair.DefaultProfileName)
	require.NoError(t, err)
	assert.Equal(t, crosshair.TypeDot, def.CrosshairType)

	// 任何一项无效时不保存
	assert.Error(t, setProfile(&buf, store, "P1", "size=40,color=Orange", zerolog.Nop()))
	got, _ = store.Load("P1")
	assert.Equal(t, 30.0, got.CrosshairSize)
	assert.Error(t, setProfile(&buf, store, "P1", "nonsense", zerolog.Nop()))
}
