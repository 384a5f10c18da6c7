package profile

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotsight/internal/crosshair"
)

type factory func(t *testing.T) Store

func backends() map[string]factory {
	return map[string]factory{
		"json": func(t *testing.T) Store {
			s, err := NewFileStore(t.TempDir(), "json", zerolog.Nop())
			require.NoError(t, err)
			return s
		},
		"yaml": func(t *testing.T) Store {
			s, err := NewFileStore(t.TempDir(), "yaml", zerolog.Nop())
			require.NoError(t, err)
			return s
		},
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLStore(filepath.Join(t.TempDir(), "profiles.db"), zerolog.Nop())
			require.NoError(t, err)
			return s
		},
		"memory": func(t *testing.T) Store {
			return NewMemoryStore(zerolog.Nop())
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	forEachBackendExcept(t, nil, fn)
}

func forEachBackendExcept(t *testing.T, skip map[string]bool, fn func(t *testing.T, s Store)) {
	for name, open := range backends() {
		if skip[name] {
			continue
		}
		t.Run(name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { s.Close() })
			fn(t, s)
		})
	}
}

func customSettings(name string) crosshair.Settings {
	st := crosshair.DefaultSettings(name)
	st.CrosshairType = crosshair.TypeCustom
	st.CustomData = &crosshair.Profile{Name: name, Elements: []crosshair.Element{
		{Kind: crosshair.ShapeLine, X1: 0, Y1: 0, X2: 10, Y2: 0, Thickness: 2, Color: crosshair.Red},
		{Kind: crosshair.ShapeCircle, X1: -3.5, Y1: -3.5, Width: 7, Height: 7, Thickness: 1, Color: crosshair.Cyan, Filled: true},
	}}
	return st
}

func TestSaveLoadRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		want := customSettings("P1")
		require.NoError(t, s.Save(want))

		got, err := s.Load("P1")
		require.NoError(t, err)
		assert.Equal(t, want, got)

		names, err := s.List()
		require.NoError(t, err)
		assert.Contains(t, names, "P1")
	})
}

func TestListDefaultFirst(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		for _, n := range []string{"zeta", "Alpha", "mid"} {
			require.NoError(t, s.Save(crosshair.DefaultSettings(n)))
		}
		require.NoError(t, s.Save(crosshair.DefaultSettings(crosshair.DefaultProfileName)))

		names, err := s.List()
		require.NoError(t, err)
		assert.Equal(t, []string{"Default", "Alpha", "mid", "zeta"}, names)
	})
}

func TestLoadMissing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		_, err := s.Load("ghost")
		assert.ErrorIs(t, err, ErrNotFound)

		st, err := LoadOrDefault(s, "ghost")
		require.NoError(t, err)
		assert.Equal(t, crosshair.DefaultSettings("ghost"), st)
	})
}

func TestDeleteDefaultIsRefused(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		require.NoError(t, s.Save(crosshair.DefaultSettings(crosshair.DefaultProfileName)))

		ok, err := s.Delete(crosshair.DefaultProfileName)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrProtected)

		_, err = s.Load(crosshair.DefaultProfileName)
		assert.NoError(t, err)
	})
}

func TestLastUsedTracking(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		last, err := s.LastUsed()
		require.NoError(t, err)
		assert.Equal(t, crosshair.DefaultProfileName, last)

		require.NoError(t, s.Save(crosshair.DefaultSettings("P2")))
		_, err = s.Load("P2")
		require.NoError(t, err)

		last, err = s.LastUsed()
		require.NoError(t, err)
		assert.Equal(t, "P2", last)

		ok, err := s.Delete("P2")
		require.NoError(t, err)
		assert.True(t, ok)

		last, err = s.LastUsed()
		require.NoError(t, err)
		assert.Equal(t, crosshair.DefaultProfileName, last)

		ok, err = s.Delete("P2")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestNamesAreCaseSensitive(t *testing.T) {
	// 文件后端的大小写取决于文件系统
	var skip map[string]bool
	if runtime.GOOS != "linux" {
		skip = map[string]bool{"json": true, "yaml": true}
	}
	forEachBackendExcept(t, skip, func(t *testing.T, s Store) {
		a := crosshair.DefaultSettings("Pro")
		b := crosshair.DefaultSettings("pro")
		b.SelectedColor = crosshair.Green
		require.NoError(t, s.Save(a))
		require.NoError(t, s.Save(b))

		got, err := s.Load("Pro")
		require.NoError(t, err)
		assert.Equal(t, crosshair.Red, got.SelectedColor)
	})
}

func TestSaveOverwrites(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		st := crosshair.DefaultSettings("P")
		require.NoError(t, s.Save(st))
		st.CrosshairSize = 55
		require.NoError(t, s.Save(st))

		got, err := s.Load("P")
		require.NoError(t, err)
		assert.Equal(t, 55.0, got.CrosshairSize)
	})
}

func TestCreateProfile(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Store) {
		require.NoError(t, CreateProfile(s, crosshair.DefaultSettings("New")))
		assert.ErrorIs(t, CreateProfile(s, crosshair.DefaultSettings("New")), ErrDuplicate)
		assert.ErrorIs(t, CreateProfile(s, crosshair.DefaultSettings(crosshair.DefaultProfileName)), ErrDuplicate)

		var verr *crosshair.ValidationError
		assert.True(t, errors.As(CreateProfile(s, crosshair.Settings{Name: " padded"}), &verr))
	})
}

func TestValidateName(t *testing.T) {
	for _, bad := range []string{"", " a", "a ", "a/b", `a\b`, "..", "a:b", "tab\tname"} {
		assert.Error(t, ValidateName(bad), bad)
	}
	for _, good := range []string{"Default", "P1", "my profile", "Überzielfernrohr"} {
		assert.NoError(t, ValidateName(good), good)
	}
}

func TestFileLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, "json", zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, s.Save(crosshair.DefaultSettings(crosshair.DefaultProfileName)))
	require.NoError(t, s.Save(crosshair.DefaultSettings("P1")))
	require.NoError(t, s.SetLastUsed("P1"))

	assert.FileExists(t, filepath.Join(dir, "settings.json"))
	assert.FileExists(t, filepath.Join(dir, "profiles", "P1.json"))
	assert.FileExists(t, filepath.Join(dir, "config.json"))

	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"lastUsedProfile":"P1"}`, string(data))
}

func TestFailedSaveKeepsOldContent(t *testing.T) {
	dir := t.TempDir()
	b, err := newFileBackend(dir, "json")
	require.NoError(t, err)
	s := newStore(b, zerolog.Nop())

	orig := customSettings("P1")
	require.NoError(t, s.Save(orig))

	b.syncFile = func(*os.File) error { return errors.New("disk full") }
	changed := orig
	changed.CrosshairSize = 99
	err = s.Save(changed)

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "save", perr.Op)

	b.syncFile = (*os.File).Sync

	got, err := s.Load("P1")
	require.NoError(t, err)
	assert.Equal(t, orig, got)

	entries, err := os.ReadDir(filepath.Join(dir, "profiles"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestYAMLAndJSONAgree(t *testing.T) {
	want := customSettings("P1")

	var got []crosshair.Settings
	for _, format := range []string{"json", "yaml"} {
		s, err := NewFileStore(t.TempDir(), format, zerolog.Nop())
		require.NoError(t, err)
		require.NoError(t, s.Save(want))
		st, err := s.Load("P1")
		require.NoError(t, err)
		got = append(got, st)
	}
	assert.Equal(t, got[0], got[1])
	assert.Equal(t, want, got[1])
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []string{BackendFile, BackendSQLite, BackendMemory} {
		s, err := Open(Options{Backend: backend, Dir: dir, Format: "json"}, zerolog.Nop())
		require.NoError(t, err, backend)
		require.NoError(t, s.Close())
	}
	assert.FileExists(t, filepath.Join(dir, DatabaseFile))

	_, err := Open(Options{Backend: "redis", Dir: dir}, zerolog.Nop())
	assert.Error(t, err)
}
