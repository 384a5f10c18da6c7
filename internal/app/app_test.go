package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotsight/internal/clipboard"
	"dotsight/internal/crosshair"
	"dotsight/internal/geometry"
	"dotsight/internal/overlay"
	"dotsight/internal/profile"
	"dotsight/internal/storage"
	"dotsight/internal/target"
)

type fakeSurface struct {
	frames []overlay.Frame
	closed bool
}

func (s *fakeSurface) Present(f overlay.Frame) error {
	s.frames = append(s.frames, f)
	return nil
}

func (s *fakeSurface) Close() error {
	s.closed = true
	return nil
}

func (s *fakeSurface) last() overlay.Frame {
	return s.frames[len(s.frames)-1]
}

type fakeNotifier struct {
	titles []string
}

func (n *fakeNotifier) Show(title, message string) error {
	n.titles = append(n.titles, title)
	return nil
}

type fixture struct {
	app      *App
	store    profile.Store
	surface  *fakeSurface
	notifier *fakeNotifier
	windows  map[string]geometry.Rect
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    profile.NewMemoryStore(zerolog.Nop()),
		surface:  &fakeSurface{},
		notifier: &fakeNotifier{},
		windows:  map[string]geometry.Rect{},
	}
	provider := target.ProviderFunc(func(sel target.Selector) (geometry.Rect, bool) {
		if sel.CenterOnScreen {
			return geometry.Rect{Width: 1920, Height: 1080}, true
		}
		r, ok := f.windows[sel.Title]
		return r, ok
	})
	f.app = New(Options{
		Store:    f.store,
		Renderer: overlay.NewRenderer(200, 200),
		Provider: provider,
		Surface:  f.surface,
		Notifier: f.notifier,
		Log:      zerolog.Nop(),
	})
	return f
}

func TestTickCentresOnScreen(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.Startup())

	f.app.Tick()
	fr := f.surface.last()
	assert.True(t, fr.Visible)
	assert.Equal(t, 860, fr.X)
	assert.Equal(t, 440, fr.Y)
	require.NotNil(t, fr.Image)
	assert.Equal(t, 200, fr.Image.Bounds().Dx())
}

func TestTickFollowsWindow(t *testing.T) {
	f := newFixture(t)
	f.windows["Game"] = geometry.Rect{X: 100, Y: 50, Width: 800, Height: 600}
	f.app.SetTarget("Game")

	f.app.Tick()
	fr := f.surface.last()
	assert.True(t, fr.Visible)
	assert.Equal(t, 400, fr.X)
	assert.Equal(t, 250, fr.Y)
}

func TestTickHidesWhenTargetMissing(t *testing.T) {
	f := newFixture(t)
	f.app.SetTarget("Closed game")

	f.app.Tick()
	assert.False(t, f.surface.last().Visible)
	assert.Nil(t, f.surface.last().Image)
}

func TestTickHidesWhenDisabled(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.app.Toggle())

	f.app.Tick()
	assert.False(t, f.surface.last().Visible)

	f.app.SetEnabled(true)
	f.app.Tick()
	assert.True(t, f.surface.last().Visible)
}

func TestFrameImageCachedUntilChange(t *testing.T) {
	f := newFixture(t)
	first := f.app.Frame().Image
	assert.Same(t, first, f.app.Frame().Image)

	require.NoError(t, f.app.SetColor(crosshair.Blue))
	second := f.app.Frame().Image
	assert.NotSame(t, first, second)
	assert.Equal(t, crosshair.Blue, f.app.Settings().SelectedColor)
}

func TestSettersRejectOutOfRange(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.app.SetSize(0))
	assert.Error(t, f.app.SetThickness(21))
	assert.Error(t, f.app.SetType(crosshair.TypeCustom, nil))

	s := f.app.Settings()
	assert.Equal(t, 20.0, s.CrosshairSize)
	assert.Equal(t, 2.0, s.CrosshairThickness)
	assert.Equal(t, crosshair.TypeClassic, s.CrosshairType)
}

func TestSetTypeCustomKeepsCopy(t *testing.T) {
	f := newFixture(t)
	custom := &crosshair.Profile{Name: "mine", Elements: []crosshair.Element{
		{Kind: crosshair.ShapeLine, X1: 0, Y1: 0, X2: 10, Y2: 0, Thickness: 2, Color: crosshair.Red},
	}}
	require.NoError(t, f.app.SetType(crosshair.TypeCustom, custom))

	custom.Elements[0].X2 = 99
	s := f.app.Settings()
	require.NotNil(t, s.CustomData)
	assert.Equal(t, 10.0, s.CustomData.Elements[0].X2)
}

func TestStartupFallsBackToDefault(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.SetLastUsed("Gone"))

	require.NoError(t, f.app.Startup())
	assert.Equal(t, crosshair.DefaultProfileName, f.app.Settings().Name)

	last, err := f.store.LastUsed()
	require.NoError(t, err)
	assert.Equal(t, crosshair.DefaultProfileName, last)
}

func TestStartupLoadsLastUsed(t *testing.T) {
	f := newFixture(t)
	st := crosshair.DefaultSettings("P1")
	st.CrosshairSize = 40
	require.NoError(t, f.store.Save(st))
	require.NoError(t, f.store.SetLastUsed("P1"))

	require.NoError(t, f.app.Startup())
	assert.Equal(t, "P1", f.app.Settings().Name)
	assert.Equal(t, 40.0, f.app.Renderer().State().Size)
}

func TestCreateSaveReloadProfile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.SetSize(60))
	require.NoError(t, f.app.CreateProfile("Sniper"))
	assert.Equal(t, "Sniper", f.app.Settings().Name)
	assert.Contains(t, f.app.Profiles(), "Sniper")

	require.NoError(t, f.app.SetSize(10))
	require.NoError(t, f.app.ReloadProfile())
	assert.Equal(t, 60.0, f.app.Settings().CrosshairSize)

	require.NoError(t, f.app.SetSize(30))
	require.NoError(t, f.app.SaveProfile())
	st, err := f.store.Load("Sniper")
	require.NoError(t, err)
	assert.Equal(t, 30.0, st.CrosshairSize)
}

func TestCreateProfileRejectsDuplicateAndEmpty(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.app.CreateProfile(crosshair.DefaultProfileName), profile.ErrDuplicate)
	assert.Error(t, f.app.CreateProfile(""))
	assert.Equal(t, []string{"Profile exists", "Invalid name"}, f.notifier.titles)
	assert.Equal(t, crosshair.DefaultProfileName, f.app.Settings().Name)
}

func TestDeleteProfile(t *testing.T) {
	f := newFixture(t)
	ok, err := f.app.DeleteProfile(crosshair.DefaultProfileName)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Delete refused", f.notifier.titles[0])

	require.NoError(t, f.app.CreateProfile("P1"))
	ok, err = f.app.DeleteProfile("P1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, crosshair.DefaultProfileName, f.app.Settings().Name)
	assert.NotContains(t, f.app.Profiles(), "P1")

	ok, err = f.app.DeleteProfile("never existed")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRunProcessesActionsAndCloses(t *testing.T) {
	f := newFixture(t)
	f.app.tick = time.Hour
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- f.app.Run(ctx) }()

	applied := make(chan struct{})
	f.app.Do(func() {
		f.app.SetEnabled(false)
		close(applied)
	})
	<-applied
	cancel()
	require.NoError(t, <-errc)

	assert.True(t, f.surface.closed)
	assert.False(t, f.surface.last().Visible)
	assert.False(t, f.app.Settings().CrosshairEnabled)

	// Run 退出后 Do 不阻塞
	f.app.Do(func() {})
}

func TestExportImage(t *testing.T) {
	f := newFixture(t)
	_, err := f.app.ExportImage()
	assert.ErrorIs(t, err, ErrNoExportDir)

	clip := &clipboard.Memory{}
	f.app.exports = storage.NewStorage(t.TempDir())
	f.app.clip = clip

	path, err := f.app.ExportImage()
	require.NoError(t, err)
	assert.FileExists(t, path)
	copied, _ := clip.GetText()
	assert.Equal(t, path, copied)
	assert.Equal(t, "Crosshair exported", f.notifier.titles[len(f.notifier.titles)-1])
}

func TestApplySettingsNamesUnnamedCustomData(t *testing.T) {
	f := newFixture(t)
	st := crosshair.DefaultSettings("P1")
	st.SelectedColor = crosshair.Blue
	st.CrosshairSize = 50
	st.CrosshairType = crosshair.TypeCustom
	st.CustomData = &crosshair.Profile{Elements: []crosshair.Element{
		{Kind: crosshair.ShapeLine, X2: 10, Thickness: 2, Color: crosshair.Red},
	}}
	require.NoError(t, f.app.ApplySettings(st))

	rs := f.app.Renderer().State()
	assert.Equal(t, crosshair.TypeCustom, rs.Type)
	require.NotNil(t, rs.Custom)
	assert.Equal(t, crosshair.CustomProfileName, rs.Custom.Name)
	assert.Equal(t, rs.Type, f.app.Settings().CrosshairType)
	assert.Equal(t, rs.Size, f.app.Settings().CrosshairSize)
}

func TestApplySettingsRejectedLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.Startup())
	before := f.app.Renderer().State()
	img := f.app.Frame().Image

	st := crosshair.DefaultSettings("P2")
	st.SelectedColor = crosshair.Green
	st.CrosshairSize = 60
	st.CrosshairType = crosshair.TypeCustom
	st.CustomData = &crosshair.Profile{Name: "P2", Elements: []crosshair.Element{
		{Kind: crosshair.ShapeLine, X2: 10, Thickness: 2, Color: crosshair.Red},
	}}
	// 绕过 Validate，直接让渲染器拒绝
	require.Error(t, f.app.renderer.ApplySettings(st.SelectedColor, st.CrosshairThickness, st.CrosshairSize, st.CrosshairType, &crosshair.Profile{}))

	assert.Equal(t, before, f.app.Renderer().State())
	assert.Equal(t, crosshair.DefaultProfileName, f.app.Settings().Name)
	assert.Same(t, img, f.app.Frame().Image)
}

func TestParseAssignments(t *testing.T) {
	list, err := ParseAssignments(" Color=blue, size=30 ,target=Game Window")
	require.NoError(t, err)
	assert.Equal(t, []Assignment{
		{Key: "color", Value: "blue"},
		{Key: "size", Value: "30"},
		{Key: "target", Value: "Game Window"},
	}, list)

	for _, bad := range []string{"", " , ", "size", "=3"} {
		_, err := ParseAssignments(bad)
		assert.Error(t, err, bad)
	}
}

func TestAdjust(t *testing.T) {
	f := newFixture(t)
	list, err := ParseAssignments("color=cyan,size=45,thickness=4,type=cross,target=Game,enabled=false")
	require.NoError(t, err)
	require.NoError(t, f.app.AdjustAll(list))

	s := f.app.Settings()
	assert.Equal(t, crosshair.Cyan, s.SelectedColor)
	assert.Equal(t, 45.0, s.CrosshairSize)
	assert.Equal(t, 4.0, s.CrosshairThickness)
	assert.Equal(t, crosshair.TypeCross, s.CrosshairType)
	assert.Equal(t, "Game", s.SelectedGameWindow)
	assert.False(t, s.CrosshairEnabled)
	assert.Equal(t, f.app.Renderer().State().Size, 45.0)

	var verr *crosshair.ValidationError
	assert.ErrorAs(t, f.app.Adjust("size", "big"), &verr)
	assert.ErrorAs(t, f.app.Adjust("color", "Orange"), &verr)
	assert.ErrorAs(t, f.app.Adjust("shape", "x"), &verr)
	assert.Error(t, f.app.Adjust("size", "500"))
	assert.Equal(t, 45.0, f.app.Settings().CrosshairSize)

	require.NoError(t, f.app.Adjust("target", "Center on screen"))
	assert.Equal(t, crosshair.CenterOnScreen, f.app.Settings().SelectedGameWindow)
}

func TestStepClampsToRange(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.StepSize(5))
	assert.Equal(t, 25.0, f.app.Settings().CrosshairSize)
	require.NoError(t, f.app.StepSize(-100))
	assert.Equal(t, crosshair.MinSize, f.app.Settings().CrosshairSize)

	require.NoError(t, f.app.StepThickness(-5))
	assert.Equal(t, 0.0, f.app.Settings().CrosshairThickness)
	require.NoError(t, f.app.StepThickness(100))
	assert.Equal(t, crosshair.MaxThickness, f.app.Settings().CrosshairThickness)
}

func TestSetTypeCustomReusesLastCustomData(t *testing.T) {
	f := newFixture(t)
	custom := &crosshair.Profile{Name: "mine", Elements: []crosshair.Element{
		{Kind: crosshair.ShapeCircle, X1: -5, Y1: -5, Width: 10, Height: 10, Thickness: 1, Color: crosshair.Green},
	}}
	require.NoError(t, f.app.SetType(crosshair.TypeCustom, custom))
	require.NoError(t, f.app.Adjust("type", "Dot"))
	assert.Nil(t, f.app.Settings().CustomData)

	require.NoError(t, f.app.Adjust("type", "custom"))
	s := f.app.Settings()
	assert.Equal(t, crosshair.TypeCustom, s.CrosshairType)
	require.NotNil(t, s.CustomData)
	assert.Equal(t, "mine", s.CustomData.Name)
}
