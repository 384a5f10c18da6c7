// Package tray 系统托盘菜单
package tray

import (
	"sync"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"

	"dotsight/internal/crosshair"
)

// maxProfiles 配置档子菜单的槽位数；多余的配置档不显示在托盘中
const maxProfiles = 12

// 尺寸与线宽菜单的步长
const (
	SizeStep      = 5.0
	ThicknessStep = 1.0
)

// Tray 系统托盘
type Tray struct {
	log zerolog.Logger

	onToggle      func()
	onLoadProfile func(name string)
	onSave        func()
	onReload      func()
	onExport      func()
	onSetHotkey   func()
	onQuit        func()

	onColor     func(c crosshair.ColorName)
	onType      func(t crosshair.CrosshairType)
	onSize      func(delta float64)
	onThickness func(delta float64)
	onCentre    func()
	onPickWin   func()
	onNew       func()
	onDelete    func()

	mu         sync.Mutex
	hotkeyText string
	enabled    bool
	profiles   []string
	current    string
	color      crosshair.ColorName
	ctype      crosshair.CrosshairType
	centred    bool

	// 菜单就绪后才存在
	mToggle *systray.MenuItem
	mSlots  []*systray.MenuItem
	mColors []*systray.MenuItem
	mTypes  []*systray.MenuItem
	mCentre *systray.MenuItem
}

// NewTray 创建系统托盘
func NewTray(log zerolog.Logger) *Tray {
	return &Tray{
		log:        log,
		hotkeyText: "Ctrl+Shift+X",
		enabled:    true,
		color:      crosshair.Red,
		ctype:      crosshair.TypeClassic,
		centred:    true,
	}
}

// SetHotkeyText 设置快捷键显示文本
func (t *Tray) SetHotkeyText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hotkeyText = text
}

// SetOnToggle 显示/隐藏回调
func (t *Tray) SetOnToggle(fn func()) { t.onToggle = fn }

// SetOnLoadProfile 选择配置档回调
func (t *Tray) SetOnLoadProfile(fn func(name string)) { t.onLoadProfile = fn }

// SetOnSave 保存回调
func (t *Tray) SetOnSave(fn func()) { t.onSave = fn }

// SetOnReload 重新加载回调
func (t *Tray) SetOnReload(fn func()) { t.onReload = fn }

// SetOnExport 导出图像回调
func (t *Tray) SetOnExport(fn func()) { t.onExport = fn }

// SetOnSetHotkey 修改快捷键回调；为空时不显示该菜单项
func (t *Tray) SetOnSetHotkey(fn func()) { t.onSetHotkey = fn }

// SetOnQuit 设置退出回调
func (t *Tray) SetOnQuit(fn func()) { t.onQuit = fn }

// SetOnColor 选择颜色回调
func (t *Tray) SetOnColor(fn func(c crosshair.ColorName)) { t.onColor = fn }

// SetOnType 选择准星类型回调
func (t *Tray) SetOnType(fn func(ct crosshair.CrosshairType)) { t.onType = fn }

// SetOnSize 尺寸步进回调，参数为增量
func (t *Tray) SetOnSize(fn func(delta float64)) { t.onSize = fn }

// SetOnThickness 线宽步进回调，参数为增量
func (t *Tray) SetOnThickness(fn func(delta float64)) { t.onThickness = fn }

// SetOnCentre 居中于屏幕回调
func (t *Tray) SetOnCentre(fn func()) { t.onCentre = fn }

// SetOnPickWindow 输入窗口标题回调；为空时不显示该菜单项
func (t *Tray) SetOnPickWindow(fn func()) { t.onPickWin = fn }

// SetOnNewProfile 新建配置档回调；为空时不显示该菜单项
func (t *Tray) SetOnNewProfile(fn func()) { t.onNew = fn }

// SetOnDeleteProfile 删除当前配置档回调
func (t *Tray) SetOnDeleteProfile(fn func()) { t.onDelete = fn }

// SetStyle 同步颜色、类型与目标到菜单勾选
func (t *Tray) SetStyle(c crosshair.ColorName, ct crosshair.CrosshairType, centred bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.color, t.ctype, t.centred = c, ct, centred
	t.syncStyle()
}

// SetEnabled 同步显示状态到菜单勾选
func (t *Tray) SetEnabled(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = on
	t.syncToggle()
}

// SetProfiles 同步配置档列表与当前配置档
func (t *Tray) SetProfiles(names []string, current string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.profiles = append([]string(nil), names...)
	t.current = current
	t.syncSlots()
}

// Run 运行系统托盘（阻塞）
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit 退出托盘循环
func (t *Tray) Quit() {
	systray.Quit()
}

// slot 子菜单槽位的显示状态
type slot struct {
	Title   string
	Visible bool
	Checked bool
}

// profileSlots 把配置档列表映射到固定数量的槽位
func profileSlots(names []string, current string, n int) []slot {
	out := make([]slot, n)
	for i := 0; i < n && i < len(names); i++ {
		out[i] = slot{Title: names[i], Visible: true, Checked: names[i] == current}
	}
	return out
}

// checks 单选菜单的勾选状态
func checks[T comparable](items []T, current T) []bool {
	out := make([]bool, len(items))
	for i, it := range items {
		out[i] = it == current
	}
	return out
}

func setChecked(item *systray.MenuItem, on bool) {
	if on {
		item.Check()
	} else {
		item.Uncheck()
	}
}

func (t *Tray) syncStyle() {
	if t.mCentre == nil {
		return
	}
	for i, on := range checks(crosshair.Palette, t.color) {
		setChecked(t.mColors[i], on)
	}
	for i, on := range checks(crosshair.Types, t.ctype) {
		setChecked(t.mTypes[i], on)
	}
	setChecked(t.mCentre, t.centred)
}

// pickColor 第 i 个调色板颜色被点击
func (t *Tray) pickColor(i int) {
	if i >= 0 && i < len(crosshair.Palette) && t.onColor != nil {
		t.onColor(crosshair.Palette[i])
	}
}

// pickType 第 i 个准星类型被点击
func (t *Tray) pickType(i int) {
	if i >= 0 && i < len(crosshair.Types) && t.onType != nil {
		t.onType(crosshair.Types[i])
	}
}

func (t *Tray) syncToggle() {
	if t.mToggle == nil {
		return
	}
	if t.enabled {
		t.mToggle.Check()
	} else {
		t.mToggle.Uncheck()
	}
}

func (t *Tray) syncSlots() {
	if t.mSlots == nil {
		return
	}
	if len(t.profiles) > len(t.mSlots) {
		t.log.Warn().Int("profiles", len(t.profiles)).Int("shown", len(t.mSlots)).Msg("too many profiles for tray menu")
	}
	for i, s := range profileSlots(t.profiles, t.current, len(t.mSlots)) {
		item := t.mSlots[i]
		if !s.Visible {
			item.Hide()
			continue
		}
		item.SetTitle(s.Title)
		if s.Checked {
			item.Check()
		} else {
			item.Uncheck()
		}
		item.Show()
	}
}

func (t *Tray) onReady() {
	systray.SetIcon(getIcon())
	systray.SetTitle("DotSight")
	systray.SetTooltip("DotSight - crosshair overlay")

	t.mu.Lock()
	t.mToggle = systray.AddMenuItemCheckbox("Show crosshair ("+t.hotkeyText+")", "Show or hide the overlay", t.enabled)
	t.mu.Unlock()

	mProfiles := systray.AddMenuItem("Profiles", "Switch profile")
	slots := make([]*systray.MenuItem, maxProfiles)
	for i := range slots {
		slots[i] = mProfiles.AddSubMenuItemCheckbox("", "Load this profile", false)
		slots[i].Hide()
	}
	mSave := systray.AddMenuItem("Save profile", "Save the current settings")
	mReload := systray.AddMenuItem("Reload profile", "Discard unsaved changes")
	var newCh chan struct{}
	if t.onNew != nil {
		newCh = systray.AddMenuItem("New profile...", "Copy the current settings into a new profile").ClickedCh
	}
	mDelete := systray.AddMenuItem("Delete profile", "Delete the current profile")
	mExport := systray.AddMenuItem("Export image", "Save the crosshair as PNG and copy its path")

	systray.AddSeparator()
	mColor := systray.AddMenuItem("Colour", "Crosshair colour")
	colors := make([]*systray.MenuItem, len(crosshair.Palette))
	for i, c := range crosshair.Palette {
		colors[i] = mColor.AddSubMenuItemCheckbox(string(c), "", false)
	}
	mType := systray.AddMenuItem("Type", "Crosshair type")
	types := make([]*systray.MenuItem, len(crosshair.Types))
	for i, ct := range crosshair.Types {
		types[i] = mType.AddSubMenuItemCheckbox(ct.String(), "", false)
	}
	mSize := systray.AddMenuItem("Size", "Crosshair size")
	mLarger := mSize.AddSubMenuItem("Larger", "")
	mSmaller := mSize.AddSubMenuItem("Smaller", "")
	mThickness := systray.AddMenuItem("Thickness", "Line thickness")
	mThicker := mThickness.AddSubMenuItem("Thicker", "")
	mThinner := mThickness.AddSubMenuItem("Thinner", "")
	mTarget := systray.AddMenuItem("Target", "Where the crosshair is centred")
	centre := mTarget.AddSubMenuItemCheckbox(crosshair.CenterOnScreen, "", false)
	var pickCh chan struct{}
	if t.onPickWin != nil {
		pickCh = mTarget.AddSubMenuItem("Window title...", "Follow a window by title").ClickedCh
	}

	var hotkeyCh chan struct{}
	if t.onSetHotkey != nil {
		systray.AddSeparator()
		hotkeyCh = systray.AddMenuItem("Set hotkey...", "Change the toggle hotkey").ClickedCh
	}

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit DotSight")

	t.mu.Lock()
	t.mSlots = slots
	t.mColors, t.mTypes, t.mCentre = colors, types, centre
	t.syncToggle()
	t.syncSlots()
	t.syncStyle()
	t.mu.Unlock()

	for i, item := range slots {
		go t.watchSlot(i, item)
	}
	for i, item := range colors {
		go watch(item, i, t.pickColor)
	}
	for i, item := range types {
		go watch(item, i, t.pickType)
	}

	go func() {
		for {
			select {
			case <-t.mToggle.ClickedCh:
				if t.onToggle != nil {
					t.onToggle()
				}
			case <-mSave.ClickedCh:
				if t.onSave != nil {
					t.onSave()
				}
			case <-mReload.ClickedCh:
				if t.onReload != nil {
					t.onReload()
				}
			case <-mExport.ClickedCh:
				if t.onExport != nil {
					t.onExport()
				}
			case <-newCh:
				t.onNew()
			case <-mDelete.ClickedCh:
				if t.onDelete != nil {
					t.onDelete()
				}
			case <-mLarger.ClickedCh:
				step(t.onSize, SizeStep)
			case <-mSmaller.ClickedCh:
				step(t.onSize, -SizeStep)
			case <-mThicker.ClickedCh:
				step(t.onThickness, ThicknessStep)
			case <-mThinner.ClickedCh:
				step(t.onThickness, -ThicknessStep)
			case <-centre.ClickedCh:
				if t.onCentre != nil {
					t.onCentre()
				}
			case <-pickCh:
				t.onPickWin()
			case <-hotkeyCh:
				t.onSetHotkey()
			case <-mQuit.ClickedCh:
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

// watchSlot 把槽位点击转换为按名称加载
func (t *Tray) watchSlot(i int, item *systray.MenuItem) {
	for range item.ClickedCh {
		t.mu.Lock()
		var name string
		if i < len(t.profiles) {
			name = t.profiles[i]
		}
		t.mu.Unlock()
		if name != "" && t.onLoadProfile != nil {
			t.onLoadProfile(name)
		}
	}
}

// watch 把菜单项点击转换为按下标的回调
func watch(item *systray.MenuItem, i int, fn func(int)) {
	for range item.ClickedCh {
		fn(i)
	}
}

// step 调用步进回调
func step(fn func(float64), delta float64) {
	if fn != nil {
		fn(delta)
	}
}

func (t *Tray) onExit() {
	t.log.Debug().Msg("tray exited")
}
