package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"dotsight/internal/app"
	"dotsight/internal/clipboard"
	"dotsight/internal/config"
	"dotsight/internal/dialog"
	"dotsight/internal/editor"
	"dotsight/internal/hotkey"
	"dotsight/internal/logging"
	"dotsight/internal/notify"
	"dotsight/internal/overlay"
	"dotsight/internal/profile"
	"dotsight/internal/storage"
	"dotsight/internal/target"
	"dotsight/internal/tray"
	"dotsight/internal/tui"
)

const version = "1.0.0"

func main() {
	// 命令行参数
	setHotkeyFlag := flag.String("set-hotkey", "", "set the toggle hotkey, e.g. ctrl+shift+x")
	showConfig := flag.Bool("config", false, "print the config file path")
	showVersion := flag.Bool("version", false, "print the version")
	list := flag.Bool("list", false, "list profiles")
	deleteName := flag.String("delete", "", "delete a profile")
	editName := flag.String("edit", "", "edit a profile's custom crosshair in the terminal")
	renderName := flag.String("render", "", "render a profile to PNG (with -out)")
	out := flag.String("out", "", "output file for -render (default: a timestamped file under the data dir)")
	createName := flag.String("create", "", "create a profile from the last used one")
	setList := flag.String("set", "", "change settings, e.g. color=Blue,size=30,type=Cross,thickness=3,target=Game")
	profileName := flag.String("profile", "", "profile changed by -set (default: the last used one)")
	flag.Parse()

	cmd := command{
		list:    *list,
		del:     *deleteName,
		edit:    *editName,
		render:  *renderName,
		out:     *out,
		create:  *createName,
		set:     *setList,
		profile: *profileName,
	}

	if *showVersion {
		fmt.Println("DotSight v" + version)
		return
	}

	if *showConfig {
		fmt.Println("config file:", config.GetConfigPath())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
	}

	if *setHotkeyFlag != "" {
		if err := updateHotkey(cfg, *setHotkeyFlag); err != nil {
			fmt.Fprintln(os.Stderr, "set hotkey:", err)
			os.Exit(1)
		}
		fmt.Println("hotkey set to:", *setHotkeyFlag)
		return
	}

	// 终端编辑器占用屏幕，日志只写文件
	var console io.Writer = os.Stderr
	if *editName != "" {
		console = io.Discard
	}
	log, closer, err := logging.NewWithFile(console, cfg.LogFile(), cfg.LogLevel)
	if err != nil {
		log.Warn().Err(err).Msg("log file unavailable")
	}
	defer closer.Close()

	if cmd.any() {
		if err := runCommand(cfg, log, cmd); err != nil {
			fmt.Fprintln(os.Stderr, err)
			closer.Close()
			os.Exit(1)
		}
		return
	}

	// 使用 mainthread 确保热键在主线程运行
	hotkey.Run(func() {
		if err := run(cfg, log); err != nil {
			log.Error().Err(err).Msg("dotsight stopped")
		}
	})
}

func openStore(cfg *config.Config, log zerolog.Logger) (profile.Store, error) {
	return profile.Open(profile.Options{
		Backend: cfg.Store.Backend,
		Dir:     cfg.DataDir,
		Format:  cfg.Store.Format,
	}, log)
}

// exportStorage 导出目录位于数据目录下
func exportStorage(cfg *config.Config) *storage.Storage {
	return storage.NewStorage(filepath.Join(cfg.DataDir, "exports"))
}

// command 命令行子命令
type command struct {
	list                 bool
	del, edit, render    string
	out                  string
	create, set, profile string
}

func (c command) any() bool {
	return c.list || c.del != "" || c.edit != "" || c.render != "" || c.create != "" || c.set != ""
}

func runCommand(cfg *config.Config, log zerolog.Logger, c command) error {
	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case c.list:
		return listProfiles(os.Stdout, store)
	case c.del != "":
		return deleteProfile(os.Stdout, store, c.del)
	case c.create != "":
		return createProfile(os.Stdout, store, c.create, log)
	case c.set != "":
		return setProfile(os.Stdout, store, c.profile, c.set, log)
	case c.render != "":
		out := c.out
		if out == "" {
			path, err := exportProfile(exportStorage(cfg), store, c.render, cfg.Overlay.Width, cfg.Overlay.Height)
			if err != nil {
				return err
			}
			out = path
		} else if err := renderToFile(out, store, c.render, cfg.Overlay.Width, cfg.Overlay.Height); err != nil {
			return err
		}
		fmt.Println("rendered", c.render, "to", out)
		return nil
	default:
		return editProfile(cfg, log, store, c.edit)
	}
}

// editProfile 在终端编辑器中打开配置档的自定义元素
func editProfile(cfg *config.Config, log zerolog.Logger, store profile.Store, name string) error {
	if err := profile.ValidateName(name); err != nil {
		return err
	}
	st, err := profile.LoadOrDefault(store, name)
	if err != nil {
		return err
	}

	ed := editor.New(editor.WithCanvasSize(cfg.Editor.CanvasSize, cfg.Editor.CanvasSize))
	if st.CustomData != nil {
		if err := ed.ImportProfile(*st.CustomData); err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
	}

	m, err := tui.Run(ed, tui.Options{Settings: st, Store: store, Log: log})
	if err != nil {
		return err
	}
	if m.Saved() {
		fmt.Printf("saved %s (%d elements)\n", name, ed.Len())
	}
	return nil
}

func run(cfg *config.Config, log zerolog.Logger) error {
	log.Info().Str("version", version).Str("hotkey", cfg.GetHotkeyString()).Str("data", cfg.DataDir).Msg("DotSight starting")
	logDisplayInfo(log)

	store, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	surface, err := overlay.NewSurface(log)
	if err != nil {
		log.Warn().Err(err).Msg("overlay window unavailable")
		surface = overlay.NopSurface{Log: log}
	}

	a := app.New(app.Options{
		Store:        store,
		Renderer:     overlay.NewRenderer(cfg.Overlay.Width, cfg.Overlay.Height),
		Provider:     target.NewProvider(),
		Surface:      surface,
		Notifier:     notify.New(cfg.Behavior.ShowNotification, log),
		Exports:      exportStorage(cfg),
		Clipboard:    clipboard.NewClipboard(),
		TickInterval: cfg.Overlay.TickInterval,
		Log:          log,
	})
	if err := a.Startup(); err != nil {
		log.Error().Err(err).Msg("apply startup profile")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	t := tray.NewTray(log)
	var prompt promptFunc
	if dialog.Supported {
		prompt = dialog.Input
	}
	toggle, refresh := wireMenu(t, a, prompt, log)

	hk := hotkey.NewManager(log)
	if err := hk.Register(cfg.Hotkey.Modifiers, cfg.Hotkey.Key, toggle); err != nil {
		log.Warn().Err(err).Str("hotkey", cfg.GetHotkeyString()).Msg("hotkey not registered, use the tray menu or -set-hotkey")
	} else {
		defer hk.Unregister()
		hk.ListenAsync()
	}

	t.SetHotkeyText(cfg.GetHotkeyString())
	if dialog.Supported {
		t.SetOnSetHotkey(func() { changeHotkey(cfg, hk, toggle, log) })
	}
	t.SetOnQuit(cancel)
	refresh()

	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
		t.Quit()
	}()

	// 运行托盘（阻塞）
	t.Run()
	cancel()
	return <-done
}

// changeHotkey 弹出对话框修改快捷键，成功后重新注册并保存
func changeHotkey(cfg *config.Config, hk *hotkey.Manager, toggle func(), log zerolog.Logger) {
	combo, ok, err := hotkey.ShowHotkeySetter(cfg.GetHotkeyString())
	if err != nil {
		log.Warn().Err(err).Msg("hotkey dialog")
		return
	}
	if !ok {
		return
	}

	if err := hk.Unregister(); err != nil {
		log.Warn().Err(err).Msg("unregister hotkey")
	}
	if err := hk.Register(combo.Modifiers, combo.Key, toggle); err != nil {
		log.Error().Err(err).Str("hotkey", combo.String()).Msg("register hotkey")
		return
	}
	hk.ListenAsync()

	cfg.Hotkey.Modifiers, cfg.Hotkey.Key = combo.Modifiers, combo.Key
	if err := cfg.Save(config.GetConfigPath()); err != nil {
		log.Error().Err(err).Msg("save config")
	}
	log.Info().Str("hotkey", combo.String()).Msg("hotkey changed")
}

func updateHotkey(cfg *config.Config, s string) error {
	combo, err := hotkey.ParseCombo(s)
	if err != nil {
		return err
	}
	return cfg.SetHotkey(combo.Modifiers, combo.Key)
}
