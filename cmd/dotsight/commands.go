package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"dotsight/internal/app"
	"dotsight/internal/crosshair"
	"dotsight/internal/overlay"
	"dotsight/internal/profile"
	"dotsight/internal/storage"
)

// listProfiles 打印配置档，上次使用的带 * 标记
func listProfiles(w io.Writer, store profile.Store) error {
	names, err := store.List()
	if err != nil {
		return err
	}
	last, err := store.LastUsed()
	if err != nil {
		return err
	}
	for _, n := range names {
		mark := " "
		if n == last {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s\n", mark, n)
	}
	return nil
}

// deleteProfile 删除配置档；Default 与不存在的配置档返回错误
func deleteProfile(w io.Writer, store profile.Store, name string) error {
	ok, err := store.Delete(name)
	if errors.Is(err, profile.ErrProtected) {
		return fmt.Errorf("cannot delete the %s profile", crosshair.DefaultProfileName)
	}
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", profile.ErrNotFound, name)
	}
	fmt.Fprintf(w, "deleted profile %s\n", name)
	return nil
}

// createProfile 复制上次使用的配置档为新配置档，并设为上次使用
func createProfile(w io.Writer, store profile.Store, name string, log zerolog.Logger) error {
	a := app.New(app.Options{Store: store, Log: log})
	if err := a.Startup(); err != nil {
		return err
	}
	if err := a.CreateProfile(name); err != nil {
		return err
	}
	fmt.Fprintf(w, "created profile %s\n", name)
	return nil
}

// setProfile 修改配置档的设置并保存；name 为空时修改上次使用的配置档
func setProfile(w io.Writer, store profile.Store, name, assignments string, log zerolog.Logger) error {
	list, err := app.ParseAssignments(assignments)
	if err != nil {
		return err
	}

	a := app.New(app.Options{Store: store, Log: log})
	if name == "" {
		err = a.Startup()
	} else {
		err = a.LoadProfile(name)
	}
	if err != nil {
		return err
	}
	if err := a.AdjustAll(list); err != nil {
		return err
	}
	if err := a.SaveProfile(); err != nil {
		return err
	}

	s := a.Settings()
	fmt.Fprintf(w, "updated profile %s: color=%s size=%g thickness=%g type=%s target=%s\n",
		s.Name, s.SelectedColor, s.CrosshairSize, s.CrosshairThickness, s.CrosshairType, s.SelectedGameWindow)
	return nil
}

// exportProfile 渲染配置档并以时间戳文件名保存到导出目录
func exportProfile(s *storage.Storage, store profile.Store, name string, w, h int) (string, error) {
	r, err := profileRenderer(store, name, w, h)
	if err != nil {
		return "", err
	}
	return s.Save(r.Rasterize(), name)
}

// profileRenderer 按配置档设置好的渲染器；不存在的配置档使用默认设置
func profileRenderer(store profile.Store, name string, w, h int) (*overlay.Renderer, error) {
	st, err := profile.LoadOrDefault(store, name)
	if err != nil {
		return nil, err
	}
	st.Validate()

	r := overlay.NewRenderer(w, h)
	if err := r.ApplySettings(st.SelectedColor, st.CrosshairThickness, st.CrosshairSize, st.CrosshairType, st.CustomData); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return r, nil
}

// renderProfile 把配置档栅格化为 w×h 的 PNG
func renderProfile(out io.Writer, store profile.Store, name string, w, h int) error {
	r, err := profileRenderer(store, name, w, h)
	if err != nil {
		return err
	}
	return r.EncodePNG(out)
}

// renderToFile 渲染到文件，失败时删除半成品
func renderToFile(path string, store profile.Store, name string, w, h int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := renderProfile(f, store, name, w, h); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
