package app

import (
	"errors"
	"fmt"

	"dotsight/internal/crosshair"
	"dotsight/internal/profile"
)

func (a *App) notify(title, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if err := a.notifier.Show(title, msg); err != nil {
		a.log.Debug().Err(err).Str("title", title).Msg("show notification")
	}
}

// Profiles 配置档名称列表，Default 在首位
func (a *App) Profiles() []string {
	names, err := a.store.List()
	if err != nil {
		a.log.Error().Err(err).Msg("list profiles")
		return []string{crosshair.DefaultProfileName}
	}
	return names
}

// LoadProfile 加载并应用配置档；不存在时使用同名的默认设置
func (a *App) LoadProfile(name string) error {
	st, err := profile.LoadOrDefault(a.store, name)
	if err != nil {
		a.log.Error().Err(err).Str("profile", name).Msg("load profile")
		a.notify("Load failed", "Could not load profile '%s'.", name)
		st = crosshair.DefaultSettings(name)
	}
	if aerr := a.ApplySettings(st); aerr != nil {
		return aerr
	}
	return err
}

// ReloadProfile 丢弃未保存的修改，重新读取当前配置档
func (a *App) ReloadProfile() error {
	name := a.settings.Name
	if err := a.LoadProfile(name); err != nil {
		return err
	}
	a.notify("Profile reloaded", "Profile '%s' reloaded.", name)
	return nil
}

// SaveProfile 保存当前设置
func (a *App) SaveProfile() error {
	if err := a.store.Save(a.Settings()); err != nil {
		a.log.Error().Err(err).Str("profile", a.settings.Name).Msg("save profile")
		a.notify("Save failed", "Could not save profile '%s'.", a.settings.Name)
		return err
	}
	a.notify("Profile saved", "Profile '%s' saved successfully.", a.settings.Name)
	return nil
}

// CreateProfile 以当前设置新建配置档并切换过去
func (a *App) CreateProfile(name string) error {
	st := a.Settings()
	st.Name = name

	err := profile.CreateProfile(a.store, st)
	var verr *crosshair.ValidationError
	switch {
	case errors.As(err, &verr):
		a.notify("Invalid name", "Please enter a valid name for the new profile.")
		return err
	case errors.Is(err, profile.ErrDuplicate):
		a.notify("Profile exists", "A profile named '%s' already exists.", name)
		return err
	case err != nil:
		a.log.Error().Err(err).Str("profile", name).Msg("create profile")
		a.notify("Create failed", "Could not create profile '%s'.", name)
		return err
	}

	a.settings.Name = name
	if err := a.store.SetLastUsed(name); err != nil {
		a.log.Warn().Err(err).Msg("set last used profile")
	}
	a.notify("Profile created", "Profile '%s' created successfully.", name)
	return nil
}

// DeleteProfile 删除配置档；删除当前配置档时切换到 Default
func (a *App) DeleteProfile(name string) (bool, error) {
	ok, err := a.store.Delete(name)
	if errors.Is(err, profile.ErrProtected) {
		a.notify("Delete refused", "Cannot delete the Default profile.")
		return false, nil
	}
	if err != nil {
		a.log.Error().Err(err).Str("profile", name).Msg("delete profile")
		a.notify("Delete failed", "Could not delete profile '%s'.", name)
		return false, err
	}
	if !ok {
		return false, nil
	}

	if a.settings.Name == name {
		if err := a.LoadProfile(crosshair.DefaultProfileName); err != nil {
			return true, err
		}
	}
	a.notify("Profile deleted", "Profile '%s' deleted.", name)
	return true, nil
}
