// Package profile 按名称持久化准星配置档，并记录上次使用的配置
package profile

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"dotsight/internal/crosshair"
)

var (
	// ErrNotFound 配置档不存在
	ErrNotFound = errors.New("profile not found")
	// ErrDuplicate 配置档已存在
	ErrDuplicate = errors.New("profile already exists")
	// ErrProtected 默认配置档不可删除
	ErrProtected = errors.New("default profile cannot be deleted")
)

// PersistenceError 底层存储失败
type PersistenceError struct {
	Op   string
	Name string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("profile %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("profile %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store 配置档存储
type Store interface {
	Save(s crosshair.Settings) error
	// Load 读取配置档，成功时记为上次使用
	Load(name string) (crosshair.Settings, error)
	// List 返回所有名称，Default 总在最前
	List() ([]string, error)
	// Delete 删除配置档；Default 返回 false 与 ErrProtected
	Delete(name string) (bool, error)
	LastUsed() (string, error)
	SetLastUsed(name string) error
	Close() error
}

// backend 各存储实现只负责原始读写，名称规则与上次使用的维护由 store 统一处理
type backend interface {
	get(name string) (crosshair.Settings, bool, error)
	put(s crosshair.Settings) error
	remove(name string) (bool, error)
	names() ([]string, error)
	lastUsed() (string, error)
	setLastUsed(name string) error
	close() error
}

type store struct {
	b   backend
	log zerolog.Logger
}

func newStore(b backend, log zerolog.Logger) *store {
	return &store{b: b, log: log}
}

// ValidateName 检查配置档名称：非空、无首尾空白、不含路径或保留字符
func ValidateName(name string) error {
	reject := func(reason string) error {
		return &crosshair.ValidationError{Field: "name", Value: name, Reason: reason}
	}
	switch {
	case name == "":
		return reject("must not be empty")
	case strings.TrimSpace(name) != name:
		return reject("must not start or end with spaces")
	case name == "." || name == "..":
		return reject("reserved name")
	case strings.ContainsAny(name, `/\:*?"<>|`):
		return reject("contains a reserved character")
	}
	for _, r := range name {
		if r < 0x20 {
			return reject("contains a control character")
		}
	}
	return nil
}

func (s *store) Save(st crosshair.Settings) error {
	if err := ValidateName(st.Name); err != nil {
		return err
	}
	st = cloneSettings(st)
	st.Validate()
	if err := s.b.put(st); err != nil {
		s.log.Error().Err(err).Str("profile", st.Name).Msg("save profile")
		return &PersistenceError{Op: "save", Name: st.Name, Err: err}
	}
	s.log.Debug().Str("profile", st.Name).Msg("profile saved")
	return nil
}

func (s *store) Load(name string) (crosshair.Settings, error) {
	if err := ValidateName(name); err != nil {
		return crosshair.Settings{}, err
	}
	st, ok, err := s.b.get(name)
	if err != nil {
		s.log.Error().Err(err).Str("profile", name).Msg("load profile")
		return crosshair.Settings{}, &PersistenceError{Op: "load", Name: name, Err: err}
	}
	if !ok {
		return crosshair.Settings{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	st.Name = name
	st.Validate()

	if err := s.SetLastUsed(name); err != nil {
		return st, err
	}
	return st, nil
}

func (s *store) List() ([]string, error) {
	names, err := s.b.names()
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return orderNames(names), nil
}

// orderNames Default 在前，其余按字典序，去重
func orderNames(names []string) []string {
	seen := map[string]bool{crosshair.DefaultProfileName: true}
	rest := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	return append([]string{crosshair.DefaultProfileName}, rest...)
}

func (s *store) Delete(name string) (bool, error) {
	if name == crosshair.DefaultProfileName {
		return false, ErrProtected
	}
	if err := ValidateName(name); err != nil {
		return false, err
	}

	removed, err := s.b.remove(name)
	if err != nil {
		s.log.Error().Err(err).Str("profile", name).Msg("delete profile")
		return false, &PersistenceError{Op: "delete", Name: name, Err: err}
	}
	if !removed {
		return false, nil
	}

	last, err := s.LastUsed()
	if err != nil {
		return true, err
	}
	if last == name {
		if err := s.SetLastUsed(crosshair.DefaultProfileName); err != nil {
			return true, err
		}
	}
	s.log.Debug().Str("profile", name).Msg("profile deleted")
	return true, nil
}

func (s *store) LastUsed() (string, error) {
	name, err := s.b.lastUsed()
	if err != nil {
		return "", &PersistenceError{Op: "read config", Err: err}
	}
	if name == "" {
		return crosshair.DefaultProfileName, nil
	}
	return name, nil
}

func (s *store) SetLastUsed(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := s.b.setLastUsed(name); err != nil {
		return &PersistenceError{Op: "write config", Name: name, Err: err}
	}
	return nil
}

func (s *store) Close() error {
	return s.b.close()
}

// LoadOrDefault 读取配置档，不存在时返回以该名称命名的默认配置
func LoadOrDefault(s Store, name string) (crosshair.Settings, error) {
	st, err := s.Load(name)
	if errors.Is(err, ErrNotFound) {
		return crosshair.DefaultSettings(name), nil
	}
	return st, err
}

// CreateProfile 新建配置档，同名已存在时返回 ErrDuplicate
func CreateProfile(s Store, st crosshair.Settings) error {
	if err := ValidateName(st.Name); err != nil {
		return err
	}
	names, err := s.List()
	if err != nil {
		return err
	}
	for _, n := range names {
		// Default 始终在列表中，因此也不能新建
		if n == st.Name {
			return fmt.Errorf("%w: %s", ErrDuplicate, st.Name)
		}
	}
	return s.Save(st)
}
