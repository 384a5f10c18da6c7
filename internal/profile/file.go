package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"dotsight/internal/crosshair"
)

// codec 配置档文件编码
type codec interface {
	ext() string
	marshal(v any) ([]byte, error)
	unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) ext() string { return ".json" }

func (jsonCodec) marshal(v any) ([]byte, error) { return json.MarshalIndent(v, "", "    ") }

func (jsonCodec) unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type yamlCodec struct{}

func (yamlCodec) ext() string { return ".yaml" }

func (yamlCodec) marshal(v any) ([]byte, error) { return yaml.Marshal(v) }

func (yamlCodec) unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

func codecFor(format string) (codec, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return jsonCodec{}, nil
	case "yaml", "yml":
		return yamlCodec{}, nil
	}
	return nil, fmt.Errorf("unknown profile format %q", format)
}

const (
	defaultFileBase = "settings"
	profilesDir     = "profiles"
	appConfigFile   = "config.json"
)

// fileBackend 目录布局：
//
//	<dir>/settings.<ext>          Default
//	<dir>/profiles/<name>.<ext>   其他配置档
//	<dir>/config.json             上次使用的配置
type fileBackend struct {
	dir   string
	codec codec

	syncFile func(*os.File) error
}

// NewFileStore 创建基于文件的存储，format 为 json 或 yaml
func NewFileStore(dir, format string, log zerolog.Logger) (Store, error) {
	b, err := newFileBackend(dir, format)
	if err != nil {
		return nil, err
	}
	return newStore(b, log.With().Str("store", "file").Logger()), nil
}

func newFileBackend(dir, format string) (*fileBackend, error) {
	c, err := codecFor(format)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(dir, profilesDir), 0755); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}
	return &fileBackend{dir: dir, codec: c, syncFile: (*os.File).Sync}, nil
}

func (b *fileBackend) path(name string) string {
	if name == crosshair.DefaultProfileName {
		return filepath.Join(b.dir, defaultFileBase+b.codec.ext())
	}
	return filepath.Join(b.dir, profilesDir, name+b.codec.ext())
}

func (b *fileBackend) get(name string) (crosshair.Settings, bool, error) {
	data, err := os.ReadFile(b.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return crosshair.Settings{}, false, nil
	}
	if err != nil {
		return crosshair.Settings{}, false, err
	}

	var st crosshair.Settings
	if err := b.codec.unmarshal(data, &st); err != nil {
		return crosshair.Settings{}, false, fmt.Errorf("decode %s: %w", filepath.Base(b.path(name)), err)
	}
	return st, true, nil
}

func (b *fileBackend) put(st crosshair.Settings) error {
	data, err := b.codec.marshal(st)
	if err != nil {
		return err
	}
	return b.writeAtomic(b.path(st.Name), data)
}

// writeAtomic 写临时文件、落盘后改名，失败时原文件不受影响
func (b *fileBackend) writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = b.syncFile(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (b *fileBackend) remove(name string) (bool, error) {
	err := os.Remove(b.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (b *fileBackend) names() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(b.dir, profilesDir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || filepath.Ext(n) != b.codec.ext() {
			continue
		}
		out = append(out, strings.TrimSuffix(n, b.codec.ext()))
	}
	return out, nil
}

func (b *fileBackend) lastUsed() (string, error) {
	data, err := os.ReadFile(filepath.Join(b.dir, appConfigFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var cfg crosshair.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		// 损坏的配置按未设置处理
		return "", nil
	}
	return cfg.LastUsedProfile, nil
}

func (b *fileBackend) setLastUsed(name string) error {
	data, err := json.MarshalIndent(crosshair.AppConfig{LastUsedProfile: name}, "", "    ")
	if err != nil {
		return err
	}
	return b.writeAtomic(filepath.Join(b.dir, appConfigFile), data)
}

func (b *fileBackend) close() error { return nil }
