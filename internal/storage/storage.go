// Package storage 把渲染好的准星图像导出为 PNG 文件
package storage

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage 导出目录管理
type Storage struct {
	directory string
	now       func() time.Time
}

// NewStorage 创建导出管理器
func NewStorage(directory string) *Storage {
	return &Storage{directory: expandHome(directory), now: time.Now}
}

func expandHome(dir string) string {
	// 展开 ~
	if len(dir) > 0 && dir[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, dir[1:])
	}
	return dir
}

// Save 保存图片，返回文件路径
// 文件名为 <配置档>_<时间戳>.png，同一秒内重复导出时追加序号
func (s *Storage) Save(img image.Image, profile string) (string, error) {
	if err := os.MkdirAll(s.directory, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	base := fmt.Sprintf("%s_%s", sanitize(profile), s.now().Format("20060102_150405"))
	path := filepath.Join(s.directory, base+".png")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	for i := 2; os.IsExist(err) && i < 100; i++ {
		path = filepath.Join(s.directory, fmt.Sprintf("%s_%d.png", base, i))
		file, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	}
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("encode png: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// sanitize 文件名中不允许的字符替换为下划线
func sanitize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "crosshair"
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`/\:*?"<>| `, r) {
			return '_'
		}
		return r
	}, name)
}

// GetDirectory 获取导出目录
func (s *Storage) GetDirectory() string {
	return s.directory
}
