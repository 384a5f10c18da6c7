package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// 存储后端
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DatabaseFile SQLite 后端在数据目录下的文件名
const DatabaseFile = "profiles.db"

// Options 存储选项
type Options struct {
	Backend string // file | sqlite | memory
	Dir     string // 数据目录
	Format  string // file 后端的编码：json | yaml
}

// Open 按选项打开存储
func Open(opts Options, log zerolog.Logger) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		return NewFileStore(opts.Dir, opts.Format, log)
	case BackendSQLite:
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return NewSQLStore(filepath.Join(opts.Dir, DatabaseFile), log)
	case BackendMemory:
		return NewMemoryStore(log), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}
