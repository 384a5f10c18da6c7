package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"dotsight/internal/crosshair"
)

// profileRow profiles 表
type profileRow struct {
	Name               string `gorm:"primaryKey"`
	CrosshairEnabled   bool
	SelectedGameWindow string
	SelectedColor      string
	CrosshairThickness float64
	CrosshairSize      float64
	CrosshairType      string
	CustomData         datatypes.JSON `gorm:"not null"`
	UpdatedAt          time.Time
}

func (profileRow) TableName() string { return "profiles" }

// appConfigRow app_configs 表，只有一行
type appConfigRow struct {
	ID              uint `gorm:"primaryKey"`
	LastUsedProfile string
}

func (appConfigRow) TableName() string { return "app_configs" }

const appConfigID = 1

type sqlBackend struct {
	db *gorm.DB
}

// NewSQLStore 打开 SQLite 数据库文件；path 为空时使用内存数据库
func NewSQLStore(path string, log zerolog.Logger) (Store, error) {
	b, err := newSQLBackend(path)
	if err != nil {
		return nil, err
	}
	return newStore(b, log.With().Str("store", "sqlite").Logger()), nil
}

func newSQLBackend(path string) (*sqlBackend, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql interface: %w", err)
	}
	// 内存库每个连接各自独立，只允许一个连接
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&profileRow{}, &appConfigRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &sqlBackend{db: db}, nil
}

func toRow(st crosshair.Settings) (profileRow, error) {
	custom := datatypes.JSON("null")
	if st.CustomData != nil {
		data, err := json.Marshal(st.CustomData)
		if err != nil {
			return profileRow{}, err
		}
		custom = datatypes.JSON(data)
	}
	return profileRow{
		Name:               st.Name,
		CrosshairEnabled:   st.CrosshairEnabled,
		SelectedGameWindow: st.SelectedGameWindow,
		SelectedColor:      string(st.SelectedColor),
		CrosshairThickness: st.CrosshairThickness,
		CrosshairSize:      st.CrosshairSize,
		CrosshairType:      st.CrosshairType.String(),
		CustomData:         custom,
	}, nil
}

func fromRow(r profileRow) (crosshair.Settings, error) {
	st := crosshair.Settings{
		Name:               r.Name,
		CrosshairEnabled:   r.CrosshairEnabled,
		SelectedGameWindow: r.SelectedGameWindow,
		SelectedColor:      crosshair.ColorName(r.SelectedColor),
		CrosshairThickness: r.CrosshairThickness,
		CrosshairSize:      r.CrosshairSize,
	}
	// 未知类型交给 Settings.Validate 修正
	if t, err := crosshair.ParseCrosshairType(r.CrosshairType); err == nil {
		st.CrosshairType = t
	} else {
		st.CrosshairType = -1
	}
	if len(r.CustomData) > 0 {
		if err := json.Unmarshal(r.CustomData, &st.CustomData); err != nil {
			return crosshair.Settings{}, fmt.Errorf("decode custom data: %w", err)
		}
	}
	return st, nil
}

func (b *sqlBackend) get(name string) (crosshair.Settings, bool, error) {
	var row profileRow
	err := b.db.Where("name = ?", name).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return crosshair.Settings{}, false, nil
	}
	if err != nil {
		return crosshair.Settings{}, false, err
	}
	st, err := fromRow(row)
	if err != nil {
		return crosshair.Settings{}, false, err
	}
	return st, true, nil
}

func (b *sqlBackend) put(st crosshair.Settings) error {
	row, err := toRow(st)
	if err != nil {
		return err
	}
	return b.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	})
}

func (b *sqlBackend) remove(name string) (bool, error) {
	res := b.db.Where("name = ?", name).Delete(&profileRow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (b *sqlBackend) names() ([]string, error) {
	var out []string
	if err := b.db.Model(&profileRow{}).Pluck("name", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (b *sqlBackend) lastUsed() (string, error) {
	var row appConfigRow
	err := b.db.Where("id = ?", appConfigID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.LastUsedProfile, nil
}

func (b *sqlBackend) setLastUsed(name string) error {
	row := appConfigRow{ID: appConfigID, LastUsedProfile: name}
	return b.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

func (b *sqlBackend) close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
