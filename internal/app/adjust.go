package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"dotsight/internal/crosshair"
)

// Assignment 一项 key=value 设置
type Assignment struct {
	Key   string
	Value string
}

// ParseAssignments 解析 "color=Blue,size=30" 形式的设置列表，键不区分大小写
func ParseAssignments(s string) ([]Assignment, error) {
	var out []Assignment
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		k = strings.ToLower(strings.TrimSpace(k))
		if !ok || k == "" {
			return nil, &crosshair.ValidationError{Field: "setting", Value: part, Reason: "expected key=value"}
		}
		out = append(out, Assignment{Key: k, Value: strings.TrimSpace(v)})
	}
	if len(out) == 0 {
		return nil, &crosshair.ValidationError{Field: "setting", Value: s, Reason: "nothing to set"}
	}
	return out, nil
}

// Adjust 按名称修改一项设置
// 支持 color、size、thickness、type、target、enabled
func (a *App) Adjust(key, value string) error {
	switch strings.ToLower(key) {
	case "color", "colour":
		c, err := parseColor(value)
		if err != nil {
			return err
		}
		return a.SetColor(c)
	case "size":
		v, err := parseNumber("crosshairSize", value)
		if err != nil {
			return err
		}
		return a.SetSize(v)
	case "thickness":
		v, err := parseNumber("crosshairThickness", value)
		if err != nil {
			return err
		}
		return a.SetThickness(v)
	case "type":
		t, err := crosshair.ParseCrosshairType(value)
		if err != nil {
			return err
		}
		return a.SetType(t, nil)
	case "target":
		a.SetTarget(value)
		return nil
	case "enabled":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return &crosshair.ValidationError{Field: "crosshairEnabled", Value: value, Reason: "not a boolean"}
		}
		a.SetEnabled(on)
		return nil
	}
	return &crosshair.ValidationError{Field: "setting", Value: key, Reason: "unknown setting"}
}

// AdjustAll 依次应用设置，遇到第一个错误即停止
func (a *App) AdjustAll(list []Assignment) error {
	for _, as := range list {
		if err := a.Adjust(as.Key, as.Value); err != nil {
			return fmt.Errorf("%s: %w", as.Key, err)
		}
	}
	return nil
}

// StepSize 按步长调整尺寸，结果限制在合法范围内
func (a *App) StepSize(delta float64) error {
	return a.SetSize(clamp(a.settings.CrosshairSize+delta, crosshair.MinSize, crosshair.MaxSize))
}

// StepThickness 按步长调整线宽，结果限制在合法范围内
func (a *App) StepThickness(delta float64) error {
	return a.SetThickness(clamp(a.settings.CrosshairThickness+delta, crosshair.MinThickness, crosshair.MaxThickness))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// parseColor 颜色名不区分大小写
func parseColor(s string) (crosshair.ColorName, error) {
	for _, c := range crosshair.Palette {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return crosshair.ParseColorName(s)
}

func parseNumber(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return 0, &crosshair.ValidationError{Field: field, Value: s, Reason: "not a number"}
	}
	return v, nil
}
