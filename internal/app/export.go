package app

import "errors"

// ErrNoExportDir 未配置导出目录
var ErrNoExportDir = errors.New("no export directory configured")

// ExportImage 把当前准星保存为 PNG 并复制路径到剪贴板，返回文件路径
func (a *App) ExportImage() (string, error) {
	if a.exports == nil {
		return "", ErrNoExportDir
	}
	path, err := a.exports.Save(a.renderer.Rasterize(), a.settings.Name)
	if err != nil {
		a.log.Error().Err(err).Msg("export image")
		a.notify("Export failed", "Could not export the crosshair image.")
		return "", err
	}
	if err := a.clip.SetText(path); err != nil {
		a.log.Warn().Err(err).Msg("copy export path")
	}
	a.log.Info().Str("path", path).Msg("crosshair exported")
	a.notify("Crosshair exported", "%s", path)
	return path, nil
}
