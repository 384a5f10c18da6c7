//go:build windows

package overlay

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"github.com/rs/zerolog"
)

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	gdi32    = syscall.NewLazyDLL("gdi32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	getModuleHandle     = kernel32.NewProc("GetModuleHandleW")
	registerClassExW    = user32.NewProc("RegisterClassExW")
	createWindowExW     = user32.NewProc("CreateWindowExW")
	destroyWindow       = user32.NewProc("DestroyWindow")
	showWindow          = user32.NewProc("ShowWindow")
	defWindowProcW      = user32.NewProc("DefWindowProcW")
	peekMessageW        = user32.NewProc("PeekMessageW")
	translateMessage    = user32.NewProc("TranslateMessage")
	dispatchMessageW    = user32.NewProc("DispatchMessageW")
	updateLayeredWindow = user32.NewProc("UpdateLayeredWindow")
	getDC               = user32.NewProc("GetDC")
	releaseDC           = user32.NewProc("ReleaseDC")

	createCompatibleDC = gdi32.NewProc("CreateCompatibleDC")
	createDIBSection   = gdi32.NewProc("CreateDIBSection")
	selectObject       = gdi32.NewProc("SelectObject")
	deleteDC           = gdi32.NewProc("DeleteDC")
	deleteObject       = gdi32.NewProc("DeleteObject")
)

const (
	wsPopup = 0x80000000

	wsExTransparent = 0x00000020
	wsExTopmost     = 0x00000008
	wsExToolWindow  = 0x00000080
	wsExLayered     = 0x00080000
	wsExNoActivate  = 0x08000000

	swHide           = 0
	swShowNoActivate = 4

	pmRemove    = 0x0001
	ulwAlpha    = 0x00000002
	acSrcAlpha  = 0x01
	biRGB       = 0
	dibRGBColor = 0
)

type wndClassExW struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CbClsExtra    int32
	CbWndExtra    int32
	HInstance     uintptr
	HIcon         uintptr
	HCursor       uintptr
	HbrBackground uintptr
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       uintptr
}

type msg struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

type point struct{ X, Y int32 }

type size struct{ CX, CY int32 }

type blendFunction struct {
	BlendOp             byte
	BlendFlags          byte
	SourceConstantAlpha byte
	AlphaFormat         byte
}

type bitmapInfoHeader struct {
	BiSize          uint32
	BiWidth         int32
	BiHeight        int32
	BiPlanes        uint16
	BiBitCount      uint16
	BiCompression   uint32
	BiSizeImage     uint32
	BiXPelsPerMeter int32
	BiYPelsPerMeter int32
	BiClrUsed       uint32
	BiClrImportant  uint32
}

type bitmapInfo struct {
	BmiHeader bitmapInfoHeader
	BmiColors [1]uint32
}

// ErrSurfaceClosed 载体已关闭
var ErrSurfaceClosed = errors.New("overlay surface closed")

var classOnce sync.Once

// LayeredSurface 置顶、鼠标穿透、不出现在任务栏的分层窗口
// 窗口属于一个锁定线程的 goroutine，帧通过通道交给它，只保留最新一帧
type LayeredSurface struct {
	frames    chan Frame
	done      chan struct{}
	closeOnce sync.Once
	log       zerolog.Logger
}

// NewSurface 创建分层窗口载体
func NewSurface(log zerolog.Logger) (Surface, error) {
	s := &LayeredSurface{
		frames: make(chan Frame, 1),
		done:   make(chan struct{}),
		log:    log,
	}
	ready := make(chan error, 1)
	go s.loop(ready)
	if err := <-ready; err != nil {
		return nil, err
	}
	return s, nil
}

// Present 提交一帧
func (s *LayeredSurface) Present(f Frame) error {
	select {
	case <-s.done:
		return ErrSurfaceClosed
	default:
	}
	// 丢弃尚未呈现的旧帧
	select {
	case <-s.frames:
	default:
	}
	select {
	case s.frames <- f:
	default:
	}
	return nil
}

// Close 销毁窗口
func (s *LayeredSurface) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

func (s *LayeredSurface) loop(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hwnd, err := createOverlayWindow()
	ready <- err
	if err != nil {
		return
	}
	defer destroyWindow.Call(hwnd)

	pump := time.NewTicker(16 * time.Millisecond)
	defer pump.Stop()

	for {
		select {
		case <-s.done:
			return
		case f := <-s.frames:
			if err := applyFrame(hwnd, f); err != nil {
				s.log.Warn().Err(err).Msg("update overlay window")
			}
		case <-pump.C:
			pumpMessages()
		}
	}
}

func createOverlayWindow() (uintptr, error) {
	hInstance, _, _ := getModuleHandle.Call(0)
	className := syscall.StringToUTF16Ptr("DotSightOverlayClass")

	classOnce.Do(func() {
		var wc wndClassExW
		wc.CbSize = uint32(unsafe.Sizeof(wc))
		wc.LpfnWndProc = defWindowProcW.Addr()
		wc.HInstance = hInstance
		wc.LpszClassName = className
		registerClassExW.Call(uintptr(unsafe.Pointer(&wc)))
	})

	hwnd, _, callErr := createWindowExW.Call(
		wsExLayered|wsExTransparent|wsExTopmost|wsExToolWindow|wsExNoActivate,
		uintptr(unsafe.Pointer(className)),
		0,
		wsPopup,
		0, 0, DefaultWidth, DefaultHeight,
		0, 0, hInstance, 0,
	)
	if hwnd == 0 {
		return 0, fmt.Errorf("create overlay window: %w", callErr)
	}
	return hwnd, nil
}

// pumpMessages 处理窗口线程上积压的消息
func pumpMessages() {
	var m msg
	for {
		ret, _, _ := peekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
		if ret == 0 {
			return
		}
		translateMessage.Call(uintptr(unsafe.Pointer(&m)))
		dispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

// applyFrame 一次调用同时更新位置、尺寸与像素
func applyFrame(hwnd uintptr, f Frame) error {
	if !f.Visible || f.Image == nil {
		showWindow.Call(hwnd, swHide)
		return nil
	}

	b := f.Image.Bounds()
	w, h := b.Dx(), b.Dy()

	screenDC, _, _ := getDC.Call(0)
	defer releaseDC.Call(0, screenDC)
	memDC, _, _ := createCompatibleDC.Call(screenDC)
	if memDC == 0 {
		return errors.New("CreateCompatibleDC failed")
	}
	defer deleteDC.Call(memDC)

	var bi bitmapInfo
	bi.BmiHeader.BiSize = uint32(unsafe.Sizeof(bi.BmiHeader))
	bi.BmiHeader.BiWidth = int32(w)
	bi.BmiHeader.BiHeight = -int32(h) // 自上而下
	bi.BmiHeader.BiPlanes = 1
	bi.BmiHeader.BiBitCount = 32
	bi.BmiHeader.BiCompression = biRGB

	var bits unsafe.Pointer
	bmp, _, _ := createDIBSection.Call(memDC, uintptr(unsafe.Pointer(&bi)), dibRGBColor, uintptr(unsafe.Pointer(&bits)), 0, 0)
	if bmp == 0 || bits == nil {
		return errors.New("CreateDIBSection failed")
	}
	defer deleteObject.Call(bmp)
	old, _, _ := selectObject.Call(memDC, bmp)
	defer selectObject.Call(memDC, old)

	// RGBA（预乘）转 BGRA（预乘）
	dst := unsafe.Slice((*byte)(bits), w*h*4)
	for y := 0; y < h; y++ {
		src := f.Image.Pix[y*f.Image.Stride : y*f.Image.Stride+w*4]
		row := dst[y*w*4 : (y+1)*w*4]
		for x := 0; x < w*4; x += 4 {
			row[x+0] = src[x+2]
			row[x+1] = src[x+1]
			row[x+2] = src[x+0]
			row[x+3] = src[x+3]
		}
	}

	pos := point{X: int32(f.X), Y: int32(f.Y)}
	sz := size{CX: int32(w), CY: int32(h)}
	origin := point{}
	blend := blendFunction{SourceConstantAlpha: 255, AlphaFormat: acSrcAlpha}

	ret, _, callErr := updateLayeredWindow.Call(
		hwnd, screenDC,
		uintptr(unsafe.Pointer(&pos)),
		uintptr(unsafe.Pointer(&sz)),
		memDC,
		uintptr(unsafe.Pointer(&origin)),
		0,
		uintptr(unsafe.Pointer(&blend)),
		ulwAlpha,
	)
	if ret == 0 {
		return fmt.Errorf("UpdateLayeredWindow: %w", callErr)
	}
	showWindow.Call(hwnd, swShowNoActivate)
	return nil
}
