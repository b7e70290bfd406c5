// Package sdlvideo presents a System's frame buffer in an SDL2 window.
// It is deliberately console-agnostic: any System exposing FrameBuffer/
// FrameWidth/FrameHeight can be displayed, the same way the teacher's
// various gui/sdl* packages each wrap a single television.Television
// but share the same present-a-packed-pixel-buffer shape.
package sdlvideo

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// Source is the subset of a system.System a Display needs.
type Source interface {
	FrameBuffer() []uint32
	FrameWidth() int
	FrameHeight() int
}

// Display owns an SDL window, renderer and streaming texture sized to
// one console's frame buffer.
type Display struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	width, height int
	pixels        []byte // scratch buffer for the per-frame uint32->byte conversion
}

// NewDisplay opens a window scaled by the given integer factor and
// sized to src's current frame dimensions.
func NewDisplay(title string, src Source, scale int32) (*Display, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdlvideo: %w", err)
	}

	w, h := int32(src.FrameWidth()), int32(src.FrameHeight())

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		w*scale, h*scale, sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, fmt.Errorf("sdlvideo: create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		return nil, fmt.Errorf("sdlvideo: create renderer: %w", err)
	}

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, w, h)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, fmt.Errorf("sdlvideo: create texture: %w", err)
	}

	return &Display{
		window:   window,
		renderer: renderer,
		texture:  texture,
		width:    int(w),
		height:   int(h),
		pixels:   make([]byte, int(w)*int(h)*4),
	}, nil
}

// Present converts src's packed 0xRRGGBB frame buffer into the
// texture's ARGB8888 byte layout (little-endian: B,G,R,A per pixel)
// and presents it.
func (d *Display) Present(src Source) error {
	frame := src.FrameBuffer()
	for i, px := range frame {
		o := i * 4
		d.pixels[o+0] = byte(px)
		d.pixels[o+1] = byte(px >> 8)
		d.pixels[o+2] = byte(px >> 16)
		d.pixels[o+3] = 0xff
	}

	if err := d.texture.Update(nil, d.pixels, d.width*4); err != nil {
		return fmt.Errorf("sdlvideo: update texture: %w", err)
	}
	if err := d.renderer.Clear(); err != nil {
		return fmt.Errorf("sdlvideo: clear: %w", err)
	}
	if err := d.renderer.Copy(d.texture, nil, nil); err != nil {
		return fmt.Errorf("sdlvideo: copy: %w", err)
	}
	d.renderer.Present()
	return nil
}

// PollQuit drains the SDL event queue, reporting whether a quit request
// (window close or Escape) was seen.
func (d *Display) PollQuit() bool {
	for {
		ev := sdl.PollEvent()
		if ev == nil {
			return false
		}
		switch e := ev.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if e.Keysym.Sym == sdl.K_ESCAPE && e.State == sdl.PRESSED {
				return true
			}
		}
	}
}

// Close releases the window, renderer and texture.
func (d *Display) Close() {
	d.texture.Destroy()
	d.renderer.Destroy()
	d.window.Destroy()
}
