package imui

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/AllenDang/cimgui-go/imgui"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// ErrNoFont is returned if no font data was provided.
var ErrNoFont = errors.New("no font data")

type FontOptions struct {
	// pixel size of the font at a content scale of 1, defaults to 15
	Size float32
}

func (o FontOptions) withDefaults() FontOptions {
	if o.Size <= 0 {
		o.Size = 15
	}

	return o
}

// loadFont registers the font as the default font of the current imgui
// context. The atlas keeps referencing data, it is pinned until Destroy.
func (c *Context) loadFont(data []byte, opts FontOptions) error {
	if len(data) == 0 {
		return ErrNoFont
	}

	// imgui does not report broken fonts, it asserts
	parsed, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}

	name, err := parsed.Name(nil, sfnt.NameIDFull)
	if err != nil {
		name = "unknown"
	}

	c.pinner.Pin(&data[0])

	cfg := imgui.NewFontConfig()
	defer cfg.Destroy()

	cfg.SetFontDataOwnedByAtlas(false)
	cfg.SetSizePixels(opts.Size)

	atlas := imgui.CurrentIO().Fonts()
	atlas.SetTexDesiredFormat(imgui.TextureFormatRGBA32)
	atlas.AddFontFromMemoryTTFV(uintptr(unsafe.Pointer(&data[0])), int32(len(data)), opts.Size, cfg, nil)

	slog.Debug("Overlay font loaded",
		slog.String("name", name),
		slog.Float64("size", float64(opts.Size)),
	)

	return nil
}
