package imui

import (
	"fmt"
	"log/slog"

	"github.com/AllenDang/cimgui-go/imgui"
)

// textureBackend stores the pixels of imgui textures on the gpu.
type textureBackend interface {
	createTexture(tex *imgui.TextureData) (imgui.TextureID, error)
	updateTexture(id imgui.TextureID, tex *imgui.TextureData) error
	destroyTexture(id imgui.TextureID)
}

// textureSync applies the texture requests of imgui to a backend. imgui
// creates the font atlas lazily and replaces it when it needs to grow.
type textureSync struct {
	backend textureBackend

	// by unique id of the texture
	tracked map[int32]*imgui.TextureData
}

func newTextureSync(backend textureBackend) *textureSync {
	return &textureSync{
		backend: backend,
		tracked: map[int32]*imgui.TextureData{},
	}
}

func (s *textureSync) sync(atlas *imgui.TextureData) error {
	if atlas != nil && atlas.CData != nil {
		if _, ok := s.tracked[atlas.UniqueID()]; !ok {
			s.tracked[atlas.UniqueID()] = atlas
		}
	}

	for uniqueID, tex := range s.tracked {
		switch tex.Status() {
		case imgui.TextureStatusOK:
			// uploaded

		case imgui.TextureStatusWantCreate:
			slog.Debug("Create overlay texture",
				slog.Int("width", int(tex.Width())),
				slog.Int("height", int(tex.Height())),
			)

			id, err := s.backend.createTexture(tex)
			if err != nil {
				return fmt.Errorf("create texture %d: %w", uniqueID, err)
			}

			tex.SetTexID(id)
			tex.SetStatus(imgui.TextureStatusOK)

		case imgui.TextureStatusWantUpdates:
			if err := s.backend.updateTexture(tex.TexID(), tex); err != nil {
				return fmt.Errorf("update texture %d: %w", uniqueID, err)
			}

			tex.SetStatus(imgui.TextureStatusOK)

		case imgui.TextureStatusWantDestroy:
			// may still be referenced by the frame in flight
			if tex.UnusedFrames() == 0 {
				continue
			}

			s.backend.destroyTexture(tex.TexID())

			tex.SetTexID(0)
			tex.SetStatus(imgui.TextureStatusDestroyed)
			delete(s.tracked, uniqueID)

		case imgui.TextureStatusDestroyed:
			delete(s.tracked, uniqueID)
		}
	}

	return nil
}

// texturePixels returns the rgba pixels of the texture.
func texturePixels(tex *imgui.TextureData) ([]byte, error) {
	if tex.Format() != imgui.TextureFormatRGBA32 {
		return nil, fmt.Errorf("unsupported texture format %d", tex.Format())
	}

	return unsafeBytes(tex.Pixels(), int(tex.SizeInBytes())), nil
}
