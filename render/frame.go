package render

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"image"
	"image/draw"

	"mcrender/internal/raster"
	"mcrender/internal/texture"
)

// frameSource adapts one animation frame of asset into the raster
// package's decoupled TextureSource, cropping the requested
// FrameHeight-tall strip out of the full vertical animation sheet
// texture.Repository.Get returns. A nil asset or a static (unanimated)
// asset just exposes the whole image as frame 0.
func frameSource(asset *texture.Asset, frameIndex int) raster.TextureSource {
	if asset == nil {
		return raster.TextureSource{}
	}
	if asset.Animation == nil || asset.Animation.FrameHeight <= 0 {
		return raster.TextureSource{Pix: asset.Pix, Width: asset.Width, Height: asset.Height}
	}

	fh := asset.Animation.FrameHeight
	top := frameIndex * fh
	if top < 0 || top+fh > asset.Pix.Bounds().Dy() {
		top = 0
	}
	cropped := image.NewRGBA(image.Rect(0, 0, asset.Width, fh))
	srcRect := image.Rect(asset.Pix.Bounds().Min.X, asset.Pix.Bounds().Min.Y+top, asset.Pix.Bounds().Min.X+asset.Width, asset.Pix.Bounds().Min.Y+top+fh)
	draw.Draw(cropped, cropped.Bounds(), asset.Pix, srcRect.Min, draw.Src)
	return raster.TextureSource{Pix: cropped, Width: asset.Width, Height: fh}
}

// contextBackground is the background context used for the
// synchronous player-skin fetches RenderItem triggers; a render call
// never outlives its own invocation so there is no cancellation to
// propagate in from a caller.
func contextBackground() context.Context {
	return context.Background()
}

// shortHash gives synthetic skull texture ids a short, deterministic
// suffix derived from the profile skin URL so repeated renders of the
// same skin reuse the same injected resource id.
func shortHash(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}
