package analysis

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math"
)

// polarSurfSize is the edge length of the rendered polar surface raster.
const polarSurfSize = 256

// polarSurfPNG renders the upper-hemisphere pattern as a small top-down
// grayscale raster (sin-space projection, white at the peak, black at the
// display floor) and returns it base64-encoded.  It stands in for the
// server-side figure the endpoint historically returned; clients that want
// full rendering use the contour or polar3d payloads instead.
func (a *PlanarArray) polarSurfPNG() string {
	peak := patternPeak(a.pattern)
	floor := peak - gRangeDB

	img := image.NewGray(image.Rect(0, 0, polarSurfSize, polarSurfSize))
	half := float64(polarSurfSize-1) / 2
	for py := 0; py < polarSurfSize; py++ {
		for px := 0; px < polarSurfSize; px++ {
			// Pixel to direction cosines u = sinθcosφ, v = sinθsinφ.
			u := (float64(px) - half) / half
			v := (half - float64(py)) / half
			r := math.Hypot(u, v)
			if r > 1 {
				continue
			}
			theta := math.Asin(r) * 180 / math.Pi
			phi := math.Atan2(v, u) * 180 / math.Pi
			if phi < 0 {
				phi += 360
			}
			g := a.pattern[a.phiIdx(phi)][a.thetaIdx(theta)]
			if g < floor {
				g = floor
			}
			img.SetGray(px, py, color.Gray{Y: uint8((g - floor) / gRangeDB * 255)})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
