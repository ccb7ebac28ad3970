// Package imaging provides the image plumbing around the recoloring engine.
//
// It decodes photographs and drawn masks from files or data URLs, rasterizes
// masks to the photo's resolution, samples colors, encodes previews, overlays
// selections and builds side-by-side comparison sheets. The recoloring math itself lives in package
// recolor; everything here is I/O and format handling.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Sources
//
// A Source is either a data URL ("data:image/png;base64,...") or a path on
// disk. Paths go through ImageCache; data URLs are decoded on every call.
// Remote URLs are rejected with ErrUnsupportedSource.
//
// # Mask Policy
//
// Masks are resized to the photo with nearest-neighbor sampling and then
// binarized: any sample with nonzero luminance is part of the wall.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are stateless.
//
// # Formats
//
// Decoding supports PNG, JPEG, GIF, BMP, TIFF and WEBP. JPEG input honors the
// EXIF orientation tag so phone photos come out upright. Encoding produces PNG
// or JPEG.
package imaging
