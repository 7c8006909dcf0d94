// Package imaging provides the image handling layer for the wand MCP server.
//
// This package covers everything around the region grower itself: loading and
// caching images, sampling colors, preprocessing (despeckle, automatic
// thresholding, gradient previews) and turning wand selections into rendered
// overlays, crops and measurements. All operations work with standard Go
// image.Image types and use a coordinate system where (0,0) is at the
// top-left corner, X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Coordinates are inclusive for single points
//
// # Thread Safety
//
// The Store type is safe for concurrent use. Individual image operations are
// stateless and can be called concurrently on different images.
//
// # Output Encoding
//
// Operations that produce images (RenderSelection, CropSelection, Despeckle,
// GradientPreview) return them as base64-encoded PNG so results can travel
// inside a JSON-RPC response without a filesystem round trip.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Selections whose dimensions do not match the image
//   - File I/O errors during image loading
//   - Encoding errors during image output
package imaging
