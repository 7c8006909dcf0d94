// Package server implements the MCP (Model Context Protocol) server for the
// wand selection tools.
//
// This package provides a JSON-RPC 2.0 server that exposes tolerance-based
// region growing ("magic wand" selection) and its supporting image operations
// through the MCP protocol. It's designed to work with Claude and other
// MCP-compatible clients, enabling AI systems to segment and measure image
// regions with precision.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_sample_color: Get color at pixel
//
// Wand Selection:
//   - wand_select: Grow a region from a seed pixel; combine modes
//     replace/union/subtract accumulate a per-image selection
//   - wand_set_foreground: Set the eyedropper reference color
//   - wand_clear_foreground: Revert to seed-pixel references
//
// Thresholding:
//   - image_set_threshold: Set an explicit value band for an image
//   - image_auto_threshold: Compute a band with Otsu's method
//   - image_clear_threshold: Remove the active band
//
// Selection Operations:
//   - selection_measure: Area, perimeter, centroid, shape descriptors
//   - selection_render: Overlay the selection on its image
//   - selection_crop: Extract the selection's bounding box
//   - selection_clear: Discard the stored selection
//
// Preprocessing:
//   - image_despeckle: Median-filter noise removal
//   - image_gradient_preview: Gradient magnitudes for tolerance tuning
//
// # Per-Image State
//
// The server keeps three pieces of state keyed by image path: the decoded
// image (cache), the active threshold band, and the current selection.
// Selections built up with union/subtract survive until selection_clear or
// server shutdown. The eyedropper foreground is global.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000. One condition is deliberately NOT an error: seeding wand_select
// outside the active threshold band returns a result with status
// "not_in_thresholded_area", since it is an expected interactive outcome
// rather than a failure.
package server
