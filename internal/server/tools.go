package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the argument shared by every image-addressed tool.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and channel layout.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate, including the grayscale value the wand tolerance operates on.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Wand Selection
		{
			Name:        "wand_select",
			Description: "Grow a region from a seed pixel using tolerance-based flood fill. Pixels join the region while their value (or color) stays within tolerance of the reference and, optionally, while the local gradient stays below the gradient tolerance. The result is stored as the image's current selection.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Seed X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Seed Y coordinate (0-based)",
					},
					"value_tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Maximum difference from the reference value. Defaults to the configured tolerance.",
					},
					"color_sensitivity": map[string]interface{}{
						"type":        "number",
						"description": "Color matching mode for RGB images: -1 brightness only, 0 Euclidean RGB, +1 hue only. Default from config.",
					},
					"gradient_tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Stop growth where the local gradient exceeds this value. 0 disables. Default from config.",
					},
					"connectivity": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"8-connected", "4-connected", "non-contiguous"},
						"description": "Neighbor traversal mode. non-contiguous selects all matching pixels regardless of adjacency.",
					},
					"include_holes": map[string]interface{}{
						"type":        "boolean",
						"description": "Fill interior holes of the grown region.",
					},
					"use_eyedropper": map[string]interface{}{
						"type":        "boolean",
						"description": "Use the foreground color set via wand_set_foreground as the reference instead of the seed pixel.",
					},
					"combine": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"replace", "union", "subtract"},
						"description": "How to combine with the image's existing selection (default replace).",
						"default":     "replace",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "wand_set_foreground",
			Description: "Set the eyedropper foreground color used by wand_select when use_eyedropper is true.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Reference color as #RRGGBB or #RRGGBBAA",
					},
				},
				"required": []string{"color"},
			},
		},
		{
			Name:        "wand_clear_foreground",
			Description: "Clear the eyedropper foreground color; wand_select reverts to seed-pixel references.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Thresholding
		{
			Name:        "image_set_threshold",
			Description: "Set an explicit value band for an image. wand_select then ignores value_tolerance and grows within the band; seeds outside it report not_in_thresholded_area.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"low": map[string]interface{}{
						"type":        "number",
						"description": "Lower band bound (inclusive)",
					},
					"high": map[string]interface{}{
						"type":        "number",
						"description": "Upper band bound (inclusive)",
					},
				},
				"required": []string{"path", "low", "high"},
			},
		},
		{
			Name:        "image_auto_threshold",
			Description: "Compute a threshold band with Otsu's method and activate it for the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"dark": map[string]interface{}{
						"type":        "boolean",
						"description": "Select the dark side of the cut as foreground (default true)",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_clear_threshold",
			Description: "Remove the active threshold band from an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Selection Operations
		{
			Name:        "selection_measure",
			Description: "Measure the image's current selection: area, perimeter, bounds, centroid, equivalent diameter and circularity, in calibrated units when configured.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "selection_render",
			Description: "Render the current selection over its image as base64 PNG, with an outline and optional translucent fill.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"outline_color": map[string]interface{}{
						"type":        "string",
						"description": "Boundary color as hex. Default from config.",
					},
					"fill_color": map[string]interface{}{
						"type":        "string",
						"description": "Fill color as hex with alpha; empty string disables fill. Default from config.",
					},
					"mask_only": map[string]interface{}{
						"type":        "boolean",
						"description": "Return a black-and-white mask instead of an overlay.",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "selection_crop",
			Description: "Crop the bounding rectangle of the current selection from its image and return it as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"mask_outside": map[string]interface{}{
						"type":        "boolean",
						"description": "Blank pixels outside the selection within the crop box",
						"default":     false,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "selection_clear",
			Description: "Discard the stored selection for an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Preprocessing
		{
			Name:        "image_despeckle",
			Description: "Apply a median filter to remove salt-and-pepper noise, returning the filtered image as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"radius": map[string]interface{}{
						"type":        "number",
						"description": "Median window radius in pixels (default 1, the classic 3x3 despeckle)",
						"default":     1,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_gradient_preview",
			Description: "Compute the image's gradient magnitudes as a grayscale preview plus statistics, for choosing a gradient tolerance.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
