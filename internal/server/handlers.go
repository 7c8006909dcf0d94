package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/particlekit/wand-tools-mcp/internal/imaging"
	"github.com/particlekit/wand-tools-mcp/internal/wand"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "wand_select", "selection_measure").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Wand Selection
	case "wand_select":
		return s.handleWandSelect(args)
	case "wand_set_foreground":
		return s.handleWandSetForeground(args)
	case "wand_clear_foreground":
		return s.handleWandClearForeground(args)

	// Thresholding
	case "image_set_threshold":
		return s.handleSetThreshold(args)
	case "image_auto_threshold":
		return s.handleAutoThreshold(args)
	case "image_clear_threshold":
		return s.handleClearThreshold(args)

	// Selection Operations
	case "selection_measure":
		return s.handleSelectionMeasure(args)
	case "selection_render":
		return s.handleSelectionRender(args)
	case "selection_crop":
		return s.handleSelectionCrop(args)
	case "selection_clear":
		return s.handleSelectionClear(args)

	// Preprocessing
	case "image_despeckle":
		return s.handleDespeckle(args)
	case "image_gradient_preview":
		return s.handleGradientPreview(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.store, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.store, a.Path)
}

type sampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === Wand Selection Handlers ===

type wandSelectArgs struct {
	Path              string   `json:"path"`
	X                 int      `json:"x"`
	Y                 int      `json:"y"`
	ValueTolerance    *float64 `json:"value_tolerance"`
	ColorSensitivity  *float64 `json:"color_sensitivity"`
	GradientTolerance *float64 `json:"gradient_tolerance"`
	Connectivity      string   `json:"connectivity"`
	IncludeHoles      *bool    `json:"include_holes"`
	UseEyedropper     bool     `json:"use_eyedropper"`
	Combine           string   `json:"combine"`
}

// WandSelectResult reports the outcome of a wand_select call.
//
// Status is "ok" for a successful selection and "not_in_thresholded_area"
// when the seed (or eyedropper reference) falls outside the image's active
// threshold band; the latter carries no selection data and leaves any stored
// selection untouched.
type WandSelectResult struct {
	Status       string                 `json:"status"`
	AreaPixels   int                    `json:"area_pixels,omitempty"`
	PolygonCount int                    `json:"polygon_count,omitempty"`
	Bounds       *imaging.BoundsResult  `json:"bounds,omitempty"`
	Polygons     []wand.Polygon         `json:"polygons,omitempty"`
	Measurements *imaging.MeasureResult `json:"measurements,omitempty"`
}

func (s *Server) handleWandSelect(args json.RawMessage) (interface{}, error) {
	var a wandSelectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}

	p, err := s.cfg.WandParams()
	if err != nil {
		return nil, err
	}
	if a.ValueTolerance != nil {
		p.ValueTolerance = *a.ValueTolerance
	}
	if a.ColorSensitivity != nil {
		p.ColorSensitivity = *a.ColorSensitivity
	}
	if a.GradientTolerance != nil {
		p.GradientTolerance = *a.GradientTolerance
	}
	if a.Connectivity != "" {
		conn, err := wand.ParseConnectivity(a.Connectivity)
		if err != nil {
			return nil, err
		}
		p.Connectivity = conn
	}
	if a.IncludeHoles != nil {
		p.IncludeHoles = *a.IncludeHoles
	}

	s.mu.Lock()
	band, hasBand := s.thresholds[a.Path]
	foreground := s.foreground
	s.mu.Unlock()

	if a.UseEyedropper {
		if foreground == nil {
			return nil, fmt.Errorf("use_eyedropper requires a foreground color; call wand_set_foreground first")
		}
		p.UseEyedropper = true
		p.Foreground = foreground
	}

	cal := s.cfg.WandCalibration()
	var bandPtr *wand.Band
	if hasBand {
		bandPtr = &band
	}
	src := wand.NewSource(img, cal, bandPtr)

	sel, err := wand.Grow(context.Background(), src, a.X, a.Y, p, nil)
	if errors.Is(err, wand.ErrNotInThresholdedArea) {
		return &WandSelectResult{Status: "not_in_thresholded_area"}, nil
	}
	if err != nil {
		return nil, err
	}

	combined, err := s.combineSelection(a.Path, sel, a.Combine)
	if err != nil {
		return nil, err
	}

	box := combined.Bounds()
	return &WandSelectResult{
		Status:       "ok",
		AreaPixels:   combined.Area(),
		PolygonCount: len(combined.Polygons()),
		Bounds:       &imaging.BoundsResult{X: box.Min.X, Y: box.Min.Y, Width: box.Dx(), Height: box.Dy()},
		Polygons:     combined.Polygons(),
		Measurements: imaging.MeasureSelection(combined, cal),
	}, nil
}

// combineSelection merges a freshly grown selection with the image's stored
// one and updates the store. An empty mode means replace.
func (s *Server) combineSelection(path string, sel *wand.Selection, mode string) (*wand.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.selections[path]
	switch mode {
	case "", "replace":
	case "union":
		if existing != nil {
			merged, err := existing.Union(sel)
			if err != nil {
				return nil, err
			}
			sel = merged
		}
	case "subtract":
		if existing == nil {
			return nil, fmt.Errorf("subtract requires an existing selection for %s", path)
		}
		remaining, err := existing.Subtract(sel)
		if err != nil {
			return nil, err
		}
		sel = remaining
	default:
		return nil, fmt.Errorf("unknown combine mode %q", mode)
	}

	s.selections[path] = sel
	return sel, nil
}

type setForegroundArgs struct {
	Color string `json:"color"`
}

func (s *Server) handleWandSetForeground(args json.RawMessage) (interface{}, error) {
	var a setForegroundArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	c, err := imaging.ParseColor(a.Color)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.foreground = c
	s.mu.Unlock()

	return map[string]interface{}{"status": "ok", "foreground": a.Color}, nil
}

func (s *Server) handleWandClearForeground(json.RawMessage) (interface{}, error) {
	s.mu.Lock()
	s.foreground = nil
	s.mu.Unlock()
	return map[string]interface{}{"status": "ok"}, nil
}

// === Thresholding Handlers ===

type setThresholdArgs struct {
	Path string  `json:"path"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

func (s *Server) handleSetThreshold(args json.RawMessage) (interface{}, error) {
	var a setThresholdArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Low > a.High {
		return nil, fmt.Errorf("threshold band [%g, %g] is inverted", a.Low, a.High)
	}
	if _, err := s.store.Load(a.Path); err != nil {
		return nil, err
	}

	band := wand.Band{Low: a.Low, High: a.High}
	s.mu.Lock()
	s.thresholds[a.Path] = band
	s.mu.Unlock()

	return map[string]interface{}{"status": "ok", "band": band}, nil
}

type autoThresholdArgs struct {
	Path string `json:"path"`
	Dark *bool  `json:"dark"`
}

func (s *Server) handleAutoThreshold(args json.RawMessage) (interface{}, error) {
	var a autoThresholdArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}

	dark := true
	if a.Dark != nil {
		dark = *a.Dark
	}
	result, err := imaging.OtsuThreshold(img, dark)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.thresholds[a.Path] = result.Band
	s.mu.Unlock()

	return result, nil
}

func (s *Server) handleClearThreshold(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.thresholds, a.Path)
	s.mu.Unlock()

	return map[string]interface{}{"status": "ok"}, nil
}

// === Selection Operation Handlers ===

// currentSelection fetches the stored selection for a path.
func (s *Server) currentSelection(path string) (*wand.Selection, error) {
	s.mu.Lock()
	sel := s.selections[path]
	s.mu.Unlock()
	if sel == nil {
		return nil, fmt.Errorf("no selection for %s; call wand_select first", path)
	}
	return sel, nil
}

func (s *Server) handleSelectionMeasure(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sel, err := s.currentSelection(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.MeasureSelection(sel, s.cfg.WandCalibration()), nil
}

type selectionRenderArgs struct {
	Path         string  `json:"path"`
	OutlineColor *string `json:"outline_color"`
	FillColor    *string `json:"fill_color"`
	MaskOnly     bool    `json:"mask_only"`
}

func (s *Server) handleSelectionRender(args json.RawMessage) (interface{}, error) {
	var a selectionRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sel, err := s.currentSelection(a.Path)
	if err != nil {
		return nil, err
	}
	if a.MaskOnly {
		return imaging.MaskImage(sel)
	}

	img, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	outline := s.cfg.Render.OutlineColor
	if a.OutlineColor != nil {
		outline = *a.OutlineColor
	}
	fill := s.cfg.Render.FillColor
	if a.FillColor != nil {
		fill = *a.FillColor
	}
	return imaging.RenderSelection(img, sel, outline, fill)
}

type selectionCropArgs struct {
	Path        string  `json:"path"`
	MaskOutside bool    `json:"mask_outside"`
	Scale       float64 `json:"scale"`
}

func (s *Server) handleSelectionCrop(args json.RawMessage) (interface{}, error) {
	var a selectionCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sel, err := s.currentSelection(a.Path)
	if err != nil {
		return nil, err
	}
	img, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	return imaging.CropSelection(img, sel, a.MaskOutside, a.Scale)
}

func (s *Server) handleSelectionClear(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.selections, a.Path)
	s.mu.Unlock()

	return map[string]interface{}{"status": "ok"}, nil
}

// === Preprocessing Handlers ===

type despeckleArgs struct {
	Path   string  `json:"path"`
	Radius float64 `json:"radius"`
}

func (s *Server) handleDespeckle(args json.RawMessage) (interface{}, error) {
	var a despeckleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Radius == 0 {
		a.Radius = 1
	}
	return imaging.Despeckle(img, a.Radius)
}

func (s *Server) handleGradientPreview(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.store.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.GradientPreview(img)
}
