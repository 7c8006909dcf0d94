package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
)

// createTestImageFile writes a grayscale image split into a dark left half
// (value 40) and a bright right half (value 200) and returns its path.
func createTestImageFile(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(40)
			if x >= width/2 {
				v = 200
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}

	tmpFile, err := os.CreateTemp("", "handler-test-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

// callTool executes a tool directly and fails the test on error.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) interface{} {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}
	result, err := s.executeTool(name, raw)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	return result
}

func TestWandSelect(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 20, 10)
	defer os.Remove(path)

	result := callTool(t, s, "wand_select", map[string]interface{}{
		"path": path, "x": 2, "y": 5,
	})

	sel, ok := result.(*WandSelectResult)
	if !ok {
		t.Fatalf("result type: %T", result)
	}
	if sel.Status != "ok" {
		t.Fatalf("status: got %q, want ok", sel.Status)
	}
	// Default tolerance 20 keeps the selection in the dark half.
	if sel.AreaPixels != 100 {
		t.Errorf("area: got %d, want 100", sel.AreaPixels)
	}
	if sel.Bounds == nil || sel.Bounds.Width != 10 || sel.Bounds.Height != 10 {
		t.Errorf("bounds: got %+v, want 10x10", sel.Bounds)
	}
	if len(sel.Polygons) == 0 {
		t.Error("no polygons returned")
	}
	if sel.Measurements == nil || sel.Measurements.AreaPixels != 100 {
		t.Error("measurements missing or inconsistent")
	}

	// The selection is stored for follow-up operations.
	if _, err := s.currentSelection(path); err != nil {
		t.Errorf("selection not stored: %v", err)
	}
}

func TestWandSelect_Overrides(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 20, 10)
	defer os.Remove(path)

	// A tolerance wide enough to cross the step engulfs the whole image.
	result := callTool(t, s, "wand_select", map[string]interface{}{
		"path": path, "x": 2, "y": 5, "value_tolerance": 250,
	})
	if sel := result.(*WandSelectResult); sel.AreaPixels != 200 {
		t.Errorf("area: got %d, want 200", sel.AreaPixels)
	}
}

func TestWandSelect_CombineUnionSubtract(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 20, 10)
	defer os.Remove(path)

	first := callTool(t, s, "wand_select", map[string]interface{}{
		"path": path, "x": 2, "y": 5,
	}).(*WandSelectResult)
	if first.AreaPixels != 100 {
		t.Fatalf("first area: got %d, want 100", first.AreaPixels)
	}

	union := callTool(t, s, "wand_select", map[string]interface{}{
		"path": path, "x": 15, "y": 5, "combine": "union",
	}).(*WandSelectResult)
	if union.AreaPixels != 200 {
		t.Errorf("union area: got %d, want 200", union.AreaPixels)
	}

	diff := callTool(t, s, "wand_select", map[string]interface{}{
		"path": path, "x": 15, "y": 5, "combine": "subtract",
	}).(*WandSelectResult)
	if diff.AreaPixels != 100 {
		t.Errorf("subtract area: got %d, want 100", diff.AreaPixels)
	}
}

func TestWandSelect_SubtractWithoutSelection(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 8, 8)
	defer os.Remove(path)

	raw, _ := json.Marshal(map[string]interface{}{
		"path": path, "x": 1, "y": 1, "combine": "subtract",
	})
	if _, err := s.executeTool("wand_select", raw); err == nil {
		t.Error("expected error subtracting with no stored selection")
	}
}

func TestWandSelect_ThresholdGuard(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 20, 10)
	defer os.Remove(path)

	callTool(t, s, "image_set_threshold", map[string]interface{}{
		"path": path, "low": 0, "high": 100,
	})

	// Seeding in the bright half is outside the band: a status result,
	// not a protocol error.
	result := callTool(t, s, "wand_select", map[string]interface{}{
		"path": path, "x": 15, "y": 5,
	})
	sel := result.(*WandSelectResult)
	if sel.Status != "not_in_thresholded_area" {
		t.Fatalf("status: got %q, want not_in_thresholded_area", sel.Status)
	}
	if sel.AreaPixels != 0 || sel.Polygons != nil {
		t.Error("guard result carries selection data")
	}

	// Seeding in the dark half grows to the band, ignoring tolerance.
	result = callTool(t, s, "wand_select", map[string]interface{}{
		"path": path, "x": 2, "y": 5, "value_tolerance": 0,
	})
	if sel := result.(*WandSelectResult); sel.Status != "ok" || sel.AreaPixels != 100 {
		t.Errorf("banded select: got status=%q area=%d, want ok/100", sel.Status, sel.AreaPixels)
	}

	// Clearing the threshold restores tolerance-based growth.
	callTool(t, s, "image_clear_threshold", map[string]interface{}{"path": path})
	result = callTool(t, s, "wand_select", map[string]interface{}{
		"path": path, "x": 15, "y": 5,
	})
	if sel := result.(*WandSelectResult); sel.Status != "ok" {
		t.Errorf("status after clear: got %q, want ok", sel.Status)
	}
}

func TestAutoThreshold(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 20, 10)
	defer os.Remove(path)

	callTool(t, s, "image_auto_threshold", map[string]interface{}{"path": path})

	s.mu.Lock()
	band, ok := s.thresholds[path]
	s.mu.Unlock()
	if !ok {
		t.Fatal("auto threshold did not activate a band")
	}
	if !band.Contains(40) || band.Contains(200) {
		t.Errorf("band %+v does not isolate the dark half", band)
	}
}

func TestForegroundLifecycle(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 20, 10)
	defer os.Remove(path)

	// Eyedropper without a foreground is an error.
	raw, _ := json.Marshal(map[string]interface{}{
		"path": path, "x": 2, "y": 5, "use_eyedropper": true,
	})
	if _, err := s.executeTool("wand_select", raw); err == nil {
		t.Error("expected error for eyedropper without foreground")
	}

	// Gray 40 matches the dark half exactly.
	callTool(t, s, "wand_set_foreground", map[string]interface{}{"color": "#282828"})
	result := callTool(t, s, "wand_select", map[string]interface{}{
		"path": path, "x": 2, "y": 5, "use_eyedropper": true, "value_tolerance": 5,
	})
	if sel := result.(*WandSelectResult); sel.AreaPixels != 100 {
		t.Errorf("eyedropper select area: got %d, want 100", sel.AreaPixels)
	}

	callTool(t, s, "wand_clear_foreground", nil)
	if _, err := s.executeTool("wand_select", raw); err == nil {
		t.Error("expected error after clearing foreground")
	}
}

func TestSelectionOperations(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 20, 10)
	defer os.Remove(path)

	callTool(t, s, "wand_select", map[string]interface{}{
		"path": path, "x": 2, "y": 5,
	})

	measure := callTool(t, s, "selection_measure", map[string]interface{}{"path": path})
	measured, _ := json.Marshal(measure)
	var fields map[string]interface{}
	if err := json.Unmarshal(measured, &fields); err != nil {
		t.Fatalf("measure result not JSON-serializable: %v", err)
	}
	if fields["area_pixels"].(float64) != 100 {
		t.Errorf("measured area: got %v, want 100", fields["area_pixels"])
	}

	callTool(t, s, "selection_render", map[string]interface{}{"path": path})
	callTool(t, s, "selection_render", map[string]interface{}{"path": path, "mask_only": true})
	callTool(t, s, "selection_crop", map[string]interface{}{"path": path})

	callTool(t, s, "selection_clear", map[string]interface{}{"path": path})
	raw, _ := json.Marshal(map[string]interface{}{"path": path})
	if _, err := s.executeTool("selection_measure", raw); err == nil {
		t.Error("expected error measuring a cleared selection")
	}
}

func TestPreprocessingTools(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 20, 10)
	defer os.Remove(path)

	callTool(t, s, "image_despeckle", map[string]interface{}{"path": path})
	callTool(t, s, "image_gradient_preview", map[string]interface{}{"path": path})
	callTool(t, s, "image_sample_color", map[string]interface{}{"path": path, "x": 0, "y": 0})
}

func TestExecuteTool_Unknown(t *testing.T) {
	s := New(nil)
	if _, err := s.executeTool("no_such_tool", nil); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New(nil)

	params, _ := json.Marshal(map[string]interface{}{
		"name":      "image_load",
		"arguments": map[string]interface{}{"path": "/nonexistent/image.png"},
	})
	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 1, Params: params})

	if resp.Error == nil {
		t.Fatal("expected error for missing file")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_Success(t *testing.T) {
	s := New(nil)
	path := createTestImageFile(t, 20, 10)
	defer os.Remove(path)

	params, _ := json.Marshal(map[string]interface{}{
		"name":      "wand_select",
		"arguments": map[string]interface{}{"path": path, "x": 2, "y": 5},
	})
	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 7, Params: params})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error)
	}
	result := resp.Result.(map[string]interface{})
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %T", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
}
