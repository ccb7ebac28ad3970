package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func propDefault(typ, description string, def interface{}) map[string]interface{} {
	p := prop(typ, description)
	p["default"] = def
	return p
}

const (
	imageSourceDesc = "Room photo: a data URL (data:image/jpeg;base64,...) or an absolute file path"
	maskSourceDesc  = "Wall selection drawn over the photo, same forms as image. Any non-black pixel marks wall; it is resized to the photo"
)

// renderProperties are shared by wall_recolor and wall_compare.
func renderProperties() map[string]interface{} {
	return map[string]interface{}{
		"image":          prop("string", imageSourceDesc),
		"mask":           prop("string", maskSourceDesc),
		"wall_hex":       prop("string", "Paint color for the wall as #RRGGBB or #RGB"),
		"trim_hex":       prop("string", "Trim color shown as a second swatch. Defaults to the configured trim (#1E1E1E)"),
		"brand":          prop("string", "Paint brand label echoed in the result. Defaults to the configured brand"),
		"strength":       propDefault("number", "How far wall chroma moves toward the paint, 0-1. Lightness is always kept", 0.9),
		"feather_radius": propDefault("number", "Soft edge width in pixels at the mask boundary; 0 gives a hard edge", 3.6),
		"graded_mask":    propDefault("boolean", "Treat gray mask values as partial coverage instead of full", false),
		"format":         propDefault("string", "Output encoding: jpeg or png", "jpeg"),
		"quality":        propDefault("integer", "JPEG quality 1-100", 92),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and color depth. The image stays cached for later calls using the same path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": prop("string", "Absolute path to the image file"),
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
					"path": prop("string", "Absolute path to the image file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel as hex, RGB, HSL and CIE Lab. Use it to read the current wall color at a point.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": prop("string", imageSourceDesc),
					"x":     prop("integer", "X coordinate (0-based, from left)"),
					"y":     prop("integer", "Y coordinate (0-based, from top)"),
				},
				"required": []string{"image", "x", "y"},
			},
		},

		// Wall painting
		{
			Name:        "wall_recolor",
			Description: "Preview a paint color on the masked wall. Hue and saturation follow the paint while the photo's lightness (shadows, texture, lighting) is kept. Returns the preview image base64-encoded.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProperties(),
				"required":   []string{"image", "mask", "wall_hex"},
			},
		},
		{
			Name:        "wall_mask_preview",
			Description: "Show what a recolor would paint: the feathered mask as a grayscale PNG (white = fully painted) and optionally the selection tinted over the photo.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image":          prop("string", imageSourceDesc),
					"mask":           prop("string", maskSourceDesc),
					"feather_radius": propDefault("number", "Soft edge width in pixels", 3.6),
					"graded_mask":    propDefault("boolean", "Treat gray mask values as partial coverage", false),
					"overlay":        propDefault("boolean", "Also return the selection drawn over the photo", false),
					"tint_hex":       propDefault("string", "Overlay tint color", "#FF00FF"),
				},
				"required": []string{"image", "mask"},
			},
		},
		{
			Name:        "wall_compare",
			Description: "Render a paint plan sheet: the original photo and the recolored preview side by side, with wall and trim swatches below.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProperties(),
				"required":   []string{"image", "mask", "wall_hex"},
			},
		},
		{
			Name:        "wall_dominant_colors",
			Description: "List the most common colors inside the wall mask, i.e. the wall's current paint. Without a mask the whole photo is counted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": prop("string", imageSourceDesc),
					"mask":  prop("string", maskSourceDesc),
					"count": propDefault("integer", "Number of colors to return", 5),
				},
				"required": []string{"image"},
			},
		},

		// Colors
		{
			Name:        "color_inspect",
			Description: "Describe a paint color as RGB, CIE Lab and LCh. With compare_hex, also report the CIEDE2000 difference (about 1 is barely visible, above 5 is clearly different).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hex":         prop("string", "Color as #RRGGBB or #RGB"),
					"compare_hex": prop("string", "Optional second color to compare against"),
				},
				"required": []string{"hex"},
			},
		},
		{
			Name:        "health",
			Description: "Report that the server is up.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
