package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sudotsu/paint-my-room-server/internal/imaging"
	"github.com/sudotsu/paint-my-room-server/internal/palette"
	"github.com/sudotsu/paint-my-room-server/internal/service"
)

// errInvalidArguments marks tool arguments that do not decode.
var errInvalidArguments = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "wall_recolor", "color_inspect").
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
// Undecodable params or arguments return -32602; any other tool failure
// returns -32000 with the error text as data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Info("tool failed",
			zap.String("tool", params.Name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		if errors.Is(err, errInvalidArguments) {
			return s.errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, CodeToolFailed, "Tool execution failed", err.Error())
	}
	s.log.Debug("tool done", zap.String("tool", params.Name), zap.Duration("elapsed", time.Since(start)))

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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Wall painting
	case "wall_recolor":
		return s.handleWallRecolor(ctx, args)
	case "wall_mask_preview":
		return s.handleWallMaskPreview(ctx, args)
	case "wall_compare":
		return s.handleWallCompare(ctx, args)
	case "wall_dominant_colors":
		return s.handleWallDominantColors(ctx, args)

	// Colors
	case "color_inspect":
		return s.handleColorInspect(args)

	case "health":
		return map[string]bool{"ok": true}, nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// decodeArgs unmarshals tool arguments; a missing arguments object counts as
// empty.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.svc.Cache(), a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.svc.Cache(), a.Path)
}

type imageSampleColorArgs struct {
	Image string `json:"image"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := imaging.LoadSource(s.svc.Cache(), a.Image)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === Wall Painting Handlers ===

func (s *Server) handleWallRecolor(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var req service.RenderRequest
	if err := decodeArgs(args, &req); err != nil {
		return nil, err
	}
	return s.svc.Render(ctx, req)
}

func (s *Server) handleWallMaskPreview(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var req service.MaskPreviewRequest
	if err := decodeArgs(args, &req); err != nil {
		return nil, err
	}
	return s.svc.MaskPreview(ctx, req)
}

func (s *Server) handleWallCompare(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var req service.RenderRequest
	if err := decodeArgs(args, &req); err != nil {
		return nil, err
	}
	return s.svc.Compare(ctx, req)
}

type wallDominantColorsArgs struct {
	Image string `json:"image"`
	Mask  string `json:"mask,omitempty"`
	Count int    `json:"count"`
}

func (s *Server) handleWallDominantColors(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a wallDominantColorsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	return s.svc.DominantWallColors(ctx, a.Image, a.Mask, a.Count)
}

// === Color Handlers ===

type colorInspectArgs struct {
	Hex        string `json:"hex"`
	CompareHex string `json:"compare_hex,omitempty"`
}

type colorInspectResult struct {
	palette.Swatch
	Compare *palette.Swatch `json:"compare,omitempty"`
	DeltaE  *float64        `json:"delta_e,omitempty"`
}

func (s *Server) handleColorInspect(args json.RawMessage) (interface{}, error) {
	var a colorInspectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	c, err := palette.ParseHex(a.Hex)
	if err != nil {
		return nil, err
	}

	res := colorInspectResult{Swatch: palette.Inspect(c)}
	if a.CompareHex != "" {
		other, err := palette.ParseHex(a.CompareHex)
		if err != nil {
			return nil, fmt.Errorf("compare_hex: %w", err)
		}
		sw := palette.Inspect(other)
		d := palette.DeltaE(c, other)
		res.Compare = &sw
		res.DeltaE = &d
	}
	return res, nil
}

