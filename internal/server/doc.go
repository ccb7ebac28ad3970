// Package server implements the MCP (Model Context Protocol) server for paint
// previews.
//
// The server speaks JSON-RPC 2.0 and exposes the recoloring pipeline as tools
// so an assistant can try paint colors on a room photo for a user.
//
// # Protocol
//
// The server communicates over stdio:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//   - Logs: stderr only, so stdout stays a clean protocol stream
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Liveness check
//
// Notifications (methods under notifications/) are accepted and never
// answered.
//
// # Available Tools
//
// Image information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_sample_color: Color at a pixel, including CIE Lab
//
// Wall painting:
//   - wall_recolor: Preview a paint color on the masked wall
//   - wall_mask_preview: Show the feathered mask and selection overlay
//   - wall_compare: Original and preview side by side with swatches
//   - wall_dominant_colors: Current colors inside the mask
//
// Colors:
//   - color_inspect: Describe a color, optionally compare two (CIEDE2000)
//   - health: Liveness as a tool
//
// # Image Sources
//
// Photos and masks are passed as data URLs or file paths. Decoded files are
// cached by the service (limits.cache_entries, revalidated when the file
// changes); data URLs are decoded per call. A request line may be up to
// limits.max_request_bytes long. Longer lines are dropped and answered with
// an Invalid Request error (-32600) without ending the session.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses:
//   - -32600: request line longer than limits.max_request_bytes
//   - -32601: unknown method
//   - -32602: params or tool arguments that do not decode
//   - -32000: tool execution failure, with the Go error string as data
//
// # Usage
//
//	svc := service.New(cfg, logger)
//	srv := server.New(svc, logger)
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal("server stopped", zap.Error(err))
//	}
package server
