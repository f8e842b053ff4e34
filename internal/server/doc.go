// Package server implements the MCP (Model Context Protocol) server that
// exposes the inspection pipeline for single images.
//
// It lets an MCP client check a still image the way the inspection loop
// checks a camera frame, or tune thresholds on a saved frame before changing
// the station configuration.
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
//   - image_load: Load image and get metadata
//   - inspect_image: One inspection cycle on the centered box
//   - classify_color: Label an 8-bit HSV color
//   - detect_shapes: Classify the boundaries of an image or region
//   - edge_map: The edge image the shape detector traces
//   - center_box: The centered inspection box as PNG
//
// # Image Caching
//
// Images are cached by path and reused across tool calls for the lifetime
// of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(logger, version)
//	if err := srv.Run(os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
