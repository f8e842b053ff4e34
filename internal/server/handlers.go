package server

import (
	"encoding/json"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/ironsheep/part-inspector/internal/detection"
	inspimg "github.com/ironsheep/part-inspector/internal/imaging"
)

// defaultBoxSize is the inspection box used when a call does not name one.
const defaultBoxSize = 200

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "inspect_image", "classify_color").
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
		s.logger.Debugw("tool failed", "tool", params.Name, "error", err)
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
	case "image_load":
		return s.handleImageLoad(args)
	case "inspect_image":
		return s.handleInspectImage(args)
	case "classify_color":
		return s.handleClassifyColor(args)
	case "detect_shapes":
		return s.handleDetectShapes(args)
	case "edge_map":
		return s.handleEdgeMap(args)
	case "center_box":
		return s.handleCenterBox(args)
	default:
		return nil, errors.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	resp := &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
		},
	}
	if data != "" {
		resp.Error.Data = data
	}
	return resp
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments; absent arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(args, v), "invalid arguments")
}

// thresholdArgs are the optional Canny thresholds shared by several tools.
type thresholdArgs struct {
	ThresholdLow  int `json:"threshold_low"`
	ThresholdHigh int `json:"threshold_high"`
}

func (a thresholdArgs) options() detection.Options {
	opts := detection.DefaultOptions()
	if a.ThresholdLow != 0 {
		opts.ThresholdLow = a.ThresholdLow
	}
	if a.ThresholdHigh != 0 {
		opts.ThresholdHigh = a.ThresholdHigh
	}
	return opts
}

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return inspimg.LoadImageInfo(s.cache, a.Path)
}

// InspectionResult is the outcome of inspect_image.
type InspectionResult struct {
	// Box is the inspection box in image coordinates (X2, Y2 exclusive).
	Box detection.Bounds `json:"box"`

	// Profile is the masked mean color of the box.
	Profile inspimg.ProfileResult `json:"profile"`

	// Color is omitted when every pixel of the box was masked out.
	Color *inspimg.ColorLabel `json:"color,omitempty"`

	Shapes []detection.ShapeRecord `json:"shapes"`

	// Good is true when at least one shape was found and all are good parts.
	Good bool `json:"good"`

	// ImageBase64 is the annotated box, when requested.
	ImageBase64 string `json:"image_base64,omitempty"`
}

type inspectImageArgs struct {
	thresholdArgs
	Path     string `json:"path"`
	BoxSize  int    `json:"box_size"`
	Annotate bool   `json:"annotate"`
}

func (s *Server) handleInspectImage(args json.RawMessage) (interface{}, error) {
	var a inspectImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.BoxSize == 0 {
		a.BoxSize = defaultBoxSize
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	region, rect, err := inspimg.ExtractCenter(img, a.BoxSize)
	if err != nil {
		return nil, err
	}

	result := &InspectionResult{
		Box:     detection.NewBounds(rect),
		Profile: inspimg.ProfileRegion(region),
	}
	if !result.Profile.Empty() {
		label := inspimg.ClassifyColor(result.Profile.Mean)
		result.Color = &label
	}

	shapes, err := detection.DetectShapes(region, a.options())
	if err != nil {
		return nil, err
	}
	result.Shapes = shapes.Shapes
	result.Good = len(shapes.Shapes) > 0
	for _, sh := range shapes.Shapes {
		if sh.Quality != detection.GoodPart {
			result.Good = false
		}
	}

	if a.Annotate {
		annotated := detection.Annotate(region, shapes.Shapes)
		if result.Color != nil {
			annotated = inspimg.Annotate(annotated, []inspimg.Label{{
				Text: result.Color.String(),
				At:   image.Pt(4, inspimg.LabelSize+2),
			}})
		}
		if result.ImageBase64, err = inspimg.EncodePNG(annotated); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ColorResult is the outcome of classify_color.
type ColorResult struct {
	Label inspimg.ColorLabel `json:"label"`

	// NearWhite and NearBlack tell whether a pixel of this color would be
	// masked out of a profile.
	NearWhite bool `json:"near_white"`
	NearBlack bool `json:"near_black"`
}

func (s *Server) handleClassifyColor(args json.RawMessage) (interface{}, error) {
	var c inspimg.HSV
	if err := decodeArgs(args, &c); err != nil {
		return nil, err
	}
	return &ColorResult{
		Label:     inspimg.ClassifyColor(c),
		NearWhite: inspimg.IsNearWhite(c),
		NearBlack: inspimg.IsNearBlack(c),
	}, nil
}

type detectShapesArgs struct {
	thresholdArgs
	Path           string  `json:"path"`
	X1             int     `json:"x1"`
	Y1             int     `json:"y1"`
	X2             int     `json:"x2"`
	Y2             int     `json:"y2"`
	CircularityMin float64 `json:"circularity_min"`
}

func (s *Server) handleDetectShapes(args json.RawMessage) (interface{}, error) {
	var a detectShapesArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	if a.X2 > a.X1 || a.Y2 > a.Y1 {
		rect := image.Rect(a.X1, a.Y1, a.X2, a.Y2)
		if !rect.In(img.Bounds()) || rect.Empty() {
			return nil, errors.Errorf("region %v outside image bounds %v", rect, img.Bounds())
		}
		img = imaging.Crop(img, rect)
	}

	opts := a.options()
	if a.CircularityMin != 0 {
		opts.CircularityMin = a.CircularityMin
	}
	return detection.DetectShapes(img, opts)
}

type edgeMapArgs struct {
	thresholdArgs
	Path string `json:"path"`
}

func (s *Server) handleEdgeMap(args json.RawMessage) (interface{}, error) {
	var a edgeMapArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	opts := a.options()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return inspimg.NewEdgeDetectResult(detection.EdgeMap(img, opts))
}

// CenterBoxResult is the outcome of center_box.
type CenterBoxResult struct {
	Box         detection.Bounds `json:"box"`
	ImageBase64 string           `json:"image_base64"`
	MimeType    string           `json:"mime_type"`
}

type centerBoxArgs struct {
	Path    string `json:"path"`
	BoxSize int    `json:"box_size"`
}

func (s *Server) handleCenterBox(args json.RawMessage) (interface{}, error) {
	var a centerBoxArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.BoxSize == 0 {
		a.BoxSize = defaultBoxSize
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	region, rect, err := inspimg.ExtractCenter(img, a.BoxSize)
	if err != nil {
		return nil, err
	}

	encoded, err := inspimg.EncodePNG(region)
	if err != nil {
		return nil, err
	}
	return &CenterBoxResult{Box: detection.NewBounds(rect), ImageBase64: encoded, MimeType: "image/png"}, nil
}
