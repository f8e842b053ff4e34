package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func thresholdProperties(props map[string]interface{}) map[string]interface{} {
	props["threshold_low"] = map[string]interface{}{
		"type":        "integer",
		"description": "Canny low hysteresis threshold. Default 100",
		"default":     100,
	}
	props["threshold_high"] = map[string]interface{}{
		"type":        "integer",
		"description": "Canny high hysteresis threshold. Default 200",
		"default":     200,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image is cached for subsequent calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "inspect_image",
			Description: "Run one inspection cycle on an image: take the centered box, report its mean HSV and color label, and classify every shape inside it as a good or bad part.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": thresholdProperties(map[string]interface{}{
					"path": pathProperty(),
					"box_size": map[string]interface{}{
						"type":        "integer",
						"description": "Side of the centered inspection box in pixels. Default 200",
						"default":     200,
					},
					"annotate": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the labelled box as base64 PNG. Default false",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "classify_color",
			Description: "Classify an HSV color on the 8-bit scale (H 0-180, S and V 0-255) into Red, Yellow, Green, Blue, Gray, Black or Unknown.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"h": map[string]interface{}{
						"type":        "number",
						"description": "Hue, 0-180",
					},
					"s": map[string]interface{}{
						"type":        "number",
						"description": "Saturation, 0-255",
					},
					"v": map[string]interface{}{
						"type":        "number",
						"description": "Value, 0-255",
					},
				},
				"required": []string{"h", "s", "v"},
			},
		},
		{
			Name:        "detect_shapes",
			Description: "Find the outer boundaries in an image or a region of it and classify each as Circle, Triangle, Square, Hexagon or no shape.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": thresholdProperties(map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based). Omit the region to use the whole image",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"circularity_min": map[string]interface{}{
						"type":        "number",
						"description": "Circularity above which a boundary is a circle. Default 0.9",
						"default":     0.9,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "edge_map",
			Description: "Return the binary edge map the shape detector traces (blur, Canny, bridging) as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": thresholdProperties(map[string]interface{}{
					"path": pathProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "center_box",
			Description: "Return the centered inspection box of an image as base64 PNG, with its position in the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"box_size": map[string]interface{}{
						"type":        "integer",
						"description": "Side of the box in pixels. Default 200",
						"default":     200,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}
