package server

import (
	"reflect"
	"sort"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		defaults map[string]interface{}
	}{
		{"image_load", []string{"path"}, nil},
		{"inspect_image", []string{"path"}, map[string]interface{}{
			"box_size": 200, "annotate": false, "threshold_low": 100, "threshold_high": 200,
		}},
		{"classify_color", []string{"h", "s", "v"}, nil},
		{"detect_shapes", []string{"path"}, map[string]interface{}{
			"circularity_min": 0.9, "threshold_low": 100, "threshold_high": 200,
		}},
		{"edge_map", []string{"path"}, map[string]interface{}{
			"threshold_low": 100, "threshold_high": 200,
		}},
		{"center_box", []string{"path"}, map[string]interface{}{"box_size": 200}},
	}

	tools := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		tools[tool.Name] = tool
	}
	if len(tools) != len(tests) {
		t.Errorf("got %d tools, want %d", len(tools), len(tests))
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, ok := tools[tt.name]
			if !ok {
				t.Fatal("tool not defined")
			}
			if tool.Description == "" {
				t.Error("missing description")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("schema type: got %v", tool.InputSchema["type"])
			}

			required, _ := tool.InputSchema["required"].([]string)
			required = append([]string(nil), required...)
			sort.Strings(required)
			if !reflect.DeepEqual(required, tt.required) {
				t.Errorf("required: got %v, want %v", required, tt.required)
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("properties should be a map")
			}
			for _, name := range tt.required {
				if _, ok := props[name]; !ok {
					t.Errorf("required %q has no property", name)
				}
			}
			for name, want := range tt.defaults {
				prop, ok := props[name].(map[string]interface{})
				if !ok {
					t.Errorf("%s: property missing", name)
					continue
				}
				if got := prop["default"]; got != want {
					t.Errorf("%s: default got %v (%T), want %v (%T)", name, got, got, want, want)
				}
			}
		})
	}
}
