package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wrenchworks/campaignd/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// The builder persists graphs as one Drawflow-style JSON document:
//
//	{"drawflow": {"Home": {"data": {"<id>": {"name": ..., "data": {"key": ..., "settings": {...}},
//	  "inputs": {"input_1": {"connections": [{"node": "<source id>"}]}}}}}}
//
// The engine only reads node keys, delay settings and incoming
// connections; everything else stays opaque.

var documentSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"drawflow": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"Home": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"data": map[string]any{"type": "object"},
					},
				},
			},
		},
	},
	"required": []string{"drawflow"},
}

// ValidateDocument checks a raw builder document against the expected
// Drawflow envelope before traversal.
func ValidateDocument(document map[string]any) error {
	schemaLoader := gojsonschema.NewGoLoader(documentSchema)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate builder document: %w", err)
	}

	if !result.Valid() {
		var descriptions []string
		for _, desc := range result.Errors() {
			descriptions = append(descriptions, desc.String())
		}

		return fmt.Errorf("invalid builder document: %s", strings.Join(descriptions, "; "))
	}

	return nil
}

// ParseDocument converts a raw builder document into the engine's typed
// node mapping. Nodes with malformed entries are kept with zero-value
// fields so traversal still terminates.
func ParseDocument(document map[string]any) map[string]*models.GraphNode {
	nodes := make(map[string]*models.GraphNode)

	for id, raw := range documentNodes(document) {
		entry, _ := raw.(map[string]any)

		nodes[id] = &models.GraphNode{
			ID:       id,
			Key:      nodeKey(entry),
			Settings: nodeSettings(entry),
			Incoming: incomingIDs(entry),
		}
	}

	return nodes
}

func documentNodes(document map[string]any) map[string]any {
	drawflow, _ := document["drawflow"].(map[string]any)
	home, _ := drawflow["Home"].(map[string]any)
	data, _ := home["data"].(map[string]any)

	return data
}

// nodeKey prefers the authored data.key and falls back to the node name,
// matching how the builder labels nodes.
func nodeKey(entry map[string]any) string {
	data, _ := entry["data"].(map[string]any)
	if key, ok := data["key"].(string); ok && key != "" {
		return key
	}

	name, _ := entry["name"].(string)

	return name
}

func nodeSettings(entry map[string]any) map[string]any {
	data, _ := entry["data"].(map[string]any)
	settings, _ := data["settings"].(map[string]any)

	return settings
}

func incomingIDs(entry map[string]any) []string {
	inputs, _ := entry["inputs"].(map[string]any)

	// Input names are iterated in sorted order (input_1, input_2, ...)
	// so resolution stays deterministic for multi-input nodes.
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}

	sort.Strings(names)

	var ids []string

	for _, name := range names {
		input, _ := inputs[name].(map[string]any)

		connections, _ := input["connections"].([]any)
		for _, rawConnection := range connections {
			connection, _ := rawConnection.(map[string]any)

			switch node := connection["node"].(type) {
			case string:
				if node != "" {
					ids = append(ids, node)
				}
			case float64:
				ids = append(ids, fmt.Sprintf("%.0f", node))
			}
		}
	}

	return ids
}
