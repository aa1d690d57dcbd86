package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenchworks/campaignd/pkg/models"
)

func parseJSONDocument(t *testing.T, raw string) map[string]any {
	t.Helper()

	var document map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &document))

	return document
}

func TestValidateDocument(t *testing.T) {
	valid := parseJSONDocument(t, `{"drawflow": {"Home": {"data": {}}}}`)
	require.NoError(t, ValidateDocument(valid))

	missing := parseJSONDocument(t, `{"nodes": []}`)
	require.Error(t, ValidateDocument(missing))

	wrongType := parseJSONDocument(t, `{"drawflow": "oops"}`)
	require.Error(t, ValidateDocument(wrongType))
}

func TestParseDocument(t *testing.T) {
	document := parseJSONDocument(t, `{
		"drawflow": {
			"Home": {
				"data": {
					"1": {
						"name": "delay",
						"data": {
							"key": "delay",
							"settings": {"waitType": "duration", "waitAmount": 2, "waitUnit": "hours"}
						},
						"inputs": {}
					},
					"2": {
						"name": "Launch Node",
						"data": {"key": "launch", "settings": {}},
						"inputs": {
							"input_1": {"connections": [{"node": "1"}]}
						}
					}
				}
			}
		}
	}`)

	nodes := ParseDocument(document)
	require.Len(t, nodes, 2)

	delay := nodes["1"]
	require.NotNil(t, delay)
	assert.Equal(t, models.NodeKindDelay, delay.Kind())
	assert.Empty(t, delay.Incoming)
	assert.Equal(t, "duration", delay.Settings["waitType"])

	launch := nodes["2"]
	require.NotNil(t, launch)
	assert.Equal(t, models.NodeKindLaunch, launch.Kind())
	assert.Equal(t, []string{"1"}, launch.Incoming)
}

func TestParseDocument_NameFallbackAndNumericNodeRefs(t *testing.T) {
	document := parseJSONDocument(t, `{
		"drawflow": {
			"Home": {
				"data": {
					"7": {
						"name": "launch",
						"inputs": {
							"input_2": {"connections": [{"node": 12}]},
							"input_1": {"connections": [{"node": 3}]}
						}
					}
				}
			}
		}
	}`)

	nodes := ParseDocument(document)
	require.Len(t, nodes, 1)

	launch := nodes["7"]
	require.NotNil(t, launch)

	// No data.key, so the node name classifies it.
	assert.Equal(t, models.NodeKindLaunch, launch.Kind())

	// Inputs are visited in sorted name order and numeric refs are
	// normalized to strings.
	assert.Equal(t, []string{"3", "12"}, launch.Incoming)
	assert.Equal(t, "3", launch.IncomingNodeID())
}

func TestParseDocument_MalformedEntriesKeepTraversalSafe(t *testing.T) {
	document := parseJSONDocument(t, `{
		"drawflow": {
			"Home": {
				"data": {
					"1": "not-an-object",
					"2": {"name": "launch", "inputs": {"input_1": "bad"}}
				}
			}
		}
	}`)

	nodes := ParseDocument(document)
	require.Len(t, nodes, 2)
	assert.Equal(t, models.NodeKindOther, nodes["1"].Kind())
	assert.Empty(t, nodes["2"].Incoming)
}

func TestParseDocument_EmptyDocument(t *testing.T) {
	assert.Empty(t, ParseDocument(map[string]any{}))
}
