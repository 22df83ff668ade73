package sink

import (
	"encoding/json"

	"github.com/matzehuels/tagcloud/pkg/cloud"
)

// RenderJSON exports the cloud as a pretty-printed JSON document:
//
//	{
//	  "width": 1000,
//	  "height": 1000,
//	  "center_x": 500,
//	  "center_y": 500,
//	  "font": "goregular",
//	  "tags": [
//	    {"word": "cloud", "count": 12, "font_size": 72, "x": 412, "y": 463, "width": 176, "height": 75}
//	  ]
//	}
//
// Tags keep placement order. Use [cloud.Unmarshal] to read the document back.
func RenderJSON(c *cloud.Cloud) ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
