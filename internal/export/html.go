package export

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	_ "embed"
	"os"
	"text/template"
)

//go:embed map.html.tmpl
var mapTemplate string

type mapPage struct {
	ArcsJSON     string
	ViewportJSON string
}

// writeMapHTML renders the standalone interactive map document. The
// arc data is inlined so the file works opened straight from disk,
// the way the dashboard embeds it.
func writeMapHTML(path string, arcs []Arc, viewport Viewport) (string, error) {
	tmpl, err := template.New("map").Parse(mapTemplate)
	if err != nil {
		return "", err
	}

	arcsJSON, err := json.Marshal(arcs)
	if err != nil {
		return "", err
	}
	viewportJSON, err := json.Marshal(viewport)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, mapPage{
		ArcsJSON:     string(arcsJSON),
		ViewportJSON: string(viewportJSON),
	})
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", err
	}

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}
