package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"datalayer/internal/datalayer"
)

const (
	scriptOpen  = "<script>\nwindow.dataLayer = window.dataLayer || [];\n"
	scriptClose = "</script>\n"
)

// RenderScript writes an inline script that pushes records onto
// window.dataLayer in order. Nothing is written for an empty slice.
func RenderScript(w io.Writer, records []datalayer.Record) error {
	if len(records) == 0 {
		return nil
	}

	var buf bytes.Buffer
	buf.WriteString(scriptOpen)
	for _, r := range records {
		payload, err := marshalForScript(r)
		if err != nil {
			return fmt.Errorf("encode %s: %w", r.EventName(), err)
		}
		buf.WriteString("window.dataLayer.push(")
		buf.Write(payload)
		buf.WriteString(");\n")
	}
	buf.WriteString(scriptClose)

	_, err := w.Write(buf.Bytes())
	return err
}

// marshalForScript encodes with HTML escaping on so that "</script>" in a
// product name cannot close the tag.
func marshalForScript(r datalayer.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
