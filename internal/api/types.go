package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gravitrone/roster/internal/engine"
)

// QueryParams is a map of URL query parameters.
type QueryParams map[string]string

// pageResponse is the paged listing envelope.
type pageResponse struct {
	Content []wireRecord `json:"content"`
	Last    bool         `json:"last"`
	Number  int          `json:"number"`
	Size    int          `json:"size"`
}

// wireRecord is one employee object as sent by the server: a flat object with
// an id and string-ish fields.
type wireRecord map[string]any

func (w wireRecord) toRecord() (engine.Record, error) {
	id, ok := scalarString(w["id"])
	if !ok || id == "" {
		return engine.Record{}, fmt.Errorf("record without id")
	}
	return engine.Record{ID: id, Fields: w.fields()}, nil
}

// fields returns every non-id scalar value. Nulls are dropped.
func (w wireRecord) fields() engine.Fields {
	out := engine.Fields{}
	for k, v := range w {
		if k == "id" {
			continue
		}
		if s, ok := scalarString(v); ok {
			out[k] = s
		}
	}
	return out
}

func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		if val {
			return "true", true
		}
		return "false", true
	}
	return "", false
}

// decodeJSON decodes with numbers kept as json.Number so ids survive intact.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodePage(data []byte) (engine.Page, error) {
	var resp pageResponse
	if err := decodeJSON(data, &resp); err != nil {
		return engine.Page{}, err
	}
	page := engine.Page{LastPage: resp.Last, Records: make([]engine.Record, 0, len(resp.Content))}
	for i, w := range resp.Content {
		rec, err := w.toRecord()
		if err != nil {
			return engine.Page{}, fmt.Errorf("decode content[%d]: %w", i, err)
		}
		page.Records = append(page.Records, rec)
	}
	return page, nil
}

func decodeFields(data []byte) (engine.Fields, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return engine.Fields{}, nil
	}
	var w wireRecord
	if err := decodeJSON(data, &w); err != nil {
		return nil, err
	}
	return w.fields(), nil
}

// encodeFields builds a PATCH body, leaving out the id.
func encodeFields(fields engine.Fields) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if strings.EqualFold(k, "id") {
			continue
		}
		out[k] = v
	}
	return out
}
