package postgres

import "encoding/json"

// marshalDoc serializes a free-form field map for a jsonb column. An empty
// or nil map becomes the empty object, never SQL NULL, so jsonb merge
// operators keep working.
func marshalDoc(doc map[string]any) ([]byte, error) {
	if len(doc) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(doc)
}

// unmarshalDoc deserializes a jsonb column back into a field map, returning
// nil for the empty object so entities stay comparable with their
// pre-insert form.
func unmarshalDoc(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, nil
	}
	return doc, nil
}
