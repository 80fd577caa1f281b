package dmi

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/autobrr/go-dmi/internal/codec"
)

// RenderJSON renders the structured documents of reports. A single
// report renders as an object, several as an array.
func RenderJSON(reports []Report) ([]byte, error) {
	return marshalJSON(single(documents(reports)))
}

func RenderYAML(reports []Report) ([]byte, error) {
	return marshalYAML(single(documents(reports)))
}

func RenderCBOR(reports []Report) ([]byte, error) {
	return marshalCBOR(single(documents(reports)))
}

func marshalJSON(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func marshalYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func marshalCBOR(v any) ([]byte, error) {
	return codec.Marshal(v)
}
