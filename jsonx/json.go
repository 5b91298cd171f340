// Package jsonx is the JSON codec for persisted records and CLI output.
package jsonx

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var jsonx = jsoniter.ConfigCompatibleWithStandardLibrary

func Marshal(v interface{}) ([]byte, error) {
	return jsonx.Marshal(v)
}

func Unmarshal(data []byte, v interface{}) error {
	return jsonx.Unmarshal(data, v)
}

// NewIndentEncoder returns an encoder writing two-space indented documents
// to w, one per Encode call.
func NewIndentEncoder(w io.Writer) *jsoniter.Encoder {
	enc := jsonx.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc
}
