package jsonx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIndentEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewIndentEncoder(&buf).Encode(map[string]string{"action": "transfer"}))
	assert.Equal(t, "{\n  \"action\": \"transfer\"\n}\n", buf.String())
}
