package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateFromPincode(t *testing.T) {
	assert.Equal(t, "DL", StateFromPincode("110001"))
	assert.Equal(t, "UP", StateFromPincode("500001"))
	assert.Equal(t, "TN", StateFromPincode("600001"))
	assert.Equal(t, "KA", StateFromPincode("860001"))
	assert.Equal(t, "GJ", StateFromPincode("900001"))
}

func TestStateFromPincode_Fallback(t *testing.T) {
	assert.Equal(t, "KA", StateFromPincode(""))
	assert.Equal(t, "KA", StateFromPincode("012345"))
}
