package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIDFromURL(t *testing.T) {
	assert.Equal(t, "abc123", PublicIDFromURL("https://blobs.example.com/threads/posts/abc123.jpg"))
	assert.Equal(t, "abc123", PublicIDFromURL("https://blobs.example.com/abc123"))
	assert.Equal(t, ".hidden", PublicIDFromURL("https://blobs.example.com/.hidden"))
}

func TestUnconfiguredClientIsPassthrough(t *testing.T) {
	c := NewClient("", "")

	url, err := c.Upload(context.Background(), "data:image/png;base64,xxxx", "threads/posts")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,xxxx", url)

	assert.NoError(t, c.Destroy(context.Background(), "abc123"))
}
