package thumbnail

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dogs/123.jpg", "dogs/thumbnails/123_200x200.jpg"},
		{"dogs/abc.def.png", "dogs/thumbnails/abc.def_200x200.png"},
		{"dogs/user/42.jpeg", "dogs/thumbnails/user/42_200x200.jpeg"},
		{"dogs/noext", "dogs/thumbnails/noext_200x200"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Path(tt.in))
		})
	}
}

func TestURL(t *testing.T) {
	got := URL("https://storage.googleapis.com", "tindog", "dogs/123.jpg")
	assert.Equal(t, "https://storage.googleapis.com/tindog/dogs%2Fthumbnails%2F123_200x200.jpg", got)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/tindog/dogs/thumbnails/123_200x200.jpg", u.Path)

	assert.Equal(t, got, URL("https://storage.googleapis.com/", "tindog", "dogs/123.jpg"))
}

func TestURL_EmptyPath(t *testing.T) {
	assert.Equal(t, "", URL("https://storage.googleapis.com", "tindog", ""))
}

func TestURL_EscapesReservedCharacters(t *testing.T) {
	got := URL("https://storage.googleapis.com", "b", "dogs/a+b&c=d.jpg")
	assert.Equal(t, "https://storage.googleapis.com/b/dogs%2Fthumbnails%2Fa%2Bb%26c%3Dd_200x200.jpg", got)
}

func TestEscapeComponent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain-name_1.jpg", "plain-name_1.jpg"},
		{"a b", "a%20b"},
		{"x:y@z$w,v;u", "x%3Ay%40z%24w%2Cv%3Bu"},
		{"it's(ok)!*~", "it's(ok)!*~"},
		{"100%", "100%25"},
		{"ü", "%C3%BC"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeComponent(tt.in))
		})
	}
}
