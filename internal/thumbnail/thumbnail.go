package thumbnail

import (
	"net/url"
	"path"
	"strings"
)

const (
	photoDir = "dogs/"
	suffix   = "_200x200"
)

// Path returns the object key of the 200x200 thumbnail generated for a photo
// stored under dogs/, e.g. dogs/123.jpg -> dogs/thumbnails/123_200x200.jpg.
func Path(filePath string) string {
	ext := path.Ext(filePath)
	name := strings.TrimSuffix(strings.TrimPrefix(filePath, photoDir), ext)
	return photoDir + "thumbnails/" + name + suffix + ext
}

// componentUnescaper restores the marks QueryEscape encodes but a URI
// component keeps literal, and spells spaces as %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent escapes s as a URI component: only letters, digits and
// -_.!~*'() stay literal.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// URL returns the public URL of a photo's thumbnail, or "" when the dog has no photo.
// The whole object key is escaped as a single URI component.
func URL(baseURL, bucket, filePath string) string {
	if filePath == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + bucket + "/" + escapeComponent(Path(filePath))
}
