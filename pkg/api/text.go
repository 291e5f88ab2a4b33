package api

// Text is a string value carrying an optional origin tag. The tag records
// which call produced the text so downstream observability tooling can trace
// normalized messages back to their source invocation.
//
// Text replaces implicit provenance metadata on raw strings with an explicit
// wrapper: the content and its origin travel together as one value.
type Text struct {
	Content string `json:"content"`
	Origin  string `json:"origin,omitempty"`
}

// NewText returns an untagged Text with the given content.
func NewText(content string) Text {
	return Text{Content: content}
}

// Tag returns a copy of t stamped with the given origin ID.
func (t Text) Tag(origin string) Text {
	t.Origin = origin
	return t
}

// Tagged reports whether t carries an origin tag.
func (t Text) Tagged() bool {
	return t.Origin != ""
}

// String returns the plain content, discarding the tag.
func (t Text) String() string {
	return t.Content
}
