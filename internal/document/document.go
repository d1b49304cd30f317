// Package document renders and edits the body of a managed comment.
//
// A managed comment is plain markdown with HTML comment markers embedded in it:
//
//	<!-- mskelton/omni-comment id="main" -->
//	<!-- mskelton/omni-comment start="build" -->
//	...section content...
//	<!-- mskelton/omni-comment end="build" -->
//
// The markers are invisible once GitHub renders the comment and survive every
// round trip through the API, so they are the only state the comment carries.
package document

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/qiniu/omni-comment/internal/config"
)

// DefaultNamespace is the marker namespace written into every managed comment.
// Changing it orphans comments that already exist on issues.
const DefaultNamespace = "mskelton/omni-comment"

const (
	KeyID    = "id"
	KeyStart = "start"
	KeyEnd   = "end"

	// MainID is the value of the id marker that identifies a managed comment
	MainID = "main"
)

// Write describes one section update
type Write struct {
	Section string
	Content string
	// Title wraps Content in a <details> block with the title as its summary
	Title string
	// Collapsed renders the <details> block closed. Ignored without Title.
	Collapsed bool
}

// Codec builds and edits managed comment bodies for one marker namespace
type Codec struct {
	namespace string
	startRe   *regexp.Regexp
}

var defaultCodec = New(DefaultNamespace)

// New returns a codec for namespace, or for DefaultNamespace when it is empty
func New(namespace string) *Codec {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Codec{
		namespace: namespace,
		startRe:   regexp.MustCompile(`<!-- ` + regexp.QuoteMeta(namespace) + ` ` + KeyStart + `="(.*?)" -->`),
	}
}

// Default returns the codec for DefaultNamespace
func Default() *Codec {
	return defaultCodec
}

func (c *Codec) Namespace() string {
	return c.namespace
}

// Identifier renders a marker such as <!-- ns start="build" -->
func (c *Codec) Identifier(key, value string) string {
	return fmt.Sprintf(`<!-- %s %s="%s" -->`, c.namespace, key, value)
}

// MainMarker is the marker that identifies a managed comment
func (c *Codec) MainMarker() string {
	return c.Identifier(KeyID, MainID)
}

// IsManaged reports whether body belongs to a managed comment
func (c *Codec) IsManaged(body string) bool {
	return strings.Contains(body, c.MainMarker())
}

// RenderBlank renders a new document: the id marker, the optional title and
// intro, then an empty marker pair per section, blocks separated by a blank line.
func (c *Codec) RenderBlank(meta config.Metadata) string {
	parts := []string{c.MainMarker()}

	if meta.Title != "" {
		parts = append(parts, "# "+meta.Title)
	}
	if meta.Intro != "" {
		parts = append(parts, meta.Intro)
	}
	for _, section := range meta.Sections {
		parts = append(parts, c.Identifier(KeyStart, section), c.Identifier(KeyEnd, section))
	}

	return strings.Join(parts, "\n\n")
}

// WriteSection replaces the content of w.Section in body. Everything outside the
// section's markers is kept byte for byte. When the section's markers cannot be
// found the section is appended to the end of body instead.
func (c *Codec) WriteSection(body string, w Write) string {
	lines := strings.Split(body, "\n")
	startMarker := c.Identifier(KeyStart, w.Section)
	endMarker := c.Identifier(KeyEnd, w.Section)

	content := w.Content
	if w.Title != "" {
		content = wrapDetails(w.Title, content, w.Collapsed)
	}

	start, end := findSection(lines, startMarker, endMarker)
	if start == -1 || end == -1 {
		out := make([]string, 0, len(lines)+4)
		out = append(out, lines...)
		out = append(out, "", startMarker, content, endMarker)
		return strings.Join(out, "\n")
	}

	out := make([]string, 0, len(lines)-(end-start)+2)
	out = append(out, lines[:start+1]...)
	out = append(out, content)
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n")
}

// ReadSection returns the raw text between a section's markers
func (c *Codec) ReadSection(body, section string) (string, bool) {
	lines := strings.Split(body, "\n")
	start, end := findSection(lines, c.Identifier(KeyStart, section), c.Identifier(KeyEnd, section))
	if start == -1 || end == -1 {
		return "", false
	}
	return strings.Join(lines[start+1:end], "\n"), true
}

// Sections lists the section names whose start marker appears in body, in order
func (c *Codec) Sections(body string) []string {
	var sections []string
	for _, match := range c.startRe.FindAllStringSubmatch(body, -1) {
		sections = append(sections, match[1])
	}
	return sections
}

// findSection returns the index of the first line containing the start marker and
// of the first line after it containing the end marker. Either is -1 when missing.
func findSection(lines []string, startMarker, endMarker string) (int, int) {
	start := -1
	for i, line := range lines {
		if strings.Contains(line, startMarker) {
			start = i
			break
		}
	}
	if start == -1 {
		return -1, -1
	}

	for i := start + 1; i < len(lines); i++ {
		if strings.Contains(lines[i], endMarker) {
			return start, i
		}
	}
	return start, -1
}

func wrapDetails(title, content string, collapsed bool) string {
	open := " open"
	if collapsed {
		open = ""
	}
	return strings.Join([]string{
		"<details" + open + ">",
		"<summary><h2>" + title + "</h2></summary>",
		"",
		content,
		"",
		"</details>",
	}, "\n")
}

// Identifier renders a marker in DefaultNamespace
func Identifier(key, value string) string {
	return defaultCodec.Identifier(key, value)
}

// RenderBlank renders a blank document in DefaultNamespace
func RenderBlank(meta config.Metadata) string {
	return defaultCodec.RenderBlank(meta)
}

// WriteSection writes a section in DefaultNamespace
func WriteSection(body string, w Write) string {
	return defaultCodec.WriteSection(body, w)
}
