package document

import (
	"strings"
	"testing"

	"github.com/qiniu/omni-comment/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifier(t *testing.T) {
	assert.Equal(t, `<!-- mskelton/omni-comment id="main" -->`, Identifier("id", "main"))
	assert.Equal(t, `<!-- mskelton/omni-comment start="build" -->`, Identifier("start", "build"))
	assert.Equal(t, `<!-- custom/ns end="lint" -->`, New("custom/ns").Identifier("end", "lint"))
	assert.Equal(t, DefaultNamespace, New("").Namespace())
}

func TestRenderBlank(t *testing.T) {
	body := RenderBlank(config.Metadata{Sections: []string{"test-section"}})

	expected := strings.Join([]string{
		`<!-- mskelton/omni-comment id="main" -->`,
		``,
		`<!-- mskelton/omni-comment start="test-section" -->`,
		``,
		`<!-- mskelton/omni-comment end="test-section" -->`,
	}, "\n")
	assert.Equal(t, expected, body)
}

func TestRenderBlankWithTitleAndIntro(t *testing.T) {
	body := RenderBlank(config.Metadata{
		Title:    "Build report",
		Intro:    "Results from CI.",
		Sections: []string{"build", "lint"},
	})

	expected := strings.Join([]string{
		`<!-- mskelton/omni-comment id="main" -->`,
		``,
		`# Build report`,
		``,
		`Results from CI.`,
		``,
		`<!-- mskelton/omni-comment start="build" -->`,
		``,
		`<!-- mskelton/omni-comment end="build" -->`,
		``,
		`<!-- mskelton/omni-comment start="lint" -->`,
		``,
		`<!-- mskelton/omni-comment end="lint" -->`,
	}, "\n")
	assert.Equal(t, expected, body)
}

func TestRenderBlankMarkerCounts(t *testing.T) {
	sections := []string{"a", "b", "c", "d"}
	body := RenderBlank(config.Metadata{Sections: sections})

	assert.Equal(t, 1, strings.Count(body, Identifier(KeyID, MainID)))
	assert.Equal(t, sections, Default().Sections(body))

	last := -1
	for _, section := range sections {
		start := strings.Index(body, Identifier(KeyStart, section))
		end := strings.Index(body, Identifier(KeyEnd, section))
		require.NotEqual(t, -1, start)
		require.NotEqual(t, -1, end)
		assert.Less(t, last, start)
		assert.Less(t, start, end)
		assert.Equal(t, 1, strings.Count(body, Identifier(KeyStart, section)))
		assert.Equal(t, 1, strings.Count(body, Identifier(KeyEnd, section)))
		last = end
	}
}

func TestWriteSectionIntoBlank(t *testing.T) {
	body := RenderBlank(config.Metadata{Sections: []string{"build"}})
	out := WriteSection(body, Write{Section: "build", Content: "passed"})

	expected := strings.Join([]string{
		`<!-- mskelton/omni-comment id="main" -->`,
		``,
		`<!-- mskelton/omni-comment start="build" -->`,
		`passed`,
		`<!-- mskelton/omni-comment end="build" -->`,
	}, "\n")
	assert.Equal(t, expected, out)

	content, ok := Default().ReadSection(out, "build")
	require.True(t, ok)
	assert.Equal(t, "passed", content)
	assert.Equal(t, []string{"build"}, Default().Sections(out))
}

func TestWriteSectionClearsContent(t *testing.T) {
	body := RenderBlank(config.Metadata{Sections: []string{"test-section"}})
	body = WriteSection(body, Write{Section: "test-section", Content: "test comment body", Title: "test title"})

	out := WriteSection(body, Write{Section: "test-section", Content: ""})

	expected := strings.Join([]string{
		`<!-- mskelton/omni-comment id="main" -->`,
		``,
		`<!-- mskelton/omni-comment start="test-section" -->`,
		``,
		`<!-- mskelton/omni-comment end="test-section" -->`,
	}, "\n")
	assert.Equal(t, expected, out)
}

func TestWriteSectionDetails(t *testing.T) {
	body := RenderBlank(config.Metadata{Sections: []string{"test-section"}})

	open := WriteSection(body, Write{Section: "test-section", Content: "test message", Title: "test title"})
	assert.Equal(t, strings.Join([]string{
		`<!-- mskelton/omni-comment id="main" -->`,
		``,
		`<!-- mskelton/omni-comment start="test-section" -->`,
		`<details open>`,
		`<summary><h2>test title</h2></summary>`,
		``,
		`test message`,
		``,
		`</details>`,
		`<!-- mskelton/omni-comment end="test-section" -->`,
	}, "\n"), open)

	closed := WriteSection(body, Write{Section: "test-section", Content: "test message", Title: "test title", Collapsed: true})
	assert.Contains(t, closed, "<details>\n<summary><h2>test title</h2></summary>")
	assert.NotContains(t, closed, "<details open>")

	plain := WriteSection(body, Write{Section: "test-section", Content: "test message", Collapsed: true})
	assert.NotContains(t, plain, "<details")
}

func TestWriteSectionIsIdempotent(t *testing.T) {
	body := RenderBlank(config.Metadata{Title: "Report", Sections: []string{"build", "lint"}})

	writes := []Write{
		{Section: "build", Content: "passed"},
		{Section: "lint", Content: "line one\nline two", Title: "Lint"},
		{Section: "new", Content: "appended"},
	}
	for _, w := range writes {
		once := WriteSection(body, w)
		twice := WriteSection(once, w)
		assert.Equal(t, once, twice, w.Section)
	}
}

func TestWriteSectionLeavesOtherSectionsAlone(t *testing.T) {
	body := RenderBlank(config.Metadata{Sections: []string{"build", "lint"}})
	body = WriteSection(body, Write{Section: "build", Content: "build ok\n<b>nested</b>", Title: "Build"})
	buildBefore, ok := Default().ReadSection(body, "build")
	require.True(t, ok)

	out := WriteSection(body, Write{Section: "lint", Content: "ok"})

	buildAfter, ok := Default().ReadSection(out, "build")
	require.True(t, ok)
	assert.Equal(t, buildBefore, buildAfter)

	lint, ok := Default().ReadSection(out, "lint")
	require.True(t, ok)
	assert.Equal(t, "ok", lint)

	// everything up to the lint start marker is untouched
	prefix := body[:strings.Index(body, Identifier(KeyStart, "lint"))]
	assert.True(t, strings.HasPrefix(out, prefix))
}

func TestWriteSectionAppendsMissingSection(t *testing.T) {
	body := RenderBlank(config.Metadata{Sections: []string{"test-section"}})

	out := WriteSection(body, Write{Section: "other-section", Content: "test message"})

	assert.True(t, strings.HasPrefix(out, body))
	assert.Equal(t, strings.Join([]string{
		body,
		``,
		`<!-- mskelton/omni-comment start="other-section" -->`,
		`test message`,
		`<!-- mskelton/omni-comment end="other-section" -->`,
	}, "\n"), out)
	assert.Equal(t, 1, strings.Count(out, Identifier(KeyStart, "other-section")))
	assert.Equal(t, 1, strings.Count(out, Identifier(KeyEnd, "other-section")))
}

func TestWriteSectionHalfPresentMarkersAppend(t *testing.T) {
	body := strings.Join([]string{
		Identifier(KeyID, MainID),
		Identifier(KeyEnd, "build"),
		Identifier(KeyStart, "build"),
		"dangling",
	}, "\n")

	out := WriteSection(body, Write{Section: "build", Content: "fresh"})

	assert.True(t, strings.HasPrefix(out, body+"\n\n"))
	assert.True(t, strings.HasSuffix(out, Identifier(KeyStart, "build")+"\nfresh\n"+Identifier(KeyEnd, "build")))
}

func TestWriteSectionUnmanagedBody(t *testing.T) {
	out := WriteSection("", Write{Section: "build", Content: "passed"})
	assert.Equal(t, "\n\n"+Identifier(KeyStart, "build")+"\npassed\n"+Identifier(KeyEnd, "build"), out)
	assert.False(t, Default().IsManaged(out))

	out = WriteSection("hand written", Write{Section: "build", Content: "passed"})
	assert.True(t, strings.HasPrefix(out, "hand written\n\n"))
}

func TestWriteSectionMarkerWithSurroundingText(t *testing.T) {
	body := strings.Join([]string{
		Identifier(KeyID, MainID),
		"  " + Identifier(KeyStart, "build") + "  ",
		"old",
		"> " + Identifier(KeyEnd, "build"),
	}, "\n")

	out := WriteSection(body, Write{Section: "build", Content: "new"})
	content, ok := Default().ReadSection(out, "build")
	require.True(t, ok)
	assert.Equal(t, "new", content)
	assert.Contains(t, out, "> "+Identifier(KeyEnd, "build"))
}

func TestSectionNamesAreNotPrefixMatched(t *testing.T) {
	body := RenderBlank(config.Metadata{Sections: []string{"build-extra"}})

	out := WriteSection(body, Write{Section: "build", Content: "x"})

	extra, ok := Default().ReadSection(out, "build-extra")
	require.True(t, ok)
	assert.Equal(t, "", extra)
	assert.Equal(t, []string{"build-extra", "build"}, Default().Sections(out))
}

func TestCodecNamespaceIsolation(t *testing.T) {
	other := New("other/tool")
	body := other.RenderBlank(config.Metadata{Sections: []string{"build"}})

	assert.True(t, other.IsManaged(body))
	assert.False(t, Default().IsManaged(body))
	assert.Empty(t, Default().Sections(body))
}
