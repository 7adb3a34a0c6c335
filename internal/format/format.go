// Package format describes the supported output formats.
package format

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format names a target output format.
type Format string

const (
	CSS          Format = "css"
	SCSS         Format = "scss"
	CSSVariables Format = "css-variables"
	Tailwind     Format = "tailwind"
	JavaScript   Format = "javascript"
	JSON         Format = "json"
	Android      Format = "android"
	SwiftUI      Format = "swiftui"
)

// CommentStyle is the comment family a format uses.
type CommentStyle int

const (
	LineComment CommentStyle = iota
	BlockComment
	MarkupComment
	NoComments
)

// Info describes one supported format.
type Info struct {
	Format      Format
	DisplayName string
	Language    string // code fence / prompt language label
	Filename    string // default output file name
	Comment     CommentStyle
}

// Supported lists every format in display order.
var Supported = []Info{
	{Format: CSS, DisplayName: "CSS", Language: "css", Filename: "tokens.css", Comment: BlockComment},
	{Format: SCSS, DisplayName: "SCSS", Language: "scss", Filename: "_tokens.scss", Comment: BlockComment},
	{Format: CSSVariables, DisplayName: "CSS Variables", Language: "css", Filename: "variables.css", Comment: BlockComment},
	{Format: Tailwind, DisplayName: "Tailwind CSS", Language: "javascript", Filename: "tailwind.config.js", Comment: LineComment},
	{Format: JavaScript, DisplayName: "JavaScript", Language: "javascript", Filename: "tokens.js", Comment: LineComment},
	{Format: JSON, DisplayName: "JSON", Language: "json", Filename: "tokens.json", Comment: NoComments},
	{Format: Android, DisplayName: "Android XML", Language: "xml", Filename: "styles.xml", Comment: MarkupComment},
	{Format: SwiftUI, DisplayName: "SwiftUI", Language: "swift", Filename: "DesignTokens.swift", Comment: LineComment},
}

// Parse returns the format named s. Matching ignores case and surrounding
// whitespace; "tailwindcss" and "swift" are accepted as aliases.
func Parse(s string) (Format, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "tailwindcss":
		name = string(Tailwind)
	case "swift":
		name = string(SwiftUI)
	case "js":
		name = string(JavaScript)
	}
	if Lookup(Format(name)) == nil {
		return "", false
	}
	return Format(name), true
}

// Lookup returns the Info for f, or nil if f is not supported.
func Lookup(f Format) *Info {
	for i := range Supported {
		if Supported[i].Format == f {
			return &Supported[i]
		}
	}
	return nil
}

// Names returns the sorted names of all supported formats.
func Names() []string {
	names := make([]string, 0, len(Supported))
	for _, info := range Supported {
		names = append(names, string(info.Format))
	}
	sort.Strings(names)
	return names
}

// FromFilename guesses the format from an output file name.
func FromFilename(name string) (Format, bool) {
	base := strings.ToLower(filepath.Base(name))
	switch {
	case strings.HasPrefix(base, "tailwind.config."):
		return Tailwind, true
	case strings.HasSuffix(base, ".scss"):
		return SCSS, true
	case strings.HasSuffix(base, ".css"):
		return CSS, true
	case strings.HasSuffix(base, ".js"), strings.HasSuffix(base, ".mjs"):
		return JavaScript, true
	case strings.HasSuffix(base, ".json"):
		return JSON, true
	case strings.HasSuffix(base, ".xml"):
		return Android, true
	case strings.HasSuffix(base, ".swift"):
		return SwiftUI, true
	}
	return "", false
}

// String implements fmt.Stringer.
func (f Format) String() string {
	return string(f)
}

// DisplayName returns a human-readable name for f.
func (f Format) DisplayName() string {
	if info := Lookup(f); info != nil {
		return info.DisplayName
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(f), "-", " "))
}

// Filename returns the default output file name for f.
func (f Format) Filename() string {
	if info := Lookup(f); info != nil {
		return info.Filename
	}
	return "tokens.txt"
}

// Language returns the code language label for f.
func (f Format) Language() string {
	if info := Lookup(f); info != nil {
		return info.Language
	}
	return string(f)
}

// CommentStyle returns the comment family of f. Unknown formats use line
// comments.
func (f Format) CommentStyle() CommentStyle {
	if info := Lookup(f); info != nil {
		return info.Comment
	}
	return LineComment
}

// CommentMarker returns the marker shown to the model for where comments
// may appear.
func (f Format) CommentMarker() string {
	switch f.CommentStyle() {
	case BlockComment:
		return "/* */"
	case MarkupComment:
		return "<!-- -->"
	case NoComments:
		return "no comments"
	default:
		return "//"
	}
}

// Comment renders text as a single comment in f's syntax. Formats without
// comments return an empty string.
func (f Format) Comment(text string) string {
	switch f.CommentStyle() {
	case BlockComment:
		return "/* " + text + " */"
	case MarkupComment:
		return "<!-- " + text + " -->"
	case NoComments:
		return ""
	default:
		return "// " + text
	}
}

// IsText reports whether f's output is plain source text that can carry
// comments, as opposed to a data document.
func (f Format) IsText() bool {
	return f.CommentStyle() != NoComments
}
