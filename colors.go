package msgr

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

/*
Colorizer. Wraps text with ANSI SGR escapes for a fixed 8-color palette
under a light or dark scheme, detects interactive terminals and strips
escape codes from arbitrary text.

The dark scheme renders plain foreground colors, the light scheme bold
ones (bold reads better on light backgrounds). SCHEME_NONE, an empty
color name or a disabled colorizer pass text through unchanged.
*/

type ColorName string

const (
	COLOR_NONE    ColorName = ""
	COLOR_BLACK   ColorName = "black"
	COLOR_RED     ColorName = "red"
	COLOR_GREEN   ColorName = "green"
	COLOR_YELLOW  ColorName = "yellow"
	COLOR_BLUE    ColorName = "blue"
	COLOR_MAGENTA ColorName = "magenta"
	COLOR_CYAN    ColorName = "cyan"
	COLOR_WHITE   ColorName = "white"
)

// Order matches the standard terminal color indices.
var colorAttrs = map[ColorName]color.Attribute{
	COLOR_BLACK:   color.FgBlack,
	COLOR_RED:     color.FgRed,
	COLOR_GREEN:   color.FgGreen,
	COLOR_YELLOW:  color.FgYellow,
	COLOR_BLUE:    color.FgBlue,
	COLOR_MAGENTA: color.FgMagenta,
	COLOR_CYAN:    color.FgCyan,
	COLOR_WHITE:   color.FgWhite,
}

// Matches one-or-two-numeric-parameter SGR sequences ("\033[1m",
// "\033[31m", "\033[1;31m").
var colorCodeRegex = regexp.MustCompile("\x1b\\[\\d{1,2}(;\\d{1,2})?m")

// Color renders text in one palette color under a scheme. The zero value
// is a pass-through colorizer.
//
// An unknown color name is not rejected at construction; it panics at the
// point a non-empty message is actually colorized.
type Color struct {
	name    ColorName
	scheme  Scheme
	disable bool
}

// NewColor creates a colorizer for the given palette color and scheme.
func NewColor(name ColorName, scheme Scheme) Color {
	return Color{name: name, scheme: normScheme(scheme)}
}

// Disabled returns a copy of the colorizer that passes text through.
func (c Color) Disabled() Color {
	c.disable = true
	return c
}

// Paint wraps text in the colorizer's escape codes. Empty text
// short-circuits to an empty string without adding any codes.
func (c Color) Paint(text string) string {
	return c.PaintScheme(text, c.scheme)
}

// PaintScheme is Paint with the scheme overridden for this call (the
// informer passes SCHEME_NONE when the destination is not a TTY).
func (c Color) PaintScheme(text string, scheme Scheme) string {
	if text == "" {
		return ""
	}
	if scheme == SCHEME_NONE || c.name == COLOR_NONE || c.disable {
		return text
	}
	attr, known := colorAttrs[c.name]
	if !known {
		panic(fmt.Sprintf("%s: %q", _ERROR_MESSAGE_BAD_COLOR, c.name))
	}
	cc := color.New(attr)
	if scheme == SCHEME_LIGHT {
		cc.Add(color.Bold)
	}
	cc.EnableColor() // deterministic regardless of the NO_COLOR environment
	return cc.Sprint(text)
}

// Paintv joins the arguments with sep and colorizes the result.
func (c Color) Paintv(sep string, args ...any) string {
	return c.Paint(joinArgs(sep, args))
}

// IsTTY reports whether the stream is attached to an interactive
// terminal. Fails gracefully to false when the stream has no underlying
// file descriptor (bytes.Buffer, pipes in tests, nil).
func IsTTY(stream io.Writer) bool {
	type fder interface{ Fd() uintptr }
	f, ok := stream.(fder)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// StripColors removes SGR escape sequences from text. It is a no-op if
// the text contains no escape character; stripping already-stripped text
// returns it unchanged.
func StripColors(text string) string {
	if !strings.ContainsRune(text, '\x1b') {
		return text
	}
	return colorCodeRegex.ReplaceAllString(text, "")
}
