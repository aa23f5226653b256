package msgr

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

/*
Message assembler. Joins positional arguments with a separator, or
interpolates positional/named arguments into a format template with
{0}-style indexed and {name}-style named placeholders. A list of
candidate templates is tried in order against the culled argument set;
the first template whose placeholders are all satisfiable wins.

Assembly failures are programming errors in the calling code, not
runtime conditions, and are returned as hard errors (informant emission
converts them to panics).
*/

// Placeholders are {0}, {name}; doubled braces escape literals.
var placeholderRegex = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*|[0-9]+)\}`)

// joinArgs converts the arguments to strings and joins them with sep.
func joinArgs(sep string, args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	return strings.Join(parts, sep)
}

// Join converts the arguments to strings and joins them with sep,
// appending end. This is the top-level render step; the assembler used
// during message routing appends nothing and defers line endings to the
// informer.
func Join(sep, end string, args ...any) string {
	return joinArgs(sep, args) + end
}

// expandTemplate interpolates args/kwargs into the template. A
// placeholder with no matching argument is a hard error.
func expandTemplate(template string, args []any, kwargs map[string]any) (string, error) {
	var missing []string
	expand := func(placeholder string) string {
		key := placeholder[1 : len(placeholder)-1]
		if index, err := strconv.Atoi(key); err == nil {
			if index >= 0 && index < len(args) {
				return fmt.Sprint(args[index])
			}
		} else if val, found := kwargs[key]; found {
			return fmt.Sprint(val)
		}
		missing = append(missing, key)
		return placeholder
	}
	// protect escaped braces from placeholder matching
	text := strings.ReplaceAll(template, "{{", "\x00")
	text = strings.ReplaceAll(text, "}}", "\x01")
	text = placeholderRegex.ReplaceAllStringFunc(text, expand)
	if len(missing) > 0 {
		return "", errors.New(_ERROR_MESSAGE_BAD_TEMPLATE + ": {" + strings.Join(missing, "}, {") + "}")
	}
	text = strings.ReplaceAll(text, "\x00", "{")
	text = strings.ReplaceAll(text, "\x01", "}")
	return text, nil
}

// templateKeys lists the placeholder keys referenced by a template.
func templateKeys(template string) []string {
	text := strings.ReplaceAll(template, "{{", "")
	text = strings.ReplaceAll(text, "}}", "")
	matches := placeholderRegex.FindAllStringSubmatch(text, -1)
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, m[1])
	}
	return keys
}

// satisfiable is a key-presence check against the template's
// placeholders, computed without expanding anything.
func satisfiable(template string, args []any, kwargs map[string]any) bool {
	for _, key := range templateKeys(template) {
		if index, err := strconv.Atoi(key); err == nil {
			if index < 0 || index >= len(args) {
				return false
			}
		} else if _, found := kwargs[key]; !found {
			return false
		}
	}
	return true
}

// isFalsy implements the cull predicate: nil, false, zero numbers, empty
// strings and empty collections are culled during template fallback.
func isFalsy(val any) bool {
	if val == nil {
		return true
	}
	switch v := reflect.ValueOf(val); v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// cullKwargs drops falsy named arguments, keeping explicitly protected
// keys.
func cullKwargs(kwargs map[string]any, protect []string) map[string]any {
	culled := make(map[string]any, len(kwargs))
	for key, val := range kwargs {
		if !isFalsy(val) || slices.Contains(protect, key) {
			culled[key] = val
		}
	}
	return culled
}

// cullArgs drops trailing falsy positional arguments (indexed
// placeholders stay stable for the retained prefix).
func cullArgs(args []any) []any {
	end := len(args)
	for end > 0 && isFalsy(args[end-1]) {
		end--
	}
	return args[:end]
}

// assemble builds the message body for an emission. Precedence: a single
// template, then the candidate template list, then a plain join. The
// optional wrap step reflows the result to the target column width.
func assemble(args []any, opts *EmitOptions) (string, error) {
	sep := opts.Sep
	if sep == "" {
		sep = DEFAULT_SEP
	}
	var body string
	var err error
	switch {
	case opts.Template != "":
		body, err = expandTemplate(opts.Template, args, opts.Kwargs)
	case len(opts.Templates) > 0:
		culledArgs := cullArgs(args)
		culledKwargs := cullKwargs(opts.Kwargs, opts.Protect)
		found := false
		for _, candidate := range opts.Templates {
			if satisfiable(candidate, culledArgs, culledKwargs) {
				body, err = expandTemplate(candidate, culledArgs, culledKwargs)
				found = true
				break
			}
		}
		if !found {
			err = errors.New(_ERROR_MESSAGE_NO_TEMPLATE_MATCH)
		}
	default:
		body = joinArgs(sep, args)
	}
	if err != nil {
		return "", err
	}
	if opts.Wrap {
		width := opts.WrapWidth
		if width <= 0 {
			width = DEFAULT_WRAP_WIDTH
		}
		body = wordwrap.String(body, width)
	}
	return body, nil
}
