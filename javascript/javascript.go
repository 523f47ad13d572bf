package javascript

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"
)

var exportPattern = regexp.MustCompile(`(?m)^\s*(?:module\.exports\s*=|export\s+default\b)`)

// LoaderFor picks the esbuild loader for a config file name.
func LoaderFor(name string) api.Loader {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ts", ".mts", ".cts":
		return api.LoaderTS
	}
	return api.LoaderJS
}

// ExportedObject returns the object literal a config module exports,
// rewritten so a YAML flow decoder reads it the way JavaScript would:
// comments are dropped and every string is re-quoted as a JSON string.
// esbuild has already removed type annotations and trailing commas.
//
// Both `module.exports = {...}` and `export default {...}` are accepted,
// with or without a wrapping call such as defineConfig({...}).
func ExportedObject(src []byte, loader api.Loader) ([]byte, error) {
	result := api.Transform(string(src), api.TransformOptions{
		Loader:        loader,
		Charset:       api.CharsetUTF8,
		LegalComments: api.LegalCommentsNone,
		Sourcefile:    "config",
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		if msg.Location != nil {
			return nil, errors.Errorf("%d:%d: %s", msg.Location.Line, msg.Location.Column, msg.Text)
		}
		return nil, errors.New(msg.Text)
	}

	code := string(result.Code)
	loc := exportPattern.FindStringIndex(code)
	if loc == nil {
		return nil, errors.New("no module.exports or export default found")
	}
	return objectLiteral(code[loc[1]:])
}

// objectLiteral copies the first object literal in s, up to its closing
// brace. Only a call prefix such as defineConfig( may precede it.
func objectLiteral(s string) ([]byte, error) {
	var (
		out   bytes.Buffer
		depth int
	)
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '/' && strings.HasPrefix(s[i:], "//"):
			end := strings.IndexByte(s[i:], '\n')
			if end < 0 {
				i = len(s)
			} else {
				i += end
			}
			continue
		case c == '/' && strings.HasPrefix(s[i:], "/*"):
			end := strings.Index(s[i+2:], "*/")
			if end < 0 {
				return nil, errors.New("unterminated comment")
			}
			i += 2 + end + 2
			if depth > 0 {
				out.WriteByte(' ')
			}
			continue
		case c == '"' || c == '\'' || c == '`':
			str, n, err := unquote(s[i:])
			if err != nil {
				return nil, err
			}
			if depth == 0 {
				return nil, errors.New("export is not an object literal")
			}
			quoted, err := json.Marshal(str)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			out.Write(quoted)
			i += n
			continue
		case depth == 0 && (c == ';' || c == '}'):
			return nil, errors.New("export is not an object literal")
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				out.WriteByte(c)
				return out.Bytes(), nil
			}
		}
		if depth > 0 {
			out.WriteByte(c)
		}
		i++
	}
	if depth == 0 {
		return nil, errors.New("export is not an object literal")
	}
	return nil, errors.New("unterminated object literal")
}

// unquote decodes the string literal at the start of s and reports how
// many bytes it spans, quotes included.
func unquote(s string) (string, int, error) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == quote:
			return b.String(), i + 1, nil
		case quote == '`' && c == '$' && strings.HasPrefix(s[i:], "${"):
			return "", 0, errors.New("template literals with expressions are not supported")
		case c == '\n' && quote != '`':
			return "", 0, errors.New("unterminated string literal")
		case c == '\\':
			n, err := unescape(&b, s[i+1:])
			if err != nil {
				return "", 0, err
			}
			i += n
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errors.New("unterminated string literal")
}

var simpleEscapes = map[byte]string{
	'n': "\n", 't': "\t", 'r': "\r", 'b': "\b", 'f': "\f", 'v': "\v",
}

// unescape writes the character an escape sequence stands for and returns
// the bytes it consumed after the backslash.
func unescape(b *strings.Builder, s string) (int, error) {
	if s == "" {
		return 0, errors.New("unterminated string literal")
	}
	switch c := s[0]; {
	case simpleEscapes[c] != "":
		b.WriteString(simpleEscapes[c])
		return 1, nil
	case c == '0' && (len(s) == 1 || s[1] < '0' || s[1] > '9'):
		b.WriteByte(0)
		return 1, nil
	case c == '\r':
		// line continuation
		if strings.HasPrefix(s, "\r\n") {
			return 2, nil
		}
		return 1, nil
	case c == '\n':
		return 1, nil
	case c == 'x':
		r, err := hexRune(s[1:], 2)
		if err != nil {
			return 0, err
		}
		b.WriteRune(r)
		return 3, nil
	case c == 'u':
		r, n, err := unicodeEscape(s)
		if err != nil {
			return 0, err
		}
		if utf16.IsSurrogate(r) && strings.HasPrefix(s[n:], "\\u") {
			if lo, m, err := unicodeEscape(s[n+1:]); err == nil {
				if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
					b.WriteRune(pair)
					return n + 1 + m, nil
				}
			}
		}
		b.WriteRune(r)
		return n, nil
	default:
		b.WriteByte(c)
		return 1, nil
	}
}

// unicodeEscape reads u0041 or u{1F600} from the start of s.
func unicodeEscape(s string) (rune, int, error) {
	if strings.HasPrefix(s, "u{") {
		end := strings.IndexByte(s, '}')
		if end < 0 {
			return 0, 0, errors.Errorf("bad unicode escape \\%s", s)
		}
		r, err := hexRune(s[2:end], end-2)
		return r, end + 1, err
	}
	r, err := hexRune(s[1:], 4)
	return r, 5, err
}

func hexRune(s string, n int) (rune, error) {
	if n == 0 || len(s) < n {
		return 0, errors.Errorf("bad escape sequence %q", s)
	}
	v, err := strconv.ParseUint(s[:n], 16, 32)
	if err != nil || v > unicode.MaxRune {
		return 0, errors.Errorf("bad escape sequence %q", s[:n])
	}
	return rune(v), nil
}
