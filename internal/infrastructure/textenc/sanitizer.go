package textenc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"vision-mcp/internal/domain/port"
)

// replacementChar подставляется вместо символов, которых нет в кодировке
const replacementChar = "?"

// Sanitizer перекодирует текст в выходную кодировку (MCP_OUTPUT_ENCODING)
// и обратно, заменяя непредставимые символы вместо ошибки.
type Sanitizer struct {
	name  string
	enc   encoding.Encoding
	ascii bool
}

// asciiNames IANA-имена US-ASCII. ianaindex не отдаёт для них кодировщик,
// а htmlindex подменяет их на windows-1252.
var asciiNames = map[string]bool{
	"ascii":          true,
	"us-ascii":       true,
	"us":             true,
	"ansi_x3.4-1968": true,
	"ansi_x3.4-1986": true,
	"iso646-us":      true,
	"iso-ir-6":       true,
	"ibm367":         true,
	"cp367":          true,
	"csascii":        true,
}

// NewSanitizer ищет кодировку по имени (utf-8, latin1, windows-1251, shift_jis ...)
func NewSanitizer(name string) (*Sanitizer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "utf-8"
	}
	if asciiNames[strings.ToLower(name)] {
		return &Sanitizer{name: name, ascii: true}, nil
	}
	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return &Sanitizer{name: name, enc: enc}, nil
}

// lookup сначала ищет имя в реестре IANA (latin1 = ISO-8859-1),
// и только потом среди меток WHATWG.
func lookup(name string) (encoding.Encoding, error) {
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown output encoding %q: %w", name, err)
	}
	return enc, nil
}

// Name имя кодировки
func (s *Sanitizer) Name() string {
	return s.name
}

// Sanitize возвращает строку, которую можно без потерь передать в выходной кодировке
func (s *Sanitizer) Sanitize(text string) string {
	if s.ascii {
		return sanitizeASCII(text)
	}
	if isUTF8(s.enc) {
		return strings.ToValidUTF8(text, "�")
	}

	encoder := s.enc.NewEncoder()
	decoder := s.enc.NewDecoder()

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == utf8.RuneError {
			b.WriteString(replacementChar)
			continue
		}
		encoded, err := encoder.String(string(r))
		if err != nil {
			b.WriteString(replacementChar)
			continue
		}
		decoded, err := decoder.String(encoded)
		if err != nil {
			b.WriteString(replacementChar)
			continue
		}
		b.WriteString(decoded)
	}
	return b.String()
}

func isUTF8(enc encoding.Encoding) bool {
	if enc == unicode.UTF8 {
		return true
	}
	name, err := ianaindex.IANA.Name(enc)
	return err == nil && strings.EqualFold(name, "UTF-8")
}

func sanitizeASCII(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r >= utf8.RuneSelf {
			b.WriteString(replacementChar)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ port.OutputSanitizer = (*Sanitizer)(nil)
