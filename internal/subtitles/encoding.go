package subtitles

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// chardet reports a few names the WHATWG index does not know.
var charsetAliases = map[string]string{
	"gb-18030":     "gb18030",
	"iso-8859-8-i": "iso-8859-8",
}

// DecodeText converts raw caption bytes to a UTF-8 string. The encoding is
// chosen from the content: a byte order mark wins, valid UTF-8 is accepted
// as is, and anything else goes through charset detection. The detected
// charset name is returned for logging.
func DecodeText(data []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), "UTF-8", nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data, "UTF-16LE")
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data, "UTF-16BE")
	}
	if utf8.Valid(data) {
		return string(data), "UTF-8", nil
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", "", fmt.Errorf("detect charset: %w", err)
	}
	name := strings.ToLower(strings.TrimSpace(result.Charset))
	if alias, ok := charsetAliases[name]; ok {
		name = alias
	}
	if name == "utf-8" {
		return "", result.Charset, fmt.Errorf("content is not valid UTF-8")
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", result.Charset, fmt.Errorf("unsupported charset %q: %w", result.Charset, err)
	}
	return decodeWith(enc, data, result.Charset)
}

func decodeWith(enc encoding.Encoding, data []byte, name string) (string, string, error) {
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", name, fmt.Errorf("decode %s: %w", name, err)
	}
	return string(decoded), name, nil
}
