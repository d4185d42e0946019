package subtitles

import (
	"strings"
	"testing"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

func TestDecodeTextUTF8(t *testing.T) {
	text, charset, err := DecodeText([]byte("1\n00:00:01,000 --> 00:00:02,000\n字幕\n"))
	if err != nil {
		t.Fatalf("DecodeText: %v", err)
	}
	if charset != "UTF-8" || !strings.Contains(text, "字幕") {
		t.Fatalf("unexpected decode: %q (%s)", text, charset)
	}
}

func TestDecodeTextStripsUTF8BOM(t *testing.T) {
	text, _, err := DecodeText(append([]byte{0xEF, 0xBB, 0xBF}, []byte("abc")...))
	if err != nil {
		t.Fatal(err)
	}
	if text != "abc" {
		t.Fatalf("text = %q", text)
	}
}

func TestDecodeTextUTF16(t *testing.T) {
	source := "1\r\n00:00:01,000 --> 00:00:02,000\r\nHéllo\r\n"
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(source))
	if err != nil {
		t.Fatal(err)
	}
	text, charset, err := DecodeText(encoded)
	if err != nil {
		t.Fatalf("DecodeText: %v", err)
	}
	if charset != "UTF-16LE" {
		t.Fatalf("charset = %s", charset)
	}
	if text != source {
		t.Fatalf("text = %q", text)
	}
}

func TestDecodeTextLegacySingleByte(t *testing.T) {
	// "café crème" in ISO-8859-1 / windows-1252.
	data := []byte("1\n00:00:01,000 --> 00:00:02,000\ncaf\xe9 cr\xe8me, d\xe9j\xe0 vu, tr\xe8s s\xfbr\n")
	text, _, err := DecodeText(data)
	if err != nil {
		t.Fatalf("DecodeText: %v", err)
	}
	if !utf8.ValidString(text) {
		t.Fatalf("decoded text is not UTF-8: %q", text)
	}
	cues, err := ParseSRT(text)
	if err != nil || len(cues) != 1 || !strings.HasPrefix(cues[0].Text, "caf") {
		t.Fatalf("unexpected cues %+v err=%v", cues, err)
	}
}
