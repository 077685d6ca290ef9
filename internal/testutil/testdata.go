package testutil

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Fields lists the discarded field widths of a synthetic record. The
// channel byte is always one byte wide and sits right after the header.
type Fields struct {
	Header  int
	Control int
	Encoder int
}

// LegacyFields matches the legacy record layout.
var LegacyFields = Fields{Header: 4, Control: 3}

// Record describes one synthetic record.
type Record struct {
	Channel byte
	Payload []byte
}

// BuildRecord encodes one record. Header, control and encoder bytes are
// filled with recognizable junk so a decoder that reads them as samples fails.
func BuildRecord(f Fields, rec Record) []byte {
	var buf bytes.Buffer
	buf.Write(bytes.Repeat([]byte{0xA5}, f.Header))
	buf.WriteByte(rec.Channel)
	buf.Write(bytes.Repeat([]byte{0x5A}, f.Control))
	buf.Write(bytes.Repeat([]byte{0xEE}, f.Encoder))
	buf.Write(rec.Payload)
	return buf.Bytes()
}

// BuildStream concatenates records and appends any trailing stray bytes.
func BuildStream(f Fields, recs []Record, trailing ...byte) []byte {
	var buf bytes.Buffer
	for _, rec := range recs {
		buf.Write(BuildRecord(f, rec))
	}
	buf.Write(trailing)
	return buf.Bytes()
}

// Payload returns n bytes starting with head and padded with fill.
func Payload(n int, fill byte, head ...byte) []byte {
	out := bytes.Repeat([]byte{fill}, n)
	copy(out, head)
	return out
}

// WriteFile stores data under dir/name and returns the path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// LoadJSON loads a JSON fixture from testdata relative to the repo root.
func LoadJSON(t *testing.T, rel string, v any) {
	t.Helper()
	data := readTestdata(t, rel)
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", rel, err)
	}
}

// LoadHex decodes a hex fixture, ignoring whitespace and '#' comment lines.
func LoadHex(t *testing.T, rel string) []byte {
	t.Helper()
	var clean strings.Builder
	for _, line := range strings.Split(string(readTestdata(t, rel)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		clean.WriteString(strings.Join(strings.Fields(line), ""))
	}
	data, err := hex.DecodeString(clean.String())
	if err != nil {
		t.Fatalf("decode hex %s: %v", rel, err)
	}
	return data
}

func readTestdata(t *testing.T, rel string) []byte {
	t.Helper()
	candidates := []string{
		filepath.Join("testdata", rel),
		filepath.Join("..", "testdata", rel),
		filepath.Join("..", "..", "testdata", rel),
		filepath.Join("..", "..", "..", "testdata", rel),
	}
	for _, path := range candidates {
		if data, err := os.ReadFile(path); err == nil {
			return data
		}
	}
	t.Fatalf("unable to locate testdata file %s", rel)
	return nil
}
