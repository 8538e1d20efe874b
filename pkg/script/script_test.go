package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/zurustar/ipp-parse/pkg/status"
)

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"", "utf-8", true},
		{"UTF-8", "utf-8", true},
		{"utf8", "utf-8", true},
		{"Shift_JIS", "shift_jis", true},
		{"sjis", "shift_jis", true},
		{"latin2", "iso-8859-2", true},
		{"cp1250", "windows-1250", true},
		{"ebcdic", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := LookupEncoding(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("LookupEncoding(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEncodings_Sorted(t *testing.T) {
	names := Encodings()
	if len(names) != 4 {
		t.Fatalf("expected 4 encodings, got %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("not sorted: %v", names)
		}
	}
}

func TestRead_UTF8(t *testing.T) {
	s, err := Read(strings.NewReader(".IPPcode20\nWRITE string@žluťoučký\n"), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(s.Content, "žluťoučký") {
		t.Errorf("content mismatch: %q", s.Content)
	}
	if s.FileName != "-" || s.Encoding != "utf-8" {
		t.Errorf("unexpected metadata: %+v", s)
	}
}

func TestRead_StripsBOM(t *testing.T) {
	s, err := Read(strings.NewReader("\ufeff.IPPcode20\n"), "utf-8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Content != ".IPPcode20\n" {
		t.Errorf("BOM should be stripped, got %q", s.Content)
	}
	if s.Size != int64(len("\ufeff.IPPcode20\n")) {
		t.Errorf("Size should count raw bytes, got %d", s.Size)
	}
}

func TestRead_ShiftJIS(t *testing.T) {
	// UTF-8からShift-JISに変換したデータを用意
	original := "WRITE string@日本語\n"
	sjis, _, err := transform.String(japanese.ShiftJIS.NewEncoder(), original)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	s, err := Read(strings.NewReader(sjis), "shift_jis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Content != original {
		t.Errorf("got %q, want %q", s.Content, original)
	}
}

func TestRead_ISO88592(t *testing.T) {
	original := "# příliš žluťoučký kůň\n"
	latin2, err := charmap.ISO8859_2.NewEncoder().String(original)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	s, err := Read(strings.NewReader(latin2), "iso-8859-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Content != original {
		t.Errorf("got %q, want %q", s.Content, original)
	}
}

func TestRead_UnknownEncoding(t *testing.T) {
	_, err := Read(strings.NewReader(""), "ebcdic")
	if status.KindOf(err) != status.ArgumentError {
		t.Errorf("expected ArgumentError, got %v", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("device not ready")
}

func TestRead_ReadFailure(t *testing.T) {
	_, err := Read(failingReader{}, "")
	if status.KindOf(err) != status.InputError {
		t.Errorf("expected InputError, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "prog.ipp")
	if err := os.WriteFile(path, []byte(".IPPcode20\n"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	s, err := Load(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.FileName != "prog.ipp" {
		t.Errorf("FileName = %q", s.FileName)
	}
	if s.Content != ".IPPcode20\n" {
		t.Errorf("Content = %q", s.Content)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ipp"), "")
	if status.KindOf(err) != status.InputError {
		t.Errorf("expected InputError, got %v", err)
	}
	if status.Code(err) != 11 {
		t.Errorf("expected exit code 11, got %d", status.Code(err))
	}
}
