package script

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/zurustar/ipp-parse/pkg/status"
)

// DefaultEncoding はエンコーディング未指定時に使う名前
const DefaultEncoding = "utf-8"

// encodings は --encoding で指定できるエンコーディング
// UTF-8はBOMがあれば取り除く
var encodings = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"shift_jis":    japanese.ShiftJIS,
	"iso-8859-2":   charmap.ISO8859_2,
	"windows-1250": charmap.Windows1250,
}

// aliases は別名から正式名への対応
var aliases = map[string]string{
	"utf8":      "utf-8",
	"sjis":      "shift_jis",
	"shift-jis": "shift_jis",
	"latin2":    "iso-8859-2",
	"cp1250":    "windows-1250",
}

// Script は読み込んだソースを表す
type Script struct {
	FileName string // ファイル名（標準入力の場合は"-"）
	Content  string // UTF-8に変換された内容
	Size     int64  // 変換前のバイト数
	Encoding string // 使用したエンコーディングの正式名
}

// LookupEncoding エンコーディング名（大文字小文字を区別しない）を正式名に解決する
func LookupEncoding(name string) (string, bool) {
	if name == "" {
		return DefaultEncoding, true
	}
	key := strings.ToLower(name)
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	if _, ok := encodings[key]; !ok {
		return "", false
	}
	return key, true
}

// Encodings 指定可能なエンコーディングの正式名一覧
func Encodings() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Read ストリームを最後まで読み込み、UTF-8に変換する
// 読み込みや変換に失敗した場合はInputError
func Read(r io.Reader, encodingName string) (*Script, error) {
	canonical, ok := LookupEncoding(encodingName)
	if !ok {
		return nil, status.Newf(status.ArgumentError, "unknown encoding %q", encodingName)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, status.Wrap(status.InputError, err, "failed to read source")
	}

	content, err := decode(data, canonical)
	if err != nil {
		return nil, status.Wrap(status.InputError, err, fmt.Sprintf("failed to decode %s", canonical))
	}

	return &Script{
		FileName: "-",
		Content:  content,
		Size:     int64(len(data)),
		Encoding: canonical,
	}, nil
}

// Load ファイルを読み込み、UTF-8に変換する
// ファイルを開けない場合はInputError
func Load(path, encodingName string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, status.Wrap(status.InputError, err, fmt.Sprintf("failed to open %s", path))
	}
	defer f.Close()

	s, err := Read(f, encodingName)
	if err != nil {
		return nil, err
	}
	s.FileName = filepath.Base(path)
	return s, nil
}

// decode 指定されたエンコーディングからUTF-8に変換
func decode(data []byte, canonical string) (string, error) {
	var decoder transform.Transformer = encodings[canonical].NewDecoder()
	if canonical == DefaultEncoding {
		// BOMを取り除く
		decoder = unicode.BOMOverride(decoder)
	}

	utf8Data, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", err
	}
	return string(utf8Data), nil
}
