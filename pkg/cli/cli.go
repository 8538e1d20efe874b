package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zurustar/ipp-parse/pkg/opcode"
	"github.com/zurustar/ipp-parse/pkg/script"
	"github.com/zurustar/ipp-parse/pkg/stats"
	"github.com/zurustar/ipp-parse/pkg/status"
)

// DefaultLogLevel は標準出力を汚さないよう警告以上のみを出す
const DefaultLogLevel = "warn"

// Config はコマンドライン引数から解析された設定を保持する
// 一度作られたら変更しない
type Config struct {
	SourcePath string           // ソースファイルのパス（空なら標準入力）
	StatsPath  string           // 統計ファイルのパス（空なら出力しない）
	StatsOrder []stats.Counter  // 統計ファイルに書くカウンタ（指定順、重複可）
	Encoding   string           // ソースの文字コード（正規化済み）
	StrictCase bool             // ヘッダーとオペコードの大文字小文字を区別する
	Extensions opcode.Extension // 有効な命令セット拡張
	LogLevel   string           // ログレベル（debug, info, warn, error）
	ShowHelp   bool             // ヘルプ表示フラグ
}

// ParseArgs コマンドライン引数を解析してConfigを返す
// 失敗は全てArgumentErrorとして分類される
func ParseArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("ipp-parse", flag.ContinueOnError)
	// flagパッケージ自身のUsage出力は抑止する（エラー出力は1行だけ）
	fs.SetOutput(io.Discard)

	config := &Config{}
	var statsSeen, sourceSeen int

	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")
	fs.Func("stats", "統計ファイルのパス", func(v string) error {
		statsSeen++
		config.StatsPath = v
		return nil
	})
	fs.Func("source", "ソースファイルのパス", func(v string) error {
		sourceSeen++
		config.SourcePath = v
		return nil
	})
	for _, counter := range stats.AllCounters() {
		counter := counter
		fs.BoolFunc(counter.String(), "統計に"+counter.String()+"を出力", func(v string) error {
			if v != "true" {
				return fmt.Errorf("--%s does not take a value", counter)
			}
			config.StatsOrder = append(config.StatsOrder, counter)
			return nil
		})
	}
	fs.StringVar(&config.Encoding, "encoding", script.DefaultEncoding, "ソースの文字コード")
	fs.BoolVar(&config.StrictCase, "strict-case", false, "大文字小文字を区別する")
	fs.Func("extensions", "命令セット拡張（カンマ区切り）", func(v string) error {
		ext, err := parseExtensions(v)
		if err != nil {
			return err
		}
		config.Extensions |= ext
		return nil
	})
	fs.StringVar(&config.LogLevel, "log-level", "", "ログレベル（debug, info, warn, error）")

	if err := fs.Parse(args); err != nil {
		return nil, status.Wrap(status.ArgumentError, err, "invalid arguments")
	}

	// --help は単独でのみ有効
	if config.ShowHelp {
		if len(args) != 1 {
			return nil, status.New(status.ArgumentError, "--help cannot be combined with other arguments")
		}
		config.LogLevel = DefaultLogLevel
		config.Encoding = script.DefaultEncoding
		return config, nil
	}

	if fs.NArg() > 0 {
		return nil, status.Newf(status.ArgumentError, "unexpected argument %q", fs.Arg(0))
	}
	if statsSeen > 1 {
		return nil, status.New(status.ArgumentError, "--stats given more than once")
	}
	if sourceSeen > 1 {
		return nil, status.New(status.ArgumentError, "--source given more than once")
	}
	if len(config.StatsOrder) > 0 && statsSeen == 0 {
		return nil, status.New(status.ArgumentError, "statistics selected without --stats")
	}
	if statsSeen > 0 && config.StatsPath == "" {
		return nil, status.New(status.ArgumentError, "--stats requires a file name")
	}
	if sourceSeen > 0 && config.SourcePath == "" {
		return nil, status.New(status.ArgumentError, "--source requires a file name")
	}

	encoding, ok := script.LookupEncoding(config.Encoding)
	if !ok {
		return nil, status.Newf(status.ArgumentError, "unknown encoding %q (supported: %s)",
			config.Encoding, strings.Join(script.Encodings(), ", "))
	}
	config.Encoding = encoding

	// 環境変数からログレベルを取得（コマンドラインフラグが優先）
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = logLevelEnv
		}
	}
	config.LogLevel = strings.ToLower(config.LogLevel)

	// ログレベルの検証
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, status.Newf(status.ArgumentError,
			"invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	return config, nil
}

// parseExtensions カンマ区切りの拡張名を解析する
func parseExtensions(list string) (opcode.Extension, error) {
	ext := opcode.Core
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		e, ok := opcode.ParseExtension(name)
		if !ok {
			return opcode.Core, fmt.Errorf("unknown extension %q", name)
		}
		ext |= e
	}
	return ext, nil
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `ipp-parse - %s source validator

Reads %s source from standard input, validates it and writes its XML
representation to standard output.

Usage:
  ipp-parse [options] < program.src

Options:
  --source=FILE               read the source from FILE instead of standard input
  --stats=FILE                write the selected statistics to FILE
  --loc                       number of instructions
  --comments                  number of comments
  --labels                    number of LABEL instructions
  --jumps                     number of jump instructions
                              (selected in the given order, one per line)
  --encoding=NAME             source encoding: %s (default: %s)
  --strict-case               match the header and opcodes case-sensitively
  --extensions=LIST           enable instruction-set extensions: stack, float
  --log-level=LEVEL           debug, info, warn, error (default: %s)
  -h, --help                  show this help; must be the only argument

Environment Variables:
  LOG_LEVEL=<level>           log level when --log-level is not given

Exit codes:
  0   success
  10  missing or invalid argument combination
  11  input file cannot be opened
  12  output file cannot be opened
  21  missing or malformed header
  22  unknown opcode
  23  other lexical or syntax error
  99  internal error
`, opcode.Language, opcode.Language, strings.Join(script.Encodings(), ", "), script.DefaultEncoding, DefaultLogLevel)
}
