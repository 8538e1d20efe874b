package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/zurustar/ipp-parse/pkg/cli"
	"github.com/zurustar/ipp-parse/pkg/compiler"
	"github.com/zurustar/ipp-parse/pkg/compiler/codegen"
	"github.com/zurustar/ipp-parse/pkg/compiler/parser"
	"github.com/zurustar/ipp-parse/pkg/logger"
	"github.com/zurustar/ipp-parse/pkg/script"
	"github.com/zurustar/ipp-parse/pkg/stats"
	"github.com/zurustar/ipp-parse/pkg/status"
)

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config *cli.Config
	log    *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New Applicationを作成
func New(stdin io.Reader, stdout, stderr io.Writer) *Application {
	return &Application{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run アプリケーションを実行
// 返すエラーは必ずstatus.KindOfで分類できる
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp(app.stdout)
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Info("Application started", "extensions", app.config.Extensions, "strict_case", app.config.StrictCase)

	// 3. ソースの読み込み
	s, err := app.loadScript()
	if err != nil {
		return fmt.Errorf("failed to load source: %w", err)
	}

	app.log.Info("Source loaded", "name", s.FileName, "size", s.Size, "encoding", s.Encoding)
	app.log.Debug("Source content preview", "preview", truncate(s.Content, 100))

	// 4. 検証とプログラムの構築
	result, err := app.compileScript(s)
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", s.FileName, err)
	}

	app.log.Info("Source validated", "instructions", result.Program.Len(), "comments", result.Counters.Comments)
	if app.log.Enabled(context.Background(), slog.LevelDebug) {
		if err := codegen.Listing(app.stderr, result.Program, result.Counters); err != nil {
			app.log.Warn("Failed to print listing", "error", err)
		}
	}

	// 5. XML文書の生成（出力はすべて成功してから）
	doc, err := codegen.New().Generate(result.Program)
	if err != nil {
		return status.Wrap(status.InternalError, err, "failed to generate document")
	}

	// 6. 統計ファイルの出力
	if err := app.writeStats(result.Counters); err != nil {
		return fmt.Errorf("failed to write statistics: %w", err)
	}

	// 7. 標準出力へ書き出し
	if _, err := app.stdout.Write(doc); err != nil {
		app.removeStats()
		return status.Wrap(status.OutputError, err, "failed to write document")
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLogger(app.config.LogLevel, app.stderr); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// loadScript ソースを読み込む（--source指定時はファイル、それ以外は標準入力）
func (app *Application) loadScript() (*script.Script, error) {
	if app.config.SourcePath != "" {
		return script.Load(app.config.SourcePath, app.config.Encoding)
	}
	return script.Read(app.stdin, app.config.Encoding)
}

// compileScript ソースを検証してプログラムを構築
// 失敗した場合はデバッグログにエラー箇所の前後を出す
func (app *Application) compileScript(s *script.Script) (*compiler.Result, error) {
	opts := compiler.CompileOptions{
		Parser: parser.Options{
			StrictCase: app.config.StrictCase,
			Extensions: app.config.Extensions,
		},
	}

	result, err := compiler.Compile(s.Content, opts)
	if err != nil {
		var ce *compiler.CompileError
		if errors.As(err, &ce) {
			app.log.Debug("Validation failed", "kind", ce.ErrorKind(), "line", ce.Line, "column", ce.Column)
			if ce.Context != "" {
				app.log.Debug("Source context\n" + ce.Context)
			}
		}
		return nil, err
	}
	return result, nil
}

// writeStats 統計ファイルを書き出す（--stats指定時のみ）
func (app *Application) writeStats(counters stats.Counters) error {
	if app.config.StatsPath == "" {
		return nil
	}
	if err := stats.Write(app.config.StatsPath, counters, app.config.StatsOrder); err != nil {
		return err
	}
	app.log.Info("Statistics written", "path", app.config.StatsPath, "counters", len(app.config.StatsOrder))
	return nil
}

// removeStats 失敗した実行の統計ファイルを削除する
func (app *Application) removeStats() {
	if app.config.StatsPath == "" {
		return
	}
	if err := os.Remove(app.config.StatsPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		app.log.Warn("Failed to remove statistics", "path", app.config.StatsPath, "error", err)
	}
}

// truncate 文字列を指定した長さで切り詰める
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
