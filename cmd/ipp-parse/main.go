package main

import (
	"fmt"
	"io"
	"os"

	"github.com/tebeka/atexit"

	"github.com/zurustar/ipp-parse/pkg/app"
	"github.com/zurustar/ipp-parse/pkg/status"
)

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run はアプリケーションを実行して終了コードを返す
// 失敗した場合は標準エラー出力に1行だけ書く
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	application := app.New(stdin, stdout, stderr)
	if err := application.Run(args); err != nil {
		fmt.Fprintln(stderr, status.Describe(err))
		return status.Code(err)
	}
	return 0
}
