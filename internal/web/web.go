// Package web は埋め込みのシングルページアプリケーションを配信する。
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed static
var staticFiles embed.FS

// Handler は静的アセットを配信するHTTPハンドラーを返す。
// 実在しないパスへのHTML要求はindex.htmlへフォールバックする（SPAルーティング）。
// HTML以外を要求する未知のパスとGET/HEAD以外のメソッドはnotFoundに委譲し、
// APIクライアントにはJSONの404が返るようにする。
func Handler(notFound http.Handler) http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			notFound.ServeHTTP(w, r)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/")
		if path != "" {
			if _, err := fs.Stat(sub, path); err == nil {
				fileServer.ServeHTTP(w, r)
				return
			}
			if !acceptsHTML(r) {
				notFound.ServeHTTP(w, r)
				return
			}
		}

		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}

// acceptsHTML はリクエストがHTMLレスポンスを受け入れるかを返す。
// ブラウザのページ遷移はAcceptにtext/htmlを含む。
func acceptsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
