package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5/util"
)

type pathParams struct {
	Path string `json:"path"`
}

type writeFileParams struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// absPath resolves relative paths against the working directory. There is no
// sandboxing: any path the process can reach is allowed.
func absPath(p string) (string, error) {
	if p == "" {
		return "", InvalidRequest("path is empty")
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", IOError(err)
	}
	return abs, nil
}

func readFile(_ context.Context, app *App, raw json.RawMessage) (any, error) {
	p, err := decodeParams[pathParams](raw)
	if err != nil {
		return nil, err
	}
	path, err := absPath(p.Path)
	if err != nil {
		return nil, err
	}
	b, err := util.ReadFile(app.fs, path)
	if err != nil {
		return nil, IOError(err)
	}
	if !utf8.Valid(b) {
		return nil, IOError(fmt.Errorf("%s: file is not valid UTF-8", path))
	}
	return string(b), nil
}

func writeFile(_ context.Context, app *App, raw json.RawMessage) (any, error) {
	p, err := decodeParams[writeFileParams](raw)
	if err != nil {
		return nil, err
	}
	path, err := absPath(p.Path)
	if err != nil {
		return nil, err
	}
	if err := util.WriteFile(app.fs, path, []byte(p.Content), 0o644); err != nil {
		return nil, IOError(err)
	}
	return nil, nil
}

func listDirectory(_ context.Context, app *App, raw json.RawMessage) (any, error) {
	p, err := decodeParams[pathParams](raw)
	if err != nil {
		return nil, err
	}
	path, err := absPath(p.Path)
	if err != nil {
		return nil, err
	}
	entries, err := app.fs.ReadDir(path)
	if err != nil {
		return nil, IOError(err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, app.fs.Join(path, e.Name()))
	}
	return out, nil
}
