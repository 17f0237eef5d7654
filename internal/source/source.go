package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/GriffinCanCode/AgentOS/a11y/internal/dom"
	"github.com/GriffinCanCode/AgentOS/a11y/internal/shared/utils"
)

// Stdin is the argument that reads one document from standard input.
const Stdin = "-"

var (
	ErrNoInput = errors.New("no input documents matched")
	ErrNotHTML = errors.New("file is not html")
)

// htmlExts are scanned during directory walks without sniffing.
var htmlExts = map[string]bool{
	".html":  true,
	".htm":   true,
	".xhtml": true,
	".shtml": true,
}

// Document is one loaded input.
type Document struct {
	Path string
	HTML string
}

// Loader expands CLI arguments into documents.
type Loader struct {
	// MaxBytes caps each decompressed document. Zero uses the default.
	MaxBytes int
	// Stdin is read for the "-" argument.
	Stdin io.Reader
}

// Expand resolves args (files, directories, doublestar globs) to a sorted,
// de-duplicated list of paths. Directories are walked for HTML files,
// compressed ones included.
func (l *Loader) Expand(ctx context.Context, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if arg == Stdin {
			paths = append(paths, Stdin)
			continue
		}

		if strings.ContainsAny(arg, "*?[{") {
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("glob %s: %w", arg, err)
			}
			paths = append(paths, matches...)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		found, err := walkHTML(ctx, arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}

	paths = utils.Deduplicate(paths)
	if len(paths) == 0 {
		return nil, ErrNoInput
	}
	sort.Strings(paths)
	return paths, nil
}

func walkHTML(ctx context.Context, root string) ([]string, error) {
	var (
		mu      sync.Mutex
		matches []string
	)
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil || d.IsDir() {
			return nil
		}
		if htmlExts[htmlExt(p)] {
			mu.Lock()
			matches = append(matches, p)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return matches, nil
}

// htmlExt returns the extension under any compression suffix.
func htmlExt(p string) string {
	ext := strings.ToLower(filepath.Ext(p))
	if ext == ".gz" || ext == ".zst" {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(p, filepath.Ext(p))))
	}
	return ext
}

// Load reads, decompresses and decodes one path. Files that do not carry
// an HTML extension are sniffed and rejected unless they look like HTML or
// plain text.
func (l *Loader) Load(path string) (*Document, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}

	if path != Stdin && !htmlExts[htmlExt(path)] {
		mt := mimetype.Detect(data)
		if !mt.Is("text/html") && !mt.Is("application/xhtml+xml") && !mt.Is("text/plain") {
			return nil, fmt.Errorf("%w: %s is %s", ErrNotHTML, path, mt.String())
		}
	}

	content := dom.Decode(data)
	if err := utils.ValidateHTML(content, l.maxBytes()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Document{Path: path, HTML: content}, nil
}

func (l *Loader) read(path string) ([]byte, error) {
	var r io.Reader
	if path == Stdin {
		if l.Stdin == nil {
			return nil, fmt.Errorf("no stdin reader configured")
		}
		r = l.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	// One byte over the limit is enough to report ErrHTMLTooLarge.
	data, err := io.ReadAll(io.LimitReader(r, int64(l.maxBytes())+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (l *Loader) maxBytes() int {
	if l.MaxBytes > 0 {
		return l.MaxBytes
	}
	return utils.DefaultMaxHTMLBytes
}
