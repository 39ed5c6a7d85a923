// Command minify shrinks the quest's templates, stylesheets and scripts.
//
// Single file:  go run ./cmd/minify -input=static/css/quest.css -output=dist/static/css/quest.css -type=css
// Whole tree:   go run ./cmd/minify -dist=dist
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

var mediaTypes = map[string]string{
	"css":  "text/css",
	"js":   "application/javascript",
	"html": "text/html",
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("application/javascript", js.Minify)
	return m
}

// mediaTypeFor maps a type flag or a file extension to a media type.
func mediaTypeFor(kind string) (string, bool) {
	mt, ok := mediaTypes[strings.TrimPrefix(strings.ToLower(kind), ".")]
	return mt, ok
}

// minifyFile minifies src into dst and returns both sizes.
func minifyFile(m *minify.M, src, dst, mediaType string) (int, int, error) {
	input, err := os.ReadFile(src)
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", src, err)
	}
	out, err := m.Bytes(mediaType, input)
	if err != nil {
		return 0, 0, fmt.Errorf("minify %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, 0, fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return 0, 0, fmt.Errorf("write %s: %w", dst, err)
	}
	return len(input), len(out), nil
}

// minifyTree minifies every known asset under each root into dist,
// keeping relative paths. Other files are skipped.
func minifyTree(m *minify.M, dist string, roots ...string) (int, error) {
	count := 0
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			mt, ok := mediaTypeFor(filepath.Ext(path))
			if !ok {
				return nil
			}
			before, after, err := minifyFile(m, path, filepath.Join(dist, path), mt)
			if err != nil {
				return err
			}
			count++
			if before > 0 {
				fmt.Printf("%s: %d bytes -> %d bytes (%.1f%% reduction)\n",
					path, before, after, float64(before-after)/float64(before)*100)
			}
			return nil
		})
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

func main() {
	var (
		inputFile  = flag.String("input", "", "Input file path")
		outputFile = flag.String("output", "", "Output file path")
		fileType   = flag.String("type", "", "File type (css, js or html)")
		distDir    = flag.String("dist", "", "Minify templates/ and static/ into this directory")
	)
	flag.Parse()

	m := newMinifier()

	if *distDir != "" {
		n, err := minifyTree(m, *distDir, "templates", "static")
		if err != nil {
			log.Fatalf("Failed to minify assets: %v", err)
		}
		fmt.Printf("Minified %d files into %s\n", n, *distDir)
		return
	}

	if *inputFile == "" || *outputFile == "" || *fileType == "" {
		log.Fatal("Usage: go run ./cmd/minify -input=<file> -output=<file> -type=<css|js|html> | -dist=<dir>")
	}
	mt, ok := mediaTypeFor(*fileType)
	if !ok {
		log.Fatalf("Unsupported file type: %s (supported: css, js, html)", *fileType)
	}
	if _, _, err := minifyFile(m, *inputFile, *outputFile, mt); err != nil {
		log.Fatalf("Failed to minify: %v", err)
	}
	fmt.Printf("Successfully minified %s -> %s\n", *inputFile, *outputFile)
}
