package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestMinifyMediaTypes checks each supported asset kind
func TestMinifyMediaTypes(t *testing.T) {
	m := newMinifier()
	cases := []struct {
		kind  string
		input string
		want  string
	}{
		{"html", "<html>\n<head>\n<title>Test</title>\n</head>\n<body>\n<p> Hello   World! </p>\n</body>\n</html>", "<title>Test</title><p>Hello World!"},
		{"css", "\n body {\n color: #fff;\n margin: 0  ;\n }\n", "body{color:#fff;margin:0}"},
		{"js", "\n function add(a, b) {\n return a + b;\n }\n", "function add(e,t){return e+t}"},
	}
	for _, c := range cases {
		mt, ok := mediaTypeFor(c.kind)
		if !ok {
			t.Fatalf("mediaTypeFor(%q) not found", c.kind)
		}
		got, err := m.String(mt, c.input)
		if err != nil {
			t.Fatalf("%s minification failed: %v", c.kind, err)
		}
		got = strings.ReplaceAll(got, "\n", "")
		if got != c.want {
			t.Errorf("%s minification mismatch:\nGot:      %q\nExpected: %q", c.kind, got, c.want)
		}
	}
}

func TestMediaTypeFor(t *testing.T) {
	if mt, ok := mediaTypeFor(".CSS"); !ok || mt != "text/css" {
		t.Errorf("mediaTypeFor(.CSS) = %q, %v", mt, ok)
	}
	if _, ok := mediaTypeFor(".png"); ok {
		t.Error("mediaTypeFor(.png) should be unsupported")
	}
}

func TestMinifyTree(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	files := map[string]string{
		"static/css/a.css":     "body {  margin: 0 ; }",
		"static/js/a.js":       "var  x = 1 ;",
		"static/photos/a.jpg":  "JPEG",
		"templates/index.html": "<p>  hi  </p>",
	}
	for name, body := range files {
		if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(name, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := minifyTree(newMinifier(), "dist", "templates", "static")
	if err != nil {
		t.Fatalf("minifyTree: %v", err)
	}
	if n != 3 {
		t.Errorf("minifyTree minified %d files, want 3", n)
	}
	got, err := os.ReadFile(filepath.Join("dist", "static", "css", "a.css"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != "body{margin:0}" {
		t.Errorf("minified css = %q", got)
	}
	if _, err := os.Stat(filepath.Join("dist", "static", "photos", "a.jpg")); !os.IsNotExist(err) {
		t.Error("images should not be copied")
	}
}
