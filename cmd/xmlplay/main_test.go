package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTempFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.xml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunDumpsClassification(t *testing.T) {
	a := assert.New(t)
	path := writeTempFile(t, "<config>\n<item name='a'/>\n</config>\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-file", path}, &stdout, &stderr)
	a.Equal(0, code)
	a.Contains(stdout.String(), "HEAD <config>")
	a.Contains(stdout.String(), "ELEM <item>")
	a.Contains(stdout.String(), "TAIL <config>")
}

func TestRunDumpsAttrs(t *testing.T) {
	a := assert.New(t)
	path := writeTempFile(t, "<item name='a'/>\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-file", path, "-attrs"}, &stdout, &stderr)
	a.Equal(0, code)
	a.Contains(stdout.String(), `name="a"`)
}

func TestRunQueryEvaluatesXPath(t *testing.T) {
	a := assert.New(t)
	path := writeTempFile(t, "<config>\n<item name='a'/>\n<item name='b'/>\n</config>\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-file", path, "-xpath", "//item[@name='b']"}, &stdout, &stderr)
	a.Equal(0, code, stderr.String())
	a.Contains(stdout.String(), `name="b"`)
	a.NotContains(stdout.String(), `name="a"`)
}

func TestRunReportsMissingFile(t *testing.T) {
	a := assert.New(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"-file", "/no/such/file"}, &stdout, &stderr)
	a.Equal(1, code)
	a.Contains(stderr.String(), "error opening input")
}
