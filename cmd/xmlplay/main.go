// Command xmlplay drives the xmlinput stack end to end against a file
// or stdin: it prints each line's classification and attributes, and,
// given --xpath, assembles the current run of markup into a tree and
// evaluates the expression against it.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"

	"github.com/rose00/xmlinput/block"
	"github.com/rose00/xmlinput/line"
	"github.com/rose00/xmlinput/query"
	"github.com/rose00/xmlinput/xmlscan"
)

func main() {
	flag.Parse()
	os.Exit(run(flag.Args(), os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("xmlplay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	filePath := fs.String("file", "", "path to input file (default: stdin)")
	xpathExpr := fs.String("xpath", "", "if set, assemble the current markup run into a tree and evaluate this XPath expression against it")
	strict := fs.Bool("strict", false, "reject unquoted attribute values instead of the cheesy space-terminated fallback")
	dumpAttrs := fs.Bool("attrs", false, "print attributes alongside each classified line")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags]\n\n", os.Args[0])
		fmt.Fprintln(stderr, "Classifies each line of input and, optionally, runs an XPath query.")
		fmt.Fprintln(stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	src, closeSrc, err := openSource(*filePath)
	if err != nil {
		fmt.Fprintf(stderr, "error opening input: %v\n", err)
		return 1
	}
	defer closeSrc()

	var opts []xmlscan.Option
	if *strict {
		opts = append(opts, xmlscan.WithStrictAttributes())
	}
	s := xmlscan.New(line.New(src), opts...)

	if *xpathExpr != "" {
		return runQuery(s, *xpathExpr, stdout, stderr)
	}
	return runDump(s, *dumpAttrs, stdout, stderr)
}

func openSource(path string) (src block.Source, closeFn func() error, err error) {
	if path == "" {
		fs := block.NewFileSourceFromFile(os.Stdin, false)
		return fs, fs.Close, nil
	}
	fs, err := block.NewFileSource(path)
	if err != nil {
		return nil, nil, err
	}
	return fs, fs.Close, nil
}

func runDump(s *xmlscan.Scanner, dumpAttrs bool, stdout, stderr io.Writer) int {
	for !s.Done() {
		glog.V(2).Infof("line %d: kind=%s", s.Reader().Lineno(), s.Kind())
		switch s.Kind() {
		case xmlscan.TEXT:
			fmt.Fprintf(stdout, "%4d TEXT %q\n", s.Reader().Lineno(), s.Text())
		default:
			fmt.Fprintf(stdout, "%4d %-4s <%s>\n", s.Reader().Lineno(), s.Kind(), s.Tag())
		}
		if dumpAttrs {
			for i := 0; i < s.AttrCount(); i++ {
				fmt.Fprintf(stdout, "       %s=%q\n", s.AttrName(i), s.AttrValue(i))
			}
			if err := s.AttrErr(); err != nil {
				fmt.Fprintf(stderr, "       attribute error: %v\n", err)
			}
		}
		if !s.Next() {
			break
		}
	}
	return 0
}

func runQuery(s *xmlscan.Scanner, expr string, stdout, stderr io.Writer) int {
	for !s.Done() && s.IsText() {
		if !s.Next() {
			fmt.Fprintln(stderr, "error: input contains no markup to query")
			return 1
		}
	}
	if s.Done() {
		fmt.Fprintln(stderr, "error: input contains no markup to query")
		return 1
	}

	tree, err := query.Build(s)
	if err != nil {
		fmt.Fprintf(stderr, "error assembling tree: %v\n", err)
		return 1
	}

	nodes, err := tree.QueryString(expr)
	if err != nil {
		fmt.Fprintf(stderr, "error evaluating xpath: %v\n", err)
		return 1
	}
	for _, n := range nodes {
		fmt.Fprintln(stdout, n.OutputXML(true))
	}
	return 0
}
