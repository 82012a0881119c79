// Package episode merges the JAXB episode files of a multi-module build into a
// single binding document.
package episode

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fulmenhq/episodemerge/pkg/logger"
	"github.com/fulmenhq/episodemerge/pkg/safeio"
	"golang.org/x/text/encoding/unicode"
)

// Document is a merged binding document
type Document struct {
	Bytes     []byte
	Namespace Namespace
	IfExists  string
	Strategy  Strategy
	// Sources are the merged input paths in scan order
	Sources []string
}

// Result reports the outcome of Run
type Result struct {
	// Sources are the located input paths
	Sources []string
	// Skipped is set when fewer than two inputs were found and nothing was written
	Skipped bool
	// OutputPath is the written merged file, empty when Skipped
	OutputPath string
	Document   *Document
}

// source is one input file decoded to text
type source struct {
	path string
	text string
}

// readSource reads path as UTF-8, dropping a leading byte order mark
func readSource(base, path string) (source, error) {
	raw, err := safeio.ReadFileContained(base, path)
	if err != nil {
		return source{}, &IOError{Op: "read", Path: path, Wrapped: err}
	}
	text, err := unicode.UTF8BOM.NewDecoder().Bytes(raw)
	if err != nil {
		return source{}, &IOError{Op: "decode", Path: path, Wrapped: err}
	}
	return source{path: path, text: string(text)}, nil
}

func progress(req Request, msg string, fields ...logger.Field) {
	if req.Verbose {
		logger.Info(msg, fields...)
		return
	}
	logger.Debug(msg, fields...)
}

// Merge combines files with the strategy of req and returns the document in
// memory. Nothing is written.
func Merge(req Request, files []string) (*Document, error) {
	strategy := DefaultStrategy
	if req.Strategy != "" {
		parsed, err := ParseStrategy(string(req.Strategy))
		if err != nil {
			return nil, err
		}
		strategy = parsed
	}
	now := time.Now
	if req.Now != nil {
		now = req.Now
	}
	ns := NamespaceFor(req.UseJakarta)

	base := req.BaseDirectory
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}

	sources := make([]source, 0, len(files))
	for _, f := range files {
		src, err := readSource(base, f)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	header := Header(files, now())
	progress(req, fmt.Sprintf("Merging %d files", len(files)), logger.String("strategy", string(strategy)))

	var (
		out []byte
		err error
	)
	switch strategy {
	case StrategySplice:
		out, err = mergeSplice(sources, ns, header, spliceTokens)
	case StrategySpliceLines:
		out, err = mergeSplice(sources, ns, header, spliceLines)
	case StrategyDOM:
		out, err = mergeDOM(sources, ns, header, req.AcceptNamespaces)
	}
	if err != nil {
		return nil, err
	}

	return &Document{
		Bytes:     out,
		Namespace: ns,
		IfExists:  "true",
		Strategy:  strategy,
		Sources:   files,
	}, nil
}

// Run locates the episode files of req, merges them and writes the result to
// OutputPath(req.BuildDirectory). With fewer than two inputs it only warns.
// The merged bytes are assembled completely before the output is written.
func Run(req Request) (*Result, error) {
	if req.BuildDirectory == "" {
		return nil, &ConfigurationError{Field: "build_directory", Message: "no build directory specified"}
	}

	files, err := Locate(req)
	if err != nil {
		return nil, err
	}
	if len(files) <= 1 {
		logger.Warn(fmt.Sprintf("Found %d episode files - nothing to merge", len(files)))
		return &Result{Sources: files, Skipped: true}, nil
	}

	doc, err := Merge(req, files)
	if err != nil {
		return nil, err
	}

	target, err := filepath.Abs(OutputPath(req.BuildDirectory))
	if err != nil {
		return nil, &IOError{Op: "write", Path: OutputPath(req.BuildDirectory), Wrapped: err}
	}
	progress(req, "Writing combined "+FileName, logger.Path(target))
	if err := safeio.WriteFileAtomic(target, doc.Bytes); err != nil {
		return nil, &IOError{Op: "write", Path: target, Wrapped: err}
	}

	return &Result{Sources: files, OutputPath: target, Document: doc}, nil
}
