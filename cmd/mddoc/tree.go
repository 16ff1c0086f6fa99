package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	mddoc "github.com/alnah/go-mddoc"
	"github.com/alnah/go-mddoc/internal/yamlutil"
)

// Tree output formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// treeFormat normalizes a --format value.
func treeFormat(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	}
	return "", fmt.Errorf("%w: %q (supported: json, yaml)", ErrUnknownFormat, name)
}

// encodeTree renders doc in the given format, ending with a newline.
func encodeTree(doc *mddoc.Node, format string) (string, error) {
	if format == formatYAML {
		data, err := yamlutil.MarshalDocument(doc)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// runTree prints the parsed document of each file. Several YAML trees are
// separated by document markers.
func runTree(ctx context.Context, s *session, files []FileToProcess) error {
	format, err := treeFormat(s.flags.tree.format)
	if err != nil {
		return err
	}

	started := s.env.Now()
	results := processBatch(ctx, s.workers, files, func(_ context.Context, f FileToProcess) FileResult {
		return s.treeFile(f, format)
	})

	first := true
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if format == formatYAML && !first {
			_, _ = io.WriteString(s.env.Stdout, "---\n")
		}
		first = false
		_, _ = io.WriteString(s.env.Stdout, r.Output)
	}

	_, err = s.finish(results, started)
	return err
}

func (s *session) treeFile(f FileToProcess, format string) (result FileResult) {
	start := s.env.Now()
	result.InputPath = f.InputPath
	defer func() { result.Duration = s.env.Now().Sub(start) }()

	src, err := s.read(f)
	if err != nil {
		result.Err = err
		return result
	}
	doc, err := s.codec.Parse(src)
	if err != nil {
		result.Err = err
		return result
	}
	out, err := encodeTree(doc, format)
	if err != nil {
		result.Err = fmt.Errorf("encoding %s tree: %w", format, err)
		return result
	}
	result.Output = out
	return result
}
