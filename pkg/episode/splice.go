package episode

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fulmenhq/episodemerge/pkg/logger"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>`

// rootLocalName is the element name of every binding document root
const rootLocalName = "bindings"

// spliceFunc extracts the content lines of one input file
type spliceFunc func(path, text string) ([]string, error)

// mergeSplice writes the synthesized root and the extracted lines of every
// input, in order. No XML parsing is done on the output side, so the inner
// text of each input, namespace prefixes included, is preserved byte for byte.
func mergeSplice(sources []source, ns Namespace, header string, extract spliceFunc) ([]byte, error) {
	var buf bytes.Buffer
	writeSpliceStart(&buf, ns, header)

	for _, src := range sources {
		lines, err := extract(src.path, src.text)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}

	buf.WriteString("</" + rootLocalName + ">\n")
	return buf.Bytes(), nil
}

func writeSpliceStart(buf *bytes.Buffer, ns Namespace, header string) {
	buf.WriteString(xmlDeclaration)
	buf.WriteByte('\n')
	fmt.Fprintf(buf, "<%s xmlns=\"%s\" if-exists=\"true\" version=\"%s\">\n", rootLocalName, ns.URI, ns.Version)
	buf.WriteString("<!--\n")
	buf.WriteString(header)
	buf.WriteString("\n-->\n")
}

// spliceLines drops the first two lines (declaration and root start tag) and
// the last line (root end tag) and returns the rest.
func spliceLines(path, text string) ([]string, error) {
	lines := splitLines(text)
	if len(lines) < 3 {
		return nil, &ValidationError{
			Path:     path,
			Expected: "at least 3 lines (declaration, root start tag, root end tag)",
			Actual:   fmt.Sprintf("%d lines", len(lines)),
		}
	}
	return lines[2 : len(lines)-1], nil
}

// spliceTokens copies the text between the end of the root start tag and the
// start of the root end tag. The prolog and anything after the root are
// skipped. A blank remainder of the start tag line and a blank indentation
// before the end tag are dropped so a conventionally laid out file yields
// exactly its content lines.
func spliceTokens(path, text string) ([]string, error) {
	d := xml.NewDecoder(strings.NewReader(text))
	d.Strict = true
	// text is already UTF-8 whatever the declaration says
	d.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		depth      int
		start, end int64 = -1, -1
		rootName   xml.Name
	)
	for {
		offset := d.InputOffset()
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Wrapped: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if start >= 0 {
					return nil, &ParseError{Path: path, Wrapped: errors.New("more than one root element")}
				}
				rootName = t.Name
				start = d.InputOffset()
			}
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				end = offset
			}
		}
	}

	if start < 0 || end < 0 {
		return nil, &ParseError{Path: path, Wrapped: errors.New("no root element")}
	}
	if rootName.Local != rootLocalName {
		return nil, &ValidationError{Path: path, Expected: "root element <" + rootLocalName + ">", Actual: "<" + rootName.Local + ">"}
	}
	logger.Trace("Spliced root", logger.Path(path), logger.String("namespace", rootName.Space))

	// A self-closing root yields the same offset for start and end
	if end <= start {
		return nil, nil
	}

	lines := splitLines(text[start:end])
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// splitLines splits on \n, \r\n and \r. A trailing line terminator does not
// produce an extra empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
