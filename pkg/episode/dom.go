package episode

import (
	"bytes"
	"errors"
	"strings"

	"github.com/beevik/etree"
	"github.com/fulmenhq/episodemerge/pkg/logger"
)

// mergeDOM parses every input, checks that its root is a binding document in
// one of the accepted namespaces and appends deep copies of the root's child
// nodes to the merged root.
//
// Copied elements keep the namespace of their source root. Prefixed namespace
// declarations that exist only on a source root are not carried over; nodes
// relying on them lose their binding in the output.
func mergeDOM(sources []source, ns Namespace, header string, accept []string) ([]byte, error) {
	if len(accept) == 0 {
		accept = DefaultAcceptNamespaces()
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateText("\n")
	root := doc.CreateElement(rootLocalName)
	root.CreateAttr("xmlns", ns.URI)
	root.CreateAttr("if-exists", "true")
	root.CreateAttr("version", ns.Version)
	root.CreateComment("\n" + header + "\n")

	for _, src := range sources {
		logger.Debug("Parsing XML file", logger.Path(src.path))

		srcRoot, err := parseBindings(src, accept)
		if err != nil {
			return nil, err
		}
		if dropped := rootPrefixes(srcRoot); len(dropped) > 0 {
			logger.Warn("Namespace declarations on the source root are not carried into the merged file",
				logger.Path(src.path), logger.Strings("prefixes", dropped))
		}
		srcURI := srcRoot.NamespaceURI()
		for _, child := range srcRoot.Child {
			c := cloneToken(child)
			if c == nil {
				continue
			}
			if e, ok := c.(*etree.Element); ok && srcURI != ns.URI {
				keepDefaultNamespace(e, srcURI)
			}
			root.AddChild(c)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// parseBindings reads src and returns its validated root element
func parseBindings(src source, accept []string) (*etree.Element, error) {
	parsed := etree.NewDocument()
	if err := parsed.ReadFromString(src.text); err != nil {
		return nil, &ParseError{Path: src.path, Wrapped: err}
	}
	srcRoot := parsed.Root()
	if srcRoot == nil {
		return nil, &ParseError{Path: src.path, Wrapped: errors.New("no root element")}
	}
	if srcRoot.Tag != rootLocalName {
		return nil, &ValidationError{
			Path:     src.path,
			Expected: "root element <" + rootLocalName + ">",
			Actual:   "<" + srcRoot.FullTag() + ">",
		}
	}
	uri := srcRoot.NamespaceURI()
	for _, a := range accept {
		if uri == a {
			return srcRoot, nil
		}
	}
	actual := uri
	if actual == "" {
		actual = "no namespace"
	}
	return nil, &ValidationError{
		Path:     src.path,
		Expected: "namespace URI " + strings.Join(accept, " or "),
		Actual:   actual,
	}
}

// keepDefaultNamespace declares uri as the default namespace of e unless e
// declares one itself, so e keeps its source namespace under the merged root.
func keepDefaultNamespace(e *etree.Element, uri string) {
	for _, a := range e.Attr {
		if a.Space == "" && a.Key == "xmlns" {
			return
		}
	}
	e.CreateAttr("xmlns", uri)
}

// rootPrefixes lists the xmlns:prefix declarations of e
func rootPrefixes(e *etree.Element) []string {
	var prefixes []string
	for _, a := range e.Attr {
		if a.Space == "xmlns" {
			prefixes = append(prefixes, a.Key)
		}
	}
	return prefixes
}

// cloneToken returns a detached deep copy of t
func cloneToken(t etree.Token) etree.Token {
	switch v := t.(type) {
	case *etree.Element:
		return v.Copy()
	case *etree.CharData:
		if v.IsCData() {
			return etree.NewCData(v.Data)
		}
		return etree.NewText(v.Data)
	case *etree.Comment:
		return etree.NewComment(v.Data)
	case *etree.ProcInst:
		return etree.NewProcInst(v.Target, v.Inst)
	case *etree.Directive:
		return etree.NewDirective(v.Data)
	default:
		return nil
	}
}
