package episode

import (
	"fmt"
	"strings"
)

// Strategy selects how episode files are combined.
//
// The splice strategies copy the inner text of each input untouched. The DOM
// strategy does not keep namespace declarations that only exist on a source
// root, such as the "tns" prefix referenced by scd="x-schema::tns".
type Strategy string

const (
	// StrategySplice tokenizes each input and copies everything between the
	// root start and end tags verbatim, regardless of line layout.
	StrategySplice Strategy = "splice"
	// StrategySpliceLines drops the first two lines and the last line of each
	// input. Inputs must be laid out as declaration line, root start tag line,
	// content, root end tag line; anything else yields a broken merge.
	StrategySpliceLines Strategy = "splice-lines"
	// StrategyDOM parses each input, validates its root and re-parents the
	// root's children under the merged root.
	StrategyDOM Strategy = "dom"
)

// DefaultStrategy is used when no strategy is configured.
const DefaultStrategy = StrategySplice

// Strategies lists the supported strategies in documentation order.
func Strategies() []Strategy {
	return []Strategy{StrategySplice, StrategySpliceLines, StrategyDOM}
}

// ParseStrategy maps a configuration value to a Strategy. Empty means default.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultStrategy, nil
	case StrategySplice:
		return StrategySplice, nil
	case StrategySpliceLines, "lines":
		return StrategySpliceLines, nil
	case StrategyDOM, "xml":
		return StrategyDOM, nil
	default:
		return "", &ConfigurationError{
			Field:   "strategy",
			Message: fmt.Sprintf("unknown merge strategy %q (supported: splice, splice-lines, dom)", s),
		}
	}
}

// Namespace is the namespace URI and version attribute of a binding document root.
type Namespace struct {
	URI     string
	Version string
}

var (
	// Jakarta is the JAXB 3.0+ binding namespace
	Jakarta = Namespace{URI: "https://jakarta.ee/xml/ns/jaxb", Version: "3.0"}
	// Legacy is the JAXB 2.x binding namespace
	Legacy = Namespace{URI: "http://java.sun.com/xml/ns/jaxb", Version: "2.1"}
)

// NamespaceFor returns the merged document namespace for the configuration switch.
func NamespaceFor(useJakarta bool) Namespace {
	if useJakarta {
		return Jakarta
	}
	return Legacy
}

// DefaultAcceptNamespaces is the set of source root namespaces the DOM strategy
// accepts when none are configured. Only the legacy namespace is accepted,
// whatever namespace the merged document uses.
func DefaultAcceptNamespaces() []string {
	return []string{Legacy.URI}
}
