// Package xmlutil wraps etree with the small set of helpers the carrier
// adapters share: terse element construction for request trees, path lookups
// for response trees, and the namespace-stripping pass that makes prefixed
// carrier responses addressable by local name.
package xmlutil

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Text appends a child element with text content and returns it. Values are
// rendered with String(), so numbers keep a decimal point.
func Text(parent *etree.Element, name string, value any) *etree.Element {
	el := parent.CreateElement(name)
	el.SetText(String(value))
	return el
}

// TextIf appends a child element only when value is non-blank.
func TextIf(parent *etree.Element, name, value string) {
	if strings.TrimSpace(value) != "" {
		Text(parent, name, value)
	}
}

// String renders a value the way the carrier schemas expect: booleans as
// "true"/"false", integers without a point, floats with at least one decimal
// ("5.0", never "5").
func String(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return Decimal(v)
	default:
		return ""
	}
}

// Decimal formats a float with minimal digits but always a decimal point.
func Decimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FindText returns the text at path below el, or "" when the node is absent.
func FindText(el *etree.Element, path string) string {
	if el == nil {
		return ""
	}
	found := el.FindElement(path)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.Text())
}

var (
	xmlnsAttr   = regexp.MustCompile(`\sxmlns(:[A-Za-z0-9_.-]+)?\s*=\s*"[^"]*"`)
	prefixedTag = regexp.MustCompile(`<(/?)[A-Za-z0-9_.-]+:`)
)

// StripNamespaces removes xmlns declarations and collapses prefixed tag
// names to their local names, so response parsing can use plain paths. The
// pass is idempotent.
func StripNamespaces(body []byte) []byte {
	out := xmlnsAttr.ReplaceAll(body, nil)
	return prefixedTag.ReplaceAll(out, []byte("<$1"))
}

// Parse reads an XML document after stripping namespaces. It returns nil
// when the payload is not well-formed; callers report that as a malformed
// response, never a crash.
func Parse(body []byte) *etree.Document {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(StripNamespaces(body)); err != nil {
		return nil
	}
	return doc
}
