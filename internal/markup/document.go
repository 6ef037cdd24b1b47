// Package markup wraps golang.org/x/net/html with the element operations the page renderer needs.
package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	attributeID    = "id"
	attributeClass = "class"

	errorMessageParseDocument = "markup: parse document"
	errorMessageParseFragment = "markup: parse fragment"
)

// ErrMissingElement indicates that an element expected by the renderer is absent from the document.
var ErrMissingElement = errors.New("markup: missing element")

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads a full HTML document.
func Parse(reader io.Reader) (*Document, error) {
	root, parseErr := html.Parse(reader)
	if parseErr != nil {
		return nil, fmt.Errorf("%s: %w", errorMessageParseDocument, parseErr)
	}
	return &Document{root: root}, nil
}

// ParseBytes reads a full HTML document from memory.
func ParseBytes(source []byte) (*Document, error) {
	return Parse(bytes.NewReader(source))
}

// Render serializes the document.
func (document *Document) Render(writer io.Writer) error {
	return html.Render(writer, document.root)
}

// Bytes serializes the document into memory.
func (document *Document) Bytes() ([]byte, error) {
	var buffer bytes.Buffer
	if renderErr := document.Render(&buffer); renderErr != nil {
		return nil, renderErr
	}
	return buffer.Bytes(), nil
}

// Root returns the <html> element.
func (document *Document) Root() *html.Node {
	return document.firstElement(func(node *html.Node) bool { return node.DataAtom == atom.Html })
}

// Body returns the <body> element.
func (document *Document) Body() *html.Node {
	return document.firstElement(func(node *html.Node) bool { return node.DataAtom == atom.Body })
}

// ElementByID returns the element carrying the identifier, or nil.
func (document *Document) ElementByID(identifier string) *html.Node {
	return document.firstElement(func(node *html.Node) bool {
		value, present := Attribute(node, attributeID)
		return present && value == identifier
	})
}

// ElementsWithAttribute returns every element carrying the attribute, in document order.
func (document *Document) ElementsWithAttribute(name string) []*html.Node {
	return document.Elements(func(node *html.Node) bool {
		_, present := Attribute(node, name)
		return present
	})
}

// ElementsWithClass returns every element carrying the class, in document order.
func (document *Document) ElementsWithClass(className string) []*html.Node {
	return document.Elements(func(node *html.Node) bool {
		return HasClass(node, className)
	})
}

// Elements returns every element matching the predicate, in document order.
func (document *Document) Elements(matches func(*html.Node) bool) []*html.Node {
	var matched []*html.Node
	walkElements(document.root, func(node *html.Node) bool {
		if matches(node) {
			matched = append(matched, node)
		}
		return true
	})
	return matched
}

// SetTitle replaces the text of the <title> element, creating it inside <head> when missing.
func (document *Document) SetTitle(title string) {
	titleElement := document.firstElement(func(node *html.Node) bool { return node.DataAtom == atom.Title })
	if titleElement == nil {
		head := document.firstElement(func(node *html.Node) bool { return node.DataAtom == atom.Head })
		if head == nil {
			return
		}
		titleElement = &html.Node{Type: html.ElementNode, Data: atom.Title.String(), DataAtom: atom.Title}
		head.AppendChild(titleElement)
	}
	SetText(titleElement, title)
}

// Title returns the text of the <title> element.
func (document *Document) Title() string {
	titleElement := document.firstElement(func(node *html.Node) bool { return node.DataAtom == atom.Title })
	if titleElement == nil {
		return ""
	}
	return Text(titleElement)
}

func (document *Document) firstElement(matches func(*html.Node) bool) *html.Node {
	var found *html.Node
	walkElements(document.root, func(node *html.Node) bool {
		if matches(node) {
			found = node
			return false
		}
		return true
	})
	return found
}

func walkElements(node *html.Node, visit func(*html.Node) bool) bool {
	if node.Type == html.ElementNode {
		if !visit(node) {
			return false
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if !walkElements(child, visit) {
			return false
		}
	}
	return true
}

// Attribute returns the value of the named attribute.
func Attribute(node *html.Node, name string) (string, bool) {
	for _, attribute := range node.Attr {
		if attribute.Namespace == "" && attribute.Key == name {
			return attribute.Val, true
		}
	}
	return "", false
}

// SetAttribute sets or adds the named attribute.
func SetAttribute(node *html.Node, name string, value string) {
	for index := range node.Attr {
		if node.Attr[index].Namespace == "" && node.Attr[index].Key == name {
			node.Attr[index].Val = value
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttribute drops the named attribute when present.
func RemoveAttribute(node *html.Node, name string) {
	kept := node.Attr[:0]
	for _, attribute := range node.Attr {
		if attribute.Namespace == "" && attribute.Key == name {
			continue
		}
		kept = append(kept, attribute)
	}
	node.Attr = kept
}

// Classes returns the class list of the element.
func Classes(node *html.Node) []string {
	value, _ := Attribute(node, attributeClass)
	return strings.Fields(value)
}

// HasClass reports whether the element carries the class.
func HasClass(node *html.Node, className string) bool {
	for _, existing := range Classes(node) {
		if existing == className {
			return true
		}
	}
	return false
}

// ToggleClass adds the class when enabled and removes it otherwise.
func ToggleClass(node *html.Node, className string, enabled bool) {
	if node == nil {
		return
	}
	classes := Classes(node)
	updated := make([]string, 0, len(classes)+1)
	for _, existing := range classes {
		if existing != className {
			updated = append(updated, existing)
		}
	}
	if enabled {
		updated = append(updated, className)
	}
	if len(updated) == 0 {
		RemoveAttribute(node, attributeClass)
		return
	}
	SetAttribute(node, attributeClass, strings.Join(updated, " "))
}

// Text returns the concatenated text content of the element.
func Text(node *html.Node) string {
	var builder strings.Builder
	collectText(node, &builder)
	return builder.String()
}

func collectText(node *html.Node, builder *strings.Builder) {
	if node.Type == html.TextNode {
		builder.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, builder)
	}
}

// SetText replaces the children of the element with a single text node.
func SetText(node *html.Node, text string) {
	removeChildren(node)
	node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// SetInnerHTML replaces the children of the element with the parsed markup.
func SetInnerHTML(node *html.Node, markup string) error {
	children, parseErr := html.ParseFragment(strings.NewReader(markup), node)
	if parseErr != nil {
		return fmt.Errorf("%s: %w", errorMessageParseFragment, parseErr)
	}
	removeChildren(node)
	for _, child := range children {
		node.AppendChild(child)
	}
	return nil
}

// PrependChild inserts the child before the first existing child.
func PrependChild(node *html.Node, child *html.Node) {
	if node.FirstChild == nil {
		node.AppendChild(child)
		return
	}
	node.InsertBefore(child, node.FirstChild)
}

// Remove detaches the node from its parent. Detached and nil nodes are left alone.
func Remove(node *html.Node) {
	if node == nil || node.Parent == nil {
		return
	}
	node.Parent.RemoveChild(node)
}

// FindDescendant returns the first descendant element matching the predicate.
func FindDescendant(node *html.Node, matches func(*html.Node) bool) *html.Node {
	var found *html.Node
	for child := node.FirstChild; child != nil && found == nil; child = child.NextSibling {
		walkElements(child, func(candidate *html.Node) bool {
			if matches(candidate) {
				found = candidate
				return false
			}
			return true
		})
	}
	return found
}

// NewElement builds a detached element with the attributes given as name/value pairs.
func NewElement(tag string, attributes ...string) *html.Node {
	node := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for index := 0; index+1 < len(attributes); index += 2 {
		node.Attr = append(node.Attr, html.Attribute{Key: attributes[index], Val: attributes[index+1]})
	}
	return node
}

func removeChildren(node *html.Node) {
	for child := node.FirstChild; child != nil; {
		next := child.NextSibling
		node.RemoveChild(child)
		child = next
	}
}
