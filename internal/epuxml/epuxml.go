// internal/epuxml/epuxml.go
// Package epuxml resolves fields out of EPU per-exposure XML sidecar files.
//
// An EPU document carries two namespace domains: the shared-objects
// namespace holds direct scalar instrument/optics fields, and the arrays
// namespace holds an open-ended sequence of key/value pairs (detector and
// dose metadata). Shared-objects fields are required — a missing one means
// the file is malformed and the lookup fails. Array-domain keys are
// optional by design and resolve to the NotRecorded sentinel when absent.
package epuxml

import (
	"fmt"

	"github.com/beevik/etree"
)

// Namespace URIs of the two field domains.
const (
	SharedObjectsNS = "http://schemas.datacontract.org/2004/07/Fei.SharedObjects"
	ArraysNS        = "http://schemas.microsoft.com/2003/10/Serialization/Arrays"
)

// PairContainer is the repeating element holding one Key/Value pair in the
// arrays domain.
const PairContainer = "KeyValueOfstringanyType"

// NotRecorded is returned for an array-domain key the instrument did not
// report.
const NotRecorded = "N/A"

// FieldError reports a required shared-objects field missing from a
// document.
type FieldError struct {
	Name string // element local name searched for
	File string // source file, "" when parsed from memory
}

func (e *FieldError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("required field %q not found", e.Name)
	}
	return fmt.Sprintf("required field %q not found in %s", e.Name, e.File)
}

// Document is one parsed, immutable EPU sidecar file.
type Document struct {
	path string
	root *etree.Element
}

// Load parses the XML file at path.
func Load(path string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse %s: no root element", path)
	}
	return &Document{path: path, root: root}, nil
}

// ParseString parses an in-memory document. Used by tests and callers that
// already hold the bytes.
func ParseString(s string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("parse: no root element")
	}
	return &Document{root: root}, nil
}

// Path returns the source file path ("" for in-memory documents).
func (d *Document) Path() string { return d.path }

// Root returns the document root as a searchable node.
func (d *Document) Root() Node { return Node{el: d.root, file: d.path} }

// Node is a search scope: the document root or a located subtree.
type Node struct {
	el   *etree.Element
	file string
}

// Scalar finds the single descendant element with the given namespace URI
// and local name and returns its text. A missing element is a malformed
// document.
func (n Node) Scalar(ns, name string) (string, error) {
	el := findDescendant(n.el, ns, name)
	if el == nil {
		return "", &FieldError{Name: name, File: n.file}
	}
	return el.Text(), nil
}

// Subtree is Scalar returning the matched element itself, for nested
// lookups (pixel size x/y, stage position, camera, CustomData).
func (n Node) Subtree(ns, name string) (Node, error) {
	el := findDescendant(n.el, ns, name)
	if el == nil {
		return Node{}, &FieldError{Name: name, File: n.file}
	}
	return Node{el: el, file: n.file}, nil
}

// Pair resolves an array-domain key through the default pair container.
func (n Node) Pair(ns, key string) string {
	return n.PairIn(ns, PairContainer, key)
}

// PairIn finds a container element whose Key child text equals key exactly
// and returns the sibling Value text. Absent keys resolve to NotRecorded;
// this never fails.
func (n Node) PairIn(ns, container, key string) string {
	var value string
	found := false
	walkDescendants(n.el, func(el *etree.Element) bool {
		if found || el.Tag != container || el.NamespaceURI() != ns {
			return true
		}
		k := childElement(el, ns, "Key")
		if k == nil || k.Text() != key {
			return true
		}
		if v := childElement(el, ns, "Value"); v != nil {
			value = v.Text()
			found = true
			return false
		}
		return true
	})
	if !found {
		return NotRecorded
	}
	return value
}

// findDescendant returns the first descendant (document order, root
// excluded) matching the namespace URI and local name.
func findDescendant(root *etree.Element, ns, name string) *etree.Element {
	var hit *etree.Element
	walkDescendants(root, func(el *etree.Element) bool {
		if el.Tag == name && el.NamespaceURI() == ns {
			hit = el
			return false
		}
		return true
	})
	return hit
}

// walkDescendants visits descendants depth-first; the visitor returns
// false to stop the walk.
func walkDescendants(root *etree.Element, visit func(*etree.Element) bool) bool {
	for _, c := range root.ChildElements() {
		if !visit(c) {
			return false
		}
		if !walkDescendants(c, visit) {
			return false
		}
	}
	return true
}

// childElement returns the direct child with the given namespace URI and
// local name, or nil.
func childElement(el *etree.Element, ns, name string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == name && c.NamespaceURI() == ns {
			return c
		}
	}
	return nil
}
