// Package page holds a live HTML document that can be read, mutated and
// clicked like a browser DOM.
//
// Listeners are attached to element nodes, not ids. Replacing markup
// destroys the old nodes and with them every listener attached inside the
// replaced subtree; callers must attach again to the new elements.
package page

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/pagetl"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Listener handles a click. Its error is returned from Document.Click.
type Listener func() error

// Document is a mutex-guarded HTML document.
type Document struct {
	mu        sync.Mutex
	doc       *goquery.Document
	listeners map[*html.Node]Listener
	observers map[int]func(Event)
	nextObs   int
}

// Parse parses markup into a Document.
func Parse(markup string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &pagetl.TranslationError{Message: "failed to parse HTML", Cause: err}
	}
	return &Document{
		doc:       doc,
		listeners: make(map[*html.Node]Listener),
		observers: make(map[int]func(Event)),
	}, nil
}

// HTML serializes the whole document, doctype included.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Html()
}

// OuterHTML serializes the root <html> element, like documentElement.outerHTML.
func (d *Document) OuterHTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return goquery.OuterHtml(d.doc.Find("html").First())
}

// InnerHTML returns the inner markup of the element with the given id.
func (d *Document) InnerHTML(id string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.elementByID(id)
	if err != nil {
		return "", err
	}
	return d.doc.FindNodes(n).Html()
}

// Text returns the text content of the element with the given id.
func (d *Document) Text(id string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.elementByID(id)
	if err != nil {
		return "", err
	}
	return d.doc.FindNodes(n).Text(), nil
}

// BodyText returns the text content of <body>.
func (d *Document) BodyText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find("body").Text()
}

// Has reports whether an element with the given id exists.
func (d *Document) Has(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.elementByID(id)
	return err == nil
}

// SetText replaces the content of the element with the given id by text.
func (d *Document) SetText(id, text string) error {
	d.mu.Lock()
	n, err := d.elementByID(id)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.dropListenersBelow(n)
	d.doc.FindNodes(n).SetText(text)
	d.mu.Unlock()

	d.publish(Event{Kind: EventText, ID: id, Value: text})
	return nil
}

// ReplaceRoot replaces everything inside <html> with markup, like assigning
// documentElement.innerHTML. All listeners are lost.
func (d *Document) ReplaceRoot(markup string) error {
	d.mu.Lock()
	root := d.doc.Find("html").First()
	if root.Length() == 0 {
		d.mu.Unlock()
		return fmt.Errorf("%w: <html>", pagetl.ErrNoElement)
	}
	rootNode := root.Get(0)

	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "html",
		DataAtom: atom.Html,
	})
	if err != nil {
		d.mu.Unlock()
		return &pagetl.TranslationError{Message: "failed to parse replacement markup", Cause: err}
	}

	for c := rootNode.FirstChild; c != nil; {
		next := c.NextSibling
		rootNode.RemoveChild(c)
		c = next
	}
	for _, n := range nodes {
		rootNode.AppendChild(n)
	}
	d.listeners = make(map[*html.Node]Listener)
	d.mu.Unlock()

	d.publish(Event{Kind: EventContent})
	return nil
}

// ReplaceInner replaces the content of the element with the given id.
// Listeners attached inside it are lost; listeners elsewhere survive.
func (d *Document) ReplaceInner(id, markup string) error {
	d.mu.Lock()
	n, err := d.elementByID(id)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.dropListenersBelow(n)
	d.doc.FindNodes(n).SetHtml(markup)
	d.mu.Unlock()

	d.publish(Event{Kind: EventContent, ID: id})
	return nil
}

// SetRootAttr sets an attribute on the <html> element.
func (d *Document) SetRootAttr(name, value string) {
	d.mu.Lock()
	d.doc.Find("html").First().SetAttr(name, value)
	d.mu.Unlock()

	d.publish(Event{Kind: EventAttr, Name: name, Value: value})
}

// RootAttr returns an attribute of the <html> element.
func (d *Document) RootAttr(name string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find("html").First().Attr(name)
}

// SetAttr sets an attribute on the element with the given id.
func (d *Document) SetAttr(id, name, value string) error {
	d.mu.Lock()
	n, err := d.elementByID(id)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.doc.FindNodes(n).SetAttr(name, value)
	d.mu.Unlock()

	d.publish(Event{Kind: EventAttr, ID: id, Name: name, Value: value})
	return nil
}

// RemoveAttr removes an attribute from the element with the given id.
func (d *Document) RemoveAttr(id, name string) error {
	d.mu.Lock()
	n, err := d.elementByID(id)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.doc.FindNodes(n).RemoveAttr(name)
	d.mu.Unlock()

	d.publish(Event{Kind: EventAttr, ID: id, Name: name})
	return nil
}

// Attr returns an attribute of the element with the given id.
func (d *Document) Attr(id, name string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.elementByID(id)
	if err != nil {
		return "", false, err
	}
	val, ok := d.doc.FindNodes(n).Attr(name)
	return val, ok, nil
}

// AddEventListener attaches a click listener to the element with the given
// id, replacing any listener already attached to that element.
func (d *Document) AddEventListener(id string, l Listener) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.elementByID(id)
	if err != nil {
		return err
	}
	d.listeners[n] = l
	return nil
}

// RemoveEventListener detaches the click listener of the element with the given id.
func (d *Document) RemoveEventListener(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n, err := d.elementByID(id); err == nil {
		delete(d.listeners, n)
	}
}

// HasListener reports whether the element with the given id has a listener.
func (d *Document) HasListener(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, err := d.elementByID(id)
	if err != nil {
		return false
	}
	_, ok := d.listeners[n]
	return ok
}

// Click dispatches a click on the element with the given id and returns the
// listener's error. The listener runs without the document lock held.
func (d *Document) Click(id string) error {
	d.mu.Lock()
	n, err := d.elementByID(id)
	if err != nil {
		d.mu.Unlock()
		return err
	}
	if hasAttr(n, "disabled") {
		d.mu.Unlock()
		return fmt.Errorf("%w: #%s", pagetl.ErrDisabled, id)
	}
	l, ok := d.listeners[n]
	d.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: #%s", pagetl.ErrNoListener, id)
	}
	return l()
}

// elementByID must be called with the lock held.
func (d *Document) elementByID(id string) (*html.Node, error) {
	for _, root := range d.doc.Nodes {
		if n := findByID(root, id); n != nil {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: #%s", pagetl.ErrNoElement, id)
}

// dropListenersBelow must be called with the lock held.
func (d *Document) dropListenersBelow(parent *html.Node) {
	for n := range d.listeners {
		if n != parent && isDescendant(n, parent) {
			delete(d.listeners, n)
		}
	}
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		if v, ok := attr(n, "id"); ok && v == id {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func isDescendant(n, ancestor *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attr(n, key)
	return ok
}
