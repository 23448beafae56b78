package page

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/pagetl"
	"golang.org/x/net/html"
)

// Option is one input of a radio group.
type Option struct {
	ID      string
	Value   string
	Checked bool
}

// Checked returns the value of the checked input of the radio group name.
// When several inputs carry the checked attribute the last one wins, as in
// a browser.
func (d *Document) Checked(name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	value, found := "", false
	for _, n := range d.radios(name) {
		if hasAttr(n, "checked") {
			value, found = inputValue(n), true
		}
	}
	if !found {
		return "", fmt.Errorf("%w: group %q", pagetl.ErrNoSelection, name)
	}
	return value, nil
}

// Check marks the input of group name whose value equals value as checked
// and clears the others.
func (d *Document) Check(name, value string) error {
	d.mu.Lock()
	inputs := d.radios(name)

	var target *html.Node
	for _, n := range inputs {
		if inputValue(n) == value {
			target = n
			break
		}
	}
	if target == nil {
		d.mu.Unlock()
		return fmt.Errorf("%w: option %q of group %q", pagetl.ErrNoElement, value, name)
	}

	for _, n := range inputs {
		removeAttr(n, "checked")
	}
	target.Attr = append(target.Attr, html.Attribute{Key: "checked", Val: "checked"})
	d.mu.Unlock()

	d.publish(Event{Kind: EventAttr, Name: "checked", Value: name + "=" + value})
	return nil
}

// Options lists the inputs of the radio group name in document order.
func (d *Document) Options(name string) []Option {
	d.mu.Lock()
	defer d.mu.Unlock()

	inputs := d.radios(name)
	opts := make([]Option, 0, len(inputs))
	for _, n := range inputs {
		id, _ := attr(n, "id")
		opts = append(opts, Option{
			ID:      id,
			Value:   inputValue(n),
			Checked: hasAttr(n, "checked"),
		})
	}
	return opts
}

// radios must be called with the lock held.
func (d *Document) radios(name string) []*html.Node {
	var out []*html.Node
	d.doc.Find("input").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if v, _ := attr(n, "name"); v != name {
			return
		}
		if t, ok := attr(n, "type"); !ok || !strings.EqualFold(strings.TrimSpace(t), "radio") {
			return
		}
		out = append(out, n)
	})
	return out
}

// inputValue mirrors HTMLInputElement.value for radios: "on" when unset.
func inputValue(n *html.Node) string {
	if v, ok := attr(n, "value"); ok {
		return v
	}
	return "on"
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}
