package notebook

import (
	"strings"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

// tagCatalog is the append-only set of known tag labels, in the order they were added.
// It is not safe for concurrent use; Notebook guards it.
type tagCatalog struct {
	labels []string
	index  map[string]int
}

func newTagCatalog(defaults []string) *tagCatalog {
	c := &tagCatalog{index: make(map[string]int)}
	for _, l := range defaults {
		l = domain.CleanTag(l)
		if domain.ValidateTag(l) != nil {
			continue
		}
		c.add(l)
	}
	return c
}

// lookup returns the catalog spelling of label.
func (c *tagCatalog) lookup(label string) (string, bool) {
	i, ok := c.index[strings.ToLower(label)]
	if !ok {
		return "", false
	}
	return c.labels[i], true
}

// add appends label unless a case-insensitive match exists. It returns the catalog spelling.
func (c *tagCatalog) add(label string) (string, bool) {
	if existing, ok := c.lookup(label); ok {
		return existing, false
	}
	c.index[strings.ToLower(label)] = len(c.labels)
	c.labels = append(c.labels, label)
	return label, true
}

func (c *tagCatalog) all() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}
