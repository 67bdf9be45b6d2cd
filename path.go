package typewire

import (
	"strconv"
	"strings"
)

// instancePath is an immutable parent-linked chain of location chunks.
// Pushing returns a child that shares the parent's storage, so descending a
// traversal never copies the path; only an Issue renders it into a string.
type instancePath struct {
	parent *instancePath
	key    string
	index  int
	isIdx  bool
}

var rootPath = &instancePath{}

func (p *instancePath) Key(k string) *instancePath {
	return &instancePath{parent: p, key: k}
}

func (p *instancePath) Index(i int) *instancePath {
	return &instancePath{parent: p, index: i, isIdx: true}
}

// String renders the path in dotted form: foo.bar[2]. The root renders as "".
func (p *instancePath) String() string {
	if p == nil || p.parent == nil && !p.isIdx && p.key == "" {
		return ""
	}
	chunks := make([]*instancePath, 0, 6)
	for cur := p; cur != nil && cur.parent != nil; cur = cur.parent {
		chunks = append(chunks, cur)
	}
	b := &strings.Builder{}
	for i := len(chunks) - 1; i >= 0; i-- {
		c := chunks[i]
		if c.isIdx {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(c.index))
			b.WriteByte(']')
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(c.key)
	}
	return b.String()
}
