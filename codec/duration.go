// Package codec ships ready-made custom nodes for wire shapes the core
// variant set does not model.
package codec

import (
	"fmt"
	"time"

	typewire "github.com/typewire/typewire"
)

// Duration returns a custom node carrying time.Duration in Go's duration
// string form ("1h30m", "150ms").
func Duration() *typewire.Custom {
	return &typewire.Custom{Codec: durationCodec{}}
}

type durationCodec struct{}

func (durationCodec) Dump(v any) (any, error) {
	d, ok := v.(time.Duration)
	if !ok {
		return nil, fmt.Errorf("codec: cannot encode %T as duration", v)
	}
	return d.String(), nil
}

func (durationCodec) Load(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("codec: duration needs a string, got %T", v)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil, fmt.Errorf("codec: %q is not a valid duration", s)
	}
	return d, nil
}

func (durationCodec) JSONSchema() map[string]any {
	return map[string]any{"type": "string", "format": "duration"}
}
