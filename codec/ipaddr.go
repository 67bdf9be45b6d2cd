package codec

import (
	"fmt"
	"net/netip"

	typewire "github.com/typewire/typewire"
)

// IPAddr returns a custom node carrying netip.Addr in its canonical string
// form. Both IPv4 and IPv6 parse.
func IPAddr() *typewire.Custom {
	return &typewire.Custom{Codec: ipAddrCodec{}}
}

type ipAddrCodec struct{}

func (ipAddrCodec) Dump(v any) (any, error) {
	a, ok := v.(netip.Addr)
	if !ok {
		return nil, fmt.Errorf("codec: cannot encode %T as ip address", v)
	}
	return a.String(), nil
}

func (ipAddrCodec) Load(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("codec: ip address needs a string, got %T", v)
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return nil, fmt.Errorf("codec: %q is not a valid ip address", s)
	}
	return a, nil
}

func (ipAddrCodec) JSONSchema() map[string]any {
	return map[string]any{
		"type": "string",
		"anyOf": []any{
			map[string]any{"format": "ipv4"},
			map[string]any{"format": "ipv6"},
		},
	}
}
