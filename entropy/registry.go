package entropy

import "github.com/kvcache-codec/kvcodec/kverrs"

// Factory builds a Coder sized for rows of up to maxRowBytes.
type Factory func(maxRowBytes int) Coder

var registry = map[string]Factory{
	"range": func(maxRowBytes int) Coder { return NewRangeCoder(maxRowBytes) },
}

// Register adds or replaces a named Coder implementation, retrievable with
// New (spec.md §9: "treat either implementation as satisfying it"). The
// codec package's entropy-coder driver does not consult this registry; it
// constructs a RangeCoder directly.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// New builds the named Coder.
func New(name string, maxRowBytes int) (Coder, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, kverrs.Wrap(kverrs.ErrConfigInvalid, "unknown entropy coder %q", name)
	}

	return factory(maxRowBytes), nil
}
