package retriever

import "github.com/kvcache-codec/kvcodec/codec"

// ExpectedShape is the (layers, tokens, channels) a decoder would need to
// reconstruct K and V from out in order to satisfy Result's shape contract.
// No decode happens here; this only derives the shape a conforming decoder
// must produce.
type ExpectedShape struct {
	Layers, Tokens, Channels int
}

// ShapeFor derives ExpectedShape from out's own recorded dimensions.
func ShapeFor(out *codec.EncoderOutput) ExpectedShape {
	return ExpectedShape{
		Layers:   out.ScalesKey.Layers,
		Tokens:   out.ScalesKey.Tokens,
		Channels: out.NumHeads * out.HeadSize,
	}
}
