// Package retriever's adapter.go demonstrates, without implementing
// retrieval or fusion, that a codec.EncoderOutput carries enough shape
// metadata to be decoded into the (K, V) tensors Task.Result expects
// (spec.md §6.3: "these interfaces are described only insofar as the
// codec's output must be decodable to (K, V) tensors of compatible shape
// and dtype").
package retriever
