// Package retriever documents the consumer contract sketched in spec.md
// §6.3: the KV retriever/blender subsystem that this module's output feeds,
// explicitly out of scope for implementation. Ported from
// _examples/original_source/lmcache/blend/interfaces.py
// (BlendRetrieverTask, BlendRetrieverResult, BlendExecutor) as a real Go
// interface so the contract compiles and is checkable, not implemented.
package retriever

// Result is a single layer's retrieved K and V tensors plus a validity
// mask, one entry per requested token (ported from BlenderRetrieverResult).
// ValidMask[i] == false means the KV for that token was unavailable and the
// corresponding K/V entry is undefined.
type Result struct {
	K, V      []float32
	ValidMask []bool
}

// Task is the handle returned by a retriever for one in-flight request,
// yielding one layer's KV at a time (ported from BlendRetrieverTask).
// Implementations may retrieve layers asynchronously; Result blocks until
// the requested layer is available.
type Task interface {
	// Result blocks until layer layerID's KV is available and returns it.
	// The returned K and V must match the length of the input tokens
	// passed to the retriever's NewRequest call.
	Result(layerID int) (Result, error)
}

// Retriever launches retrieval for a batch of input tokens and returns a
// Task to pull results from (ported from BlendRetriever).
type Retriever interface {
	// NewRequest starts retrieval for inputTokens, possibly launching
	// async work in the background. queryStartLoc holds the start offset
	// of each request when inputTokens batches multiple requests.
	NewRequest(inputTokens []int32, queryStartLoc []int32) (Task, error)
}

// Output is the blended short-Q, long-KV result plus the positions of the
// retained Q tokens (ported from BlenderOutput).
type Output struct {
	Q, K, V   []float32
	Positions []int32
}

// Executor blends retrieved KV with freshly computed KV for one layer
// (ported from BlendExecutor).
type Executor interface {
	Blend(layerID int, retrievedK, retrievedV, freshQ, freshK, freshV []float32, positions, queryStartLoc []int32) (Output, error)
}
