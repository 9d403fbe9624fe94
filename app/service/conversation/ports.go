package conversation

import "context"

// Store persists one State per session key. Get on an unknown key returns
// a fresh empty state, never an error. Set is a full overwrite of the
// previous value; merging is the resolver's job, not the store's.
type Store interface {
	Get(ctx context.Context, key string) (*State, error)
	Set(ctx context.Context, key string, state *State) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Extractor is the LLM-backed extraction call. It returns the raw model
// payload; decoding and defaulting happen in the extract package.
type Extractor interface {
	Extract(ctx context.Context, message, contextSummary string, turns []Turn) ([]byte, error)
}

// Summarizer folds overflowed raw turns into a compact digest.
type Summarizer interface {
	Summarize(ctx context.Context, previous string, turns []Turn) (string, error)
}
