package lang

import (
	"bytes"
	"sync"
)

// scratchNodes is the initial capacity of pooled type arrays.
const scratchNodes = 8192

// maxPooledOutput bounds the output buffers returned to the pool so one
// unusually large render does not pin its memory.
const maxPooledOutput = 1 << 20

// scratch holds the per-render buffers borrowed from scratchPool.
type scratch struct {
	types []ReturnType
	out   bytes.Buffer
}

var scratchPool = sync.Pool{
	New: func() any {
		return &scratch{types: make([]ReturnType, 0, scratchNodes)}
	},
}

// acquireScratch borrows buffers sized for a tree of n nodes. The caller
// must hand them back with releaseScratch.
func acquireScratch(n int) *scratch {
	sc := scratchPool.Get().(*scratch)
	if cap(sc.types) < n {
		sc.types = make([]ReturnType, n)
	} else {
		sc.types = sc.types[:n]
		clear(sc.types)
	}

	return sc
}

func releaseScratch(sc *scratch) {
	if sc.out.Cap() > maxPooledOutput {
		return
	}

	sc.types = sc.types[:0]
	sc.out.Reset()
	scratchPool.Put(sc)
}
