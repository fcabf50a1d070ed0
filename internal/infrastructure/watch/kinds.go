package watch

import "sync"

// kindMap remembers the first change type seen for a path within a window,
// so a create followed by writes is still reported as a create.
type kindMap struct {
	mu    sync.Mutex
	kinds map[string]string
}

func newKindMap() *kindMap {
	return &kindMap{kinds: make(map[string]string)}
}

func (k *kindMap) set(path, kind string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.kinds[path]; !ok {
		k.kinds[path] = kind
	}
}

func (k *kindMap) take(path string) string {
	k.mu.Lock()
	defer k.mu.Unlock()
	kind := k.kinds[path]
	delete(k.kinds, path)
	return kind
}
