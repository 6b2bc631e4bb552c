// Package memory provides mutex-guarded, process-local implementations of
// the repository interfaces. They back STORAGE=memory and the handler tests.
// Every method returns copies, so callers never share state with the store.
package memory
