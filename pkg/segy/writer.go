package segy

import "sort"

// pendingOverwrite is one queued replacement of an existing trace.
type pendingOverwrite struct {
	data       []byte
	numSamples int
}

// writer batches modifications until commit. Appends are serialized into one
// buffer written at end of file in a single call; overwrites are keyed by
// trace number so the last one queued for a trace wins.
type writer struct {
	appendBuf  []byte
	appended   int
	overwrites map[int]pendingOverwrite
}

func newWriter() *writer {
	return &writer{overwrites: make(map[int]pendingOverwrite)}
}

func (w *writer) pending() bool {
	return len(w.appendBuf) > 0 || len(w.overwrites) > 0
}

func (w *writer) enqueueAppend(data []byte) {
	w.appendBuf = append(w.appendBuf, data...)
	w.appended++
}

func (w *writer) enqueueOverwrite(n int, data []byte, numSamples int) {
	w.overwrites[n] = pendingOverwrite{data: data, numSamples: numSamples}
}

// overwriteOrder returns the queued trace numbers in ascending order so the
// file is written front to back.
func (w *writer) overwriteOrder() []int {
	ns := make([]int, 0, len(w.overwrites))
	for n := range w.overwrites {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	return ns
}

func (w *writer) clearAppends() {
	w.appendBuf = nil
	w.appended = 0
}

func (w *writer) reset() {
	w.clearAppends()
	clear(w.overwrites)
}
