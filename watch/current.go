package watch

import (
	"context"
	"net/http"
	"strconv"
)

// viewCurrent answers immediately if the client's epoch is stale, otherwise
// waits for the next one.
func (h *Hub) viewCurrent(rw http.ResponseWriter, req *http.Request) {
	have := -1
	if v := req.FormValue("epoch"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(rw, "bad epoch", 400)
			return
		}
		have = n
	}
	waitch := make(chan struct{}, 1)
	h.mu.Lock()
	cur := h.cur
	if cur != nil && cur.Epoch != have {
		h.mu.Unlock()
		writeJSON(rw, cur)
		return
	}
	h.waiters[req] = waitch
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.waiters, req)
		h.mu.Unlock()
	}()
	ctx, cancel := context.WithTimeout(req.Context(), h.pollTimeout)
	defer cancel()
	select {
	case <-waitch:
	case <-ctx.Done():
	}
	cur = h.current()
	if cur == nil {
		writeJSON(rw, struct{}{})
		return
	}
	writeJSON(rw, cur)
}
