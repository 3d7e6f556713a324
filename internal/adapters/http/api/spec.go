package api

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
)

// SpecHandler serves a pre-generated swagger.json. The document is passed
// through as-is.
type SpecHandler struct {
	doc []byte
}

// NewSpecHandler creates a handler for doc.
func NewSpecHandler(doc []byte) *SpecHandler {
	return &SpecHandler{doc: doc}
}

// LoadSpec reads the documentation file at path.
func LoadSpec(path string) ([]byte, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadSpec, err)
	}
	return doc, nil
}

// HandleSpec handles GET swagger.json requests.
func (h *SpecHandler) HandleSpec(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(h.doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.doc)
}
