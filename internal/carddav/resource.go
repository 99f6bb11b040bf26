package carddav

import (
	"io"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kithhq/kith/pkg/diff"
	"github.com/kithhq/kith/pkg/etag"
	"github.com/kithhq/kith/pkg/fact"
	"github.com/kithhq/kith/pkg/vcard"
)

// sourceName stamps every CardDAV-originated fact's recording context.
const sourceName = "carddav"

func resourceUID(r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "uid")
	id, err := uuid.Parse(raw)
	return id, err == nil
}

// liveView reports whether view represents a resource that should still be
// addressable over CardDAV — the subject envelope exists per spec §3.1, but
// a subject with no active facts (e.g. fully retracted) has no active view
// and is a 404, matching kith-carddav/src/handlers/get.rs.
func liveView(view *fact.ContactView) bool {
	return view != nil && len(view.ActiveFacts) > 0
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "ab") != addressbookSlug {
		http.NotFound(w, r)
		return
	}
	id, ok := resourceUID(r)
	if !ok {
		http.Error(w, "invalid uuid", http.StatusBadRequest)
		return
	}

	view, err := h.store.Materialize(r.Context(), id, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	if !liveView(view) {
		http.NotFound(w, r)
		return
	}

	body := vcard.Serialize(*view)
	w.Header().Set("Content-Type", "text/vcard; charset=utf-8")
	w.Header().Set("ETag", etag.Compute(*view))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, body)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "ab") != addressbookSlug {
		http.NotFound(w, r)
		return
	}
	id, ok := resourceUID(r)
	if !ok {
		http.Error(w, "invalid uuid", http.StatusBadRequest)
		return
	}

	limited := io.LimitReader(r.Body, maxBodyBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	if len(raw) > maxBodyBytes {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	if !utf8.Valid(raw) {
		http.Error(w, "body is not valid utf-8", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	current, err := h.store.Materialize(ctx, id, nil)
	if err != nil {
		writeError(w, err)
		return
	}

	if ifMatch := r.Header.Get("If-Match"); ifMatch != "" {
		if current == nil {
			http.Error(w, "precondition failed", http.StatusPreconditionFailed)
			return
		}
		if !etag.Matches(ifMatch, etag.Compute(*current)) {
			http.Error(w, "precondition failed", http.StatusPreconditionFailed)
			return
		}
	}

	created := current == nil
	if created {
		if _, err := h.store.AddSubjectWithID(ctx, id, fact.KindPerson); err != nil {
			writeError(w, err)
			return
		}
	}

	result, err := diff.Diff(string(raw), id, sourceName, current)
	if err != nil {
		writeError(w, err)
		return
	}

	for _, nf := range result.New {
		if _, err := h.store.RecordFact(ctx, nf); err != nil {
			writeError(w, err)
			return
		}
	}
	for _, sup := range result.Supersede {
		if _, _, err := h.store.Supersede(ctx, sup.OldFactID, sup.Replacement); err != nil {
			writeError(w, err)
			return
		}
	}
	for _, factID := range result.Retract {
		reason := result.RetractReason
		if _, err := h.store.Retract(ctx, factID, &reason); err != nil {
			writeError(w, err)
			return
		}
	}

	final, err := h.store.Materialize(ctx, id, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	if final == nil {
		writeError(w, err)
		return
	}

	w.Header().Set("ETag", etag.Compute(*final))
	if created {
		w.WriteHeader(http.StatusCreated)
	} else {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if chi.URLParam(r, "ab") != addressbookSlug {
		http.NotFound(w, r)
		return
	}
	id, ok := resourceUID(r)
	if !ok {
		http.Error(w, "invalid uuid", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	view, err := h.store.Materialize(ctx, id, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	if view == nil {
		http.NotFound(w, r)
		return
	}

	reason := "Deleted via CardDAV"
	for _, f := range view.ActiveFacts {
		if _, err := h.store.Retract(ctx, f.ID, &reason); err != nil {
			writeError(w, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
