package carddav

import (
	"bytes"
	"encoding/xml"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kithhq/kith/pkg/etag"
	"github.com/kithhq/kith/pkg/vcard"
)

// handleReport dispatches addressbook-multiget (resolve a list of hrefs) or
// addressbook-query (return every resource) per §6.2. Unrecognised report
// bodies are a client error.
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	ab := chi.URLParam(r, "ab")
	if ab != addressbookSlug {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	switch {
	case bytes.Contains(body, []byte("addressbook-multiget")):
		h.handleMultiget(w, r, ab, body)
	case bytes.Contains(body, []byte("addressbook-query")):
		h.handleQuery(w, r, ab)
	default:
		http.Error(w, "unrecognised report", http.StatusBadRequest)
	}
}

func (h *Handler) handleMultiget(w http.ResponseWriter, r *http.Request, ab string, body []byte) {
	var mg addressbookMultiget
	if err := xml.Unmarshal(body, &mg); err != nil {
		http.Error(w, "malformed multiget body", http.StatusBadRequest)
		return
	}

	responses := make([]response, 0, len(mg.Hrefs))
	for _, href := range mg.Hrefs {
		uidStr := strings.TrimSuffix(hrefLastSegment(href), ".vcf")
		id, err := uuid.Parse(uidStr)
		if err != nil {
			responses = append(responses, response{Href: href, Propstat: []propstat{notFoundPropstat()}})
			continue
		}

		view, err := h.store.Materialize(r.Context(), id, nil)
		if err != nil {
			writeError(w, err)
			return
		}
		if !liveView(view) {
			responses = append(responses, response{Href: href, Propstat: []propstat{notFoundPropstat()}})
			continue
		}

		responses = append(responses, response{
			Href: resourcePath(ab, id.String()),
			Propstat: []propstat{okPropstat(prop{
				GetETag:     etag.Compute(*view),
				AddressData: vcard.Serialize(*view),
			})},
		})
	}

	writeMultiStatus(w, multiStatus{Responses: responses})
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request, ab string) {
	subjects, err := h.store.ListSubjects(r.Context(), nil)
	if err != nil {
		writeError(w, err)
		return
	}

	responses := make([]response, 0, len(subjects))
	for _, subj := range subjects {
		view, err := h.store.Materialize(r.Context(), subj.ID, nil)
		if err != nil {
			writeError(w, err)
			return
		}
		if !liveView(view) {
			continue
		}
		responses = append(responses, response{
			Href: resourcePath(ab, subj.ID.String()),
			Propstat: []propstat{okPropstat(prop{
				GetETag:     etag.Compute(*view),
				AddressData: vcard.Serialize(*view),
			})},
		})
	}

	writeMultiStatus(w, multiStatus{Responses: responses})
}

// hrefLastSegment returns the last path segment of an href, tolerating
// both bare filenames and full collection-relative paths the client may
// send.
func hrefLastSegment(href string) string {
	if i := strings.LastIndex(href, "/"); i >= 0 {
		return href[i+1:]
	}
	return href
}
