package carddav

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kithhq/kith/pkg/etag"
	"github.com/kithhq/kith/pkg/vcard"
)

func (h *Handler) handlePrincipal(w http.ResponseWriter, r *http.Request) {
	ms := multiStatus{Responses: []response{
		{
			Href: "/dav",
			Propstat: []propstat{okPropstat(prop{
				ResourceType:         &resourceType{Collection: &struct{}{}},
				DisplayName:          "kith",
				CurrentUserPrincipal: &hrefElem{Href: "/dav"},
				PrincipalURL:         &hrefElem{Href: "/dav"},
				AddressbookHomeSet:   &hrefElem{Href: "/dav/addressbooks"},
			})},
		},
	}}
	writeMultiStatus(w, ms)
}

func (h *Handler) handleHomeSet(w http.ResponseWriter, r *http.Request) {
	responses := []response{
		{
			Href: "/dav/addressbooks",
			Propstat: []propstat{okPropstat(prop{
				ResourceType: &resourceType{Collection: &struct{}{}},
				DisplayName:  "addressbooks",
			})},
		},
	}
	if r.Header.Get("Depth") != "0" {
		responses = append(responses, response{
			Href: addressbookPath(addressbookSlug),
			Propstat: []propstat{okPropstat(prop{
				ResourceType: &resourceType{Collection: &struct{}{}, Addressbook: &struct{}{}},
				DisplayName:  addressbookSlug,
			})},
		})
	}
	writeMultiStatus(w, multiStatus{Responses: responses})
}

func (h *Handler) handleCollection(w http.ResponseWriter, r *http.Request) {
	ab := chi.URLParam(r, "ab")
	if ab != addressbookSlug {
		http.NotFound(w, r)
		return
	}

	if r.Header.Get("Depth") == "infinity" {
		http.Error(w, "infinite depth not supported", http.StatusForbidden)
		return
	}

	responses := []response{
		{
			Href: addressbookPath(ab),
			Propstat: []propstat{okPropstat(prop{
				ResourceType: &resourceType{Collection: &struct{}{}, Addressbook: &struct{}{}},
				DisplayName:  ab,
			})},
		},
	}

	if r.Header.Get("Depth") != "0" {
		subjects, err := h.store.ListSubjects(r.Context(), nil)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, subj := range subjects {
			view, err := h.store.Materialize(r.Context(), subj.ID, nil)
			if err != nil {
				writeError(w, err)
				return
			}
			if view == nil {
				continue
			}
			body := vcard.Serialize(*view)
			responses = append(responses, response{
				Href: resourcePath(ab, subj.ID.String()),
				Propstat: []propstat{okPropstat(prop{
					GetETag:          etag.Compute(*view),
					GetContentType:   "text/vcard; charset=utf-8",
					GetContentLength: strconv.Itoa(len(body)),
				})},
			})
		}
	}

	writeMultiStatus(w, multiStatus{Responses: responses})
}
