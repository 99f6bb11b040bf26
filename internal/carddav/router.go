package carddav

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kithhq/kith/pkg/kithconfig"
	"github.com/kithhq/kith/pkg/kithlog"
	"github.com/kithhq/kith/pkg/ledger"
)

// addressbookSlug is the single fixed addressbook this server exposes.
// Nothing in the spec calls for more than one, so {ab} is validated against
// this constant rather than resolved through the store.
const addressbookSlug = "personal"

// maxBodyBytes caps PUT request bodies per spec §6.2.
const maxBodyBytes = 8 << 20

// Handler wires the ledger store and config into chi routes. It holds only
// immutable references, per spec §5's "no global state" note.
type Handler struct {
	store ledger.Store
	cfg   *kithconfig.Config
	log   kithlog.Logger
}

// New builds the CardDAV HTTP surface as a mountable http.Handler.
func New(store ledger.Store, cfg *kithconfig.Config, log kithlog.Logger) http.Handler {
	h := &Handler{store: store, cfg: cfg, log: log}

	r := chi.NewRouter()
	r.Use(h.basicAuth)

	r.MethodFunc(http.MethodOptions, "/*", h.handleOptions)

	r.Get("/dav", h.handlePrincipal)
	method(r, "PROPFIND", "/dav", h.handlePrincipal)

	r.Get("/dav/addressbooks", h.handleHomeSet)
	method(r, "PROPFIND", "/dav/addressbooks", h.handleHomeSet)

	method(r, "PROPFIND", "/dav/addressbooks/{ab}", h.handleCollection)
	method(r, "REPORT", "/dav/addressbooks/{ab}", h.handleReport)

	r.Get("/dav/addressbooks/{ab}/{uid}.vcf", h.handleGet)
	r.Head("/dav/addressbooks/{ab}/{uid}.vcf", h.handleGet)
	r.Put("/dav/addressbooks/{ab}/{uid}.vcf", h.handlePut)
	r.Delete("/dav/addressbooks/{ab}/{uid}.vcf", h.handleDelete)

	return r
}

// method registers a handler for a non-standard HTTP verb (PROPFIND,
// REPORT) that chi's typed helpers (Get, Put, ...) don't name directly.
func method(r chi.Router, verb, pattern string, fn http.HandlerFunc) {
	r.MethodFunc(verb, pattern, fn)
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("DAV", "1, 3, addressbook")
	w.Header().Set("Allow", "OPTIONS, GET, HEAD, PUT, DELETE, PROPFIND, REPORT")
	w.WriteHeader(http.StatusNoContent)
}

func addressbookPath(ab string) string {
	return "/dav/addressbooks/" + ab + "/"
}

func resourcePath(ab, uid string) string {
	return addressbookPath(ab) + uid + ".vcf"
}
