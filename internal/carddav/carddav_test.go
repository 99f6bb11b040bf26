package carddav

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/kithhq/kith/pkg/kithconfig"
	"github.com/kithhq/kith/pkg/kithlog"
	"github.com/kithhq/kith/pkg/ledger"
)

const (
	testUser = "kith"
	testPass = "hunter2"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	store, err := ledger.Open(context.Background(), filepath.Join(dir, "kith.db"))
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(testPass), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	cfg := &kithconfig.Config{
		Server: kithconfig.Server{Realm: "kith"},
		Auth:   kithconfig.Auth{Username: testUser, BcryptHash: string(hash)},
	}

	handler := New(store, cfg, kithlog.Nop())
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func doReq(t *testing.T, srv *httptest.Server, method, path, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.SetBasicAuth(testUser, testPass)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			break
		}
	}
	return string(buf)
}

// S1: first PUT creates.
func TestPUTCreates(t *testing.T) {
	srv := newTestServer(t)
	id := "11111111-1111-1111-1111-111111111111"
	vc := "BEGIN:VCARD\r\nVERSION:4.0\r\nUID:" + id + "\r\nFN:Alice\r\nEMAIL:alice@example.com\r\nEND:VCARD\r\n"

	resp := doReq(t, srv, http.MethodPut, "/dav/addressbooks/personal/"+id+".vcf", vc, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag header")
	}

	get := doReq(t, srv, http.MethodGet, "/dav/addressbooks/personal/"+id+".vcf", "", nil)
	if get.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", get.StatusCode)
	}
	body := readBody(t, get)
	if !strings.Contains(body, "FN:Alice") || !strings.Contains(body, "alice@example.com") {
		t.Fatalf("unexpected body: %s", body)
	}
}

// S2: idempotent PUT.
func TestPUTIdempotent(t *testing.T) {
	srv := newTestServer(t)
	id := "22222222-2222-2222-2222-222222222222"
	vc := "BEGIN:VCARD\r\nVERSION:4.0\r\nUID:" + id + "\r\nFN:Bob\r\nEMAIL:bob@example.com\r\nEND:VCARD\r\n"

	first := doReq(t, srv, http.MethodPut, "/dav/addressbooks/personal/"+id+".vcf", vc, nil)
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.StatusCode)
	}
	etag1 := first.Header.Get("ETag")

	second := doReq(t, srv, http.MethodPut, "/dav/addressbooks/personal/"+id+".vcf", vc, nil)
	if second.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", second.StatusCode, readBody(t, second))
	}
	if second.Header.Get("ETag") != etag1 {
		t.Fatalf("expected unchanged ETag, got %q vs %q", second.Header.Get("ETag"), etag1)
	}
}

// S3: email label change yields exactly one supersession.
func TestPUTLabelChangeSupersedes(t *testing.T) {
	srv := newTestServer(t)
	id := "33333333-3333-3333-3333-333333333333"
	first := "BEGIN:VCARD\r\nVERSION:4.0\r\nUID:" + id + "\r\nFN:Cara\r\nEMAIL;TYPE=WORK:cara@example.com\r\nEND:VCARD\r\n"
	doReq(t, srv, http.MethodPut, "/dav/addressbooks/personal/"+id+".vcf", first, nil)

	second := "BEGIN:VCARD\r\nVERSION:4.0\r\nUID:" + id + "\r\nFN:Cara\r\nEMAIL;TYPE=HOME:cara@example.com\r\nEND:VCARD\r\n"
	resp := doReq(t, srv, http.MethodPut, "/dav/addressbooks/personal/"+id+".vcf", second, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", resp.StatusCode, readBody(t, resp))
	}

	get := doReq(t, srv, http.MethodGet, "/dav/addressbooks/personal/"+id+".vcf", "", nil)
	body := readBody(t, get)
	if strings.Count(body, "EMAIL") != 1 {
		t.Fatalf("expected exactly one active email, got: %s", body)
	}
	if !strings.Contains(body, "TYPE=home") && !strings.Contains(body, "TYPE=HOME") {
		t.Fatalf("expected home label, got: %s", body)
	}
}

// S6: stale If-Match fails 412, store unchanged.
func TestPUTStaleIfMatchFails(t *testing.T) {
	srv := newTestServer(t)
	id := "66666666-6666-6666-6666-666666666666"
	vc := "BEGIN:VCARD\r\nVERSION:4.0\r\nUID:" + id + "\r\nFN:Dana\r\nEND:VCARD\r\n"
	doReq(t, srv, http.MethodPut, "/dav/addressbooks/personal/"+id+".vcf", vc, nil)

	resp := doReq(t, srv, http.MethodPut, "/dav/addressbooks/personal/"+id+".vcf", vc,
		map[string]string{"If-Match": `"stale"`})
	if resp.StatusCode != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d", resp.StatusCode)
	}
}

// PUT against a non-existent subject with If-Match present fails 412
// before creating anything.
func TestPUTIfMatchAgainstMissingSubjectFails(t *testing.T) {
	srv := newTestServer(t)
	id := "77777777-7777-7777-7777-777777777777"
	vc := "BEGIN:VCARD\r\nVERSION:4.0\r\nUID:" + id + "\r\nFN:Eve\r\nEND:VCARD\r\n"

	resp := doReq(t, srv, http.MethodPut, "/dav/addressbooks/personal/"+id+".vcf", vc,
		map[string]string{"If-Match": `"anything"`})
	if resp.StatusCode != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d", resp.StatusCode)
	}

	get := doReq(t, srv, http.MethodGet, "/dav/addressbooks/personal/"+id+".vcf", "", nil)
	if get.StatusCode != http.StatusNotFound {
		t.Fatalf("expected subject to not exist, got %d", get.StatusCode)
	}
}

// DELETE retracts every active fact, leaving the envelope; with no active
// facts left, a subsequent GET of the same subject id is a 404.
func TestDELETERetractsAndGETThen404(t *testing.T) {
	srv := newTestServer(t)
	id := "88888888-8888-8888-8888-888888888888"
	vc := "BEGIN:VCARD\r\nVERSION:4.0\r\nUID:" + id + "\r\nFN:Finn\r\nEMAIL:finn@example.com\r\nEND:VCARD\r\n"
	doReq(t, srv, http.MethodPut, "/dav/addressbooks/personal/"+id+".vcf", vc, nil)

	del := doReq(t, srv, http.MethodDelete, "/dav/addressbooks/personal/"+id+".vcf", "", nil)
	if del.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", del.StatusCode)
	}

	get := doReq(t, srv, http.MethodGet, "/dav/addressbooks/personal/"+id+".vcf", "", nil)
	if get.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for a subject with no active facts, got %d", get.StatusCode)
	}
	body := readBody(t, get)
	if strings.Contains(body, "EMAIL") {
		t.Fatalf("expected no active email after delete, got: %s", body)
	}
}

func TestDELETEMissingSubjectIs404(t *testing.T) {
	srv := newTestServer(t)
	id := "99999999-9999-9999-9999-999999999999"
	resp := doReq(t, srv, http.MethodDelete, "/dav/addressbooks/personal/"+id+".vcf", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

// S7: multiget of a missing resource returns 207 with a per-href 404, not
// a top-level 500.
func TestREPORTMultigetMissingHrefIsPerItem404(t *testing.T) {
	srv := newTestServer(t)
	existingID := "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	vc := "BEGIN:VCARD\r\nVERSION:4.0\r\nUID:" + existingID + "\r\nFN:Gia\r\nEND:VCARD\r\n"
	doReq(t, srv, http.MethodPut, "/dav/addressbooks/personal/"+existingID+".vcf", vc, nil)

	missingID := "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	reportBody := `<?xml version="1.0"?>
<C:addressbook-multiget xmlns:C="urn:ietf:params:xml:ns:carddav" xmlns:D="DAV:">
  <D:href>/dav/addressbooks/personal/` + existingID + `.vcf</D:href>
  <D:href>/dav/addressbooks/personal/` + missingID + `.vcf</D:href>
</C:addressbook-multiget>`

	resp := doReq(t, srv, "REPORT", "/dav/addressbooks/personal", reportBody, nil)
	if resp.StatusCode != 207 {
		t.Fatalf("expected 207, got %d", resp.StatusCode)
	}

	var ms multiStatus
	body := readBody(t, resp)
	if err := xml.Unmarshal([]byte(body), &ms); err != nil {
		t.Fatalf("xml.Unmarshal: %v, body: %s", err, body)
	}
	if len(ms.Responses) != 2 {
		t.Fatalf("expected 2 responses, got %d: %s", len(ms.Responses), body)
	}

	var sawMissing404, sawExisting200 bool
	for _, resp := range ms.Responses {
		if strings.Contains(resp.Href, missingID) {
			if resp.Propstat[0].Status == "HTTP/1.1 404 Not Found" {
				sawMissing404 = true
			}
		}
		if strings.Contains(resp.Href, existingID) {
			if resp.Propstat[0].Status == "HTTP/1.1 200 OK" {
				sawExisting200 = true
			}
		}
	}
	if !sawMissing404 || !sawExisting200 {
		t.Fatalf("expected one 404 and one 200 response element, got: %s", body)
	}
}

func TestUnauthenticatedRequestIs401(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/dav/addressbooks/personal/00000000-0000-0000-0000-000000000000.vcf", nil)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if resp.Header.Get("WWW-Authenticate") == "" {
		t.Fatalf("expected WWW-Authenticate challenge header")
	}
}

func TestOPTIONSExemptFromAuth(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/dav", nil)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if resp.Header.Get("DAV") == "" {
		t.Fatalf("expected DAV header")
	}
}

func TestPUTOversizedBodyIs413(t *testing.T) {
	srv := newTestServer(t)
	id := "cccccccc-cccc-cccc-cccc-cccccccccccc"
	huge := strings.Repeat("X", maxBodyBytes+1024)
	vc := "BEGIN:VCARD\r\nVERSION:4.0\r\nUID:" + id + "\r\nNOTE:" + huge + "\r\nEND:VCARD\r\n"

	resp := doReq(t, srv, http.MethodPut, "/dav/addressbooks/personal/"+id+".vcf", vc, nil)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
}

func TestPUTNonUTF8BodyIs400(t *testing.T) {
	srv := newTestServer(t)
	id := "dddddddd-dddd-dddd-dddd-dddddddddddd"
	invalid := "BEGIN:VCARD\r\nVERSION:4.0\r\nUID:" + id + "\r\nFN:\xff\xfe\r\nEND:VCARD\r\n"

	resp := doReq(t, srv, http.MethodPut, "/dav/addressbooks/personal/"+id+".vcf", invalid, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
