// Package carddav is the HTTP surface (component F): a chi router exposing
// the ledger as a single CardDAV addressbook, authenticated with HTTP Basic
// against a bcrypt-hashed credential. It translates PROPFIND/REPORT/GET/
// HEAD/PUT/DELETE into ledger and reconciliation calls and renders the
// result as vCard bodies or DAV: multistatus XML.
package carddav
