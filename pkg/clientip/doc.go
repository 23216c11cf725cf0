// Package clientip resolves the originating client IP of an HTTP request,
// preferring proxy headers over the socket address.
package clientip
