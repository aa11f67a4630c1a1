// Package clientip resolves the address of the client behind reverse
// proxies and CDNs. It trusts CF-Connecting-IP, DO-Connecting-IP,
// X-Forwarded-For and X-Real-IP in that order, so deploy it only behind a
// proxy that overwrites these headers.
package clientip
