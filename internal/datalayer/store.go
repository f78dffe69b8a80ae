package datalayer

import (
	"fmt"
	"hash/crc32"
	"regexp"
)

var (
	protocolPrefix = regexp.MustCompile(`^https?://`)
	wwwPrefix      = regexp.MustCompile(`(?i)^www\.`)
)

// StoreIdentity identifies the store in every event.
type StoreIdentity struct {
	Domain  string `json:"domain"`
	StoreID string `json:"shop_id"`
}

// NewStoreIdentity derives the identity from the store's home URL.
func NewStoreIdentity(homeURL string) StoreIdentity {
	domain := StripProtocolAndWww(homeURL)
	return StoreIdentity{Domain: domain, StoreID: StoreID(domain)}
}

// StripProtocolAndWww removes a leading http:// or https:// and then a leading
// www. (any case). The scheme match is case-sensitive.
func StripProtocolAndWww(url string) string {
	url = protocolPrefix.ReplaceAllString(url, "")
	return wwwPrefix.ReplaceAllString(url, "")
}

// StoreID is the zero-padded lowercase hex CRC32 of domain.
func StoreID(domain string) string {
	return hex8(crc32.ChecksumIEEE([]byte(domain)))
}

func hex8(v uint32) string {
	return fmt.Sprintf("%08x", v)
}
