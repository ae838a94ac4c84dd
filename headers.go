package captcha

import (
	"net/http"

	stealth "github.com/anatolykoptev/go-stealth"
)

// userAgentHeader builds a header set for the given user agent, including the
// sec-ch-ua client hints a Chromium browser with that identity would send.
func userAgentHeader(userAgent string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", userAgent)
	if ch := stealth.ClientHintsHeaders(userAgent); ch != nil {
		for k, v := range ch {
			h.Set(k, v)
		}
	}
	return h
}
