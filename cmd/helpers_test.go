package cmd

import (
	"net/http"
	"net/url"
)

// declineConsent answers the loopback redirect the way Google does when the
// user clicks "Cancel" on the consent screen.
func declineConsent(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	query := u.Query()
	callback := url.Values{
		"error": {"access_denied"},
		"state": {query.Get("state")},
	}

	go func() {
		resp, err := http.Get(query.Get("redirect_uri") + "?" + callback.Encode())
		if err == nil {
			_ = resp.Body.Close()
		}
	}()
	return nil
}
