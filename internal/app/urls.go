package app

import "net/url"

// redirectURLs implements payload.URLBuilder from the configured shop base
// URL. The gateway appends nothing; the status query parameter tells the
// shop's finalize page how the checkout ended.
type redirectURLs struct {
	base string
}

func newRedirectURLs(base string) redirectURLs {
	return redirectURLs{base: base}
}

func (u redirectURLs) SuccessURL(orderID string) string {
	return u.build(orderID, "success")
}

func (u redirectURLs) FailureURL(orderID string) string {
	return u.build(orderID, "fail")
}

func (u redirectURLs) build(orderID, status string) string {
	q := url.Values{}
	q.Set("orderId", orderID)
	q.Set("status", status)
	return u.base + "/payment/finalize?" + q.Encode()
}
