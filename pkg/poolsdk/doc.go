// Package poolsdk is a typed Go client for the hostpool HTTP API.
//
// The request and response types are shared with the server handlers, so a
// field added on one side is picked up by the other.
//
//	c := poolsdk.NewClient("https://hostpool.example", accessToken)
//	h, err := c.CreateHostname(ctx, poolsdk.CreateHostnameRequest{
//		DomainID:      "01J...",
//		Hostname:      "shop.customer.example",
//		TargetAddress: "192.0.2.10",
//	})
//
// Failed calls return *APIError carrying the HTTP status and error code.
package poolsdk
