// Package iwellsdk is a small client for the iWell battery monitoring API.
//
// Only the two read-only endpoints the dashboard needs are covered:
//
//	GET {base}/api/v1/batteries/{id}/status
//	GET {base}/api/v1/batteries/{id}/telemetry?OffsetMinutes=N
//
// Every request carries the account API key in the "x-api-key" header.
// Response bodies are returned as raw bytes; interpreting them is left to
// the caller. A non-2xx response is reported as a *StatusError. The client
// never retries.
//
// Example:
//
//	c := iwellsdk.NewClient("https://api.iwell.example", os.Getenv("IWELL_API_KEY"))
//	body, err := c.GetStatus(ctx, "BAT-001")
//	var se *iwellsdk.StatusError
//	if errors.As(err, &se) {
//		log.Printf("upstream said %d", se.StatusCode)
//	}
package iwellsdk
