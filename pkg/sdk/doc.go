// Package sdk provides a typed Go client for the DocCompare analysis backend.
//
// The client exposes one method per backend operation. Calls are bounded by
// a per-call timeout via fortify and are never retried; the user re-triggers
// the action instead.
//
// Usage:
//
//	c := sdk.NewClient("http://localhost:8000/api", sdk.WithTimeout(10*time.Second))
//
//	samples, _ := c.ListSamples(ctx)
//	result, err := c.AnalyzeSample(ctx, samples[0])
//	var apiErr *sdk.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Println(apiErr.StatusCode, apiErr.Message)
//	}
package sdk
