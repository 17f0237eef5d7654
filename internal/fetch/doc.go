// Package fetch downloads pages for scanning.
//
// Built on go-resty/resty with retryablehttp's retry policy, a token-bucket
// rate limiter shared by all requests and one circuit breaker per host, so
// a dead host stops costing retries after a few attempts.
//
// Example Usage:
//
//	client := fetch.NewClient(fetch.DefaultConfig())
//	page, err := client.Fetch(ctx, "https://example.com/pricing")
//	report, err := scanner.Scan(ctx, page.HTML, engine.ScanOptions{Env: a11y.NewEnv(page.FinalURL)})
package fetch
