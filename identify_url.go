package sandwich

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/WelcomerTeam/Sandwich-Gateway/sandwichjson"
	"github.com/valyala/fasthttp"
)

// IdentifyViaURL is a bare minimum identify provider that uses a URL to identify shards.
// This will send a POST request to the URL with the shard_id, shard_count, token, token_hash and max_concurrency in the body, or in the URL.
//
// This is done using formatting tags:
//   - {shard_id}
//   - {shard_count}
//   - {token}
//   - {token_hash}
//   - {max_concurrency}
//
// This will expect a 200 or 204 response.
// Any other response is retried after the `X-Retry-After-Ms` header, or StandardIdentifyLimit when it is missing.
type IdentifyViaURL struct {
	URL     string
	Headers map[string]string

	Client  *fasthttp.Client
	Timeout time.Duration
}

func NewIdentifyViaURL(url string, headers map[string]string) *IdentifyViaURL {
	return &IdentifyViaURL{
		URL:     url,
		Headers: headers,
		Client:  &fasthttp.Client{Name: "Sandwich " + VERSION},
		Timeout: 30 * time.Second,
	}
}

type identifyRequest struct {
	ShardID        int32  `json:"shard_id"`
	ShardCount     int32  `json:"shard_count"`
	MaxConcurrency int32  `json:"max_concurrency"`
	Token          string `json:"token"`
	TokenHash      string `json:"token_hash"`
}

func (i *IdentifyViaURL) Identify(ctx context.Context, shard *Shard) error {
	gateway := shard.manager.Configuration.Gateway
	hash := tokenHash(gateway.Token)

	identifyURL := strings.NewReplacer(
		"{shard_id}", strconv.Itoa(int(shard.ShardID)),
		"{shard_count}", strconv.Itoa(int(shard.ShardCount)),
		"{token}", gateway.Token,
		"{token_hash}", hash,
		"{max_concurrency}", strconv.Itoa(int(gateway.MaxConcurrency)),
	).Replace(i.URL)

	_, err := url.Parse(identifyURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	body, err := sandwichjson.Marshal(identifyRequest{
		ShardID:        shard.ShardID,
		ShardCount:     shard.ShardCount,
		MaxConcurrency: gateway.MaxConcurrency,
		Token:          gateway.Token,
		TokenHash:      hash,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal identify payload: %w", err)
	}

	for {
		retryAfter, ok := i.attempt(identifyURL, body)
		if ok {
			return nil
		}

		shard.Logger.Debug().Dur("retry_after", retryAfter).Msg("Identify was not allowed yet")

		if err := sleepContext(ctx, retryAfter); err != nil {
			return err
		}
	}
}

// attempt sends one identify request. It returns whether the shard may
// identify, or how long to wait before asking again.
func (i *IdentifyViaURL) attempt(identifyURL string, body []byte) (time.Duration, bool) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(identifyURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	for key, value := range i.Headers {
		req.Header.Set(key, value)
	}

	err := i.Client.DoTimeout(req, resp, i.Timeout)
	if err != nil {
		return StandardIdentifyLimit, false
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK, fasthttp.StatusNoContent:
		return 0, true
	}

	retryAfterInt, _ := strconv.Atoi(string(resp.Header.Peek("X-Retry-After-Ms")))
	if retryAfterInt > 0 {
		return time.Duration(retryAfterInt) * time.Millisecond, false
	}

	return StandardIdentifyLimit, false
}
