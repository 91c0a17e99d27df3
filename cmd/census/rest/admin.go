package rest

import (
	"context"
	"fmt"
	"net/http"

	apicensus "github.com/v6census/v6census/pkg/api/types/census"
)

func (c *client) Refresh(
	ctx context.Context, token string, sources []string,
) (apicensus.RefreshResult, error) {
	return postAdmin[apicensus.RefreshResult](
		ctx, c, token, sources,
		MessageFor{
			Status4xx: "refresh is rejected",
		},
		"admin", "refresh",
	)
}

func (c *client) Invalidate(
	ctx context.Context, token string, sources []string,
) (apicensus.InvalidateResult, error) {
	return postAdmin[apicensus.InvalidateResult](
		ctx, c, token, sources,
		MessageFor{
			Status4xx: "invalidate is rejected",
		},
		"admin", "invalidate",
	)
}

func postAdmin[T any](
	ctx context.Context, c *client, token string, sources []string,
	messageFor MessageFor, path ...string,
) (T, error) {
	var result T

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.apipath(path...), nil,
	)
	if err != nil {
		return result, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	if 0 < len(sources) {
		q := req.URL.Query()
		for _, source := range sources {
			q.Add("source", source)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	if _, ok := messageFor[Status5xx]; !ok {
		messageFor[Status5xx] = fmt.Sprintf("server error (status code = %d)", resp.StatusCode)
	}

	if err := unmarshalJsonResponse(resp, &result, messageFor); err != nil {
		return result, err
	}
	return result, nil
}
