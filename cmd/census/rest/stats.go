package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	apicensus "github.com/v6census/v6census/pkg/api/types/census"
)

func (c *client) GetOverview(ctx context.Context) (apicensus.Overview, error) {
	return getJson[apicensus.Overview](ctx, c, MessageFor{}, "overview")
}

func (c *client) GetAdoption(ctx context.Context) (apicensus.Adoption, error) {
	return getJson[apicensus.Adoption](ctx, c, MessageFor{}, "adoption")
}

func (c *client) GetCountries(ctx context.Context, limit int) (apicensus.Countries, error) {
	query := map[string]string{}
	if 0 < limit {
		query["limit"] = strconv.Itoa(limit)
	}
	return getJsonWithQuery[apicensus.Countries](
		ctx, c, MessageFor{}, query, "adoption", "countries",
	)
}

func (c *client) GetAdoptionHistory(ctx context.Context, months int) (apicensus.History, error) {
	query := map[string]string{}
	if 0 < months {
		query["months"] = strconv.Itoa(months)
	}
	return getJsonWithQuery[apicensus.History](
		ctx, c, MessageFor{}, query, "adoption", "history",
	)
}

func (c *client) GetBGP(ctx context.Context) (apicensus.BGP, error) {
	return getJson[apicensus.BGP](ctx, c, MessageFor{}, "bgp")
}

func (c *client) GetBGPHistory(ctx context.Context, months int) (apicensus.History, error) {
	query := map[string]string{}
	if 0 < months {
		query["months"] = strconv.Itoa(months)
	}
	return getJsonWithQuery[apicensus.History](
		ctx, c, MessageFor{}, query, "bgp", "history",
	)
}

func (c *client) GetBGPPrefixes(ctx context.Context) (apicensus.BGPPrefixes, error) {
	return getJson[apicensus.BGPPrefixes](ctx, c, MessageFor{}, "bgp", "prefixes")
}

func (c *client) GetRIR(ctx context.Context) (apicensus.RIR, error) {
	return getJson[apicensus.RIR](ctx, c, MessageFor{}, "rir")
}

func (c *client) GetRegistry(ctx context.Context, registry string) (apicensus.Registry, error) {
	return getJson[apicensus.Registry](
		ctx, c,
		MessageFor{
			Status4xx: fmt.Sprintf("registry:%v is not found", registry),
		},
		"rir", registry,
	)
}

func (c *client) GetCloud(ctx context.Context) (apicensus.Cloud, error) {
	return getJson[apicensus.Cloud](ctx, c, MessageFor{}, "cloud")
}

func (c *client) GetWhois(ctx context.Context, resource string) (apicensus.Whois, error) {
	return getJson[apicensus.Whois](
		ctx, c,
		MessageFor{
			Status4xx: fmt.Sprintf("%v does not name an AS number or a prefix", resource),
		},
		"whois", resource,
	)
}

func (c *client) GetSources(ctx context.Context) (apicensus.Sources, error) {
	return getJson[apicensus.Sources](ctx, c, MessageFor{}, "sources")
}

func getJson[T any](
	ctx context.Context, c *client, messageFor MessageFor, path ...string,
) (T, error) {
	return getJsonWithQuery[T](ctx, c, messageFor, nil, path...)
}

func getJsonWithQuery[T any](
	ctx context.Context, c *client, messageFor MessageFor,
	query map[string]string, path ...string,
) (T, error) {
	var found T

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.apipath(path...), nil,
	)
	if err != nil {
		return found, err
	}

	if 0 < len(query) {
		q := req.URL.Query()
		for key, value := range query {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return found, err
	}
	defer resp.Body.Close()

	if messageFor == nil {
		messageFor = MessageFor{}
	}
	if _, ok := messageFor[Status5xx]; !ok {
		messageFor[Status5xx] = fmt.Sprintf("server error (status code = %d)", resp.StatusCode)
	}

	if err := unmarshalJsonResponse(resp, &found, messageFor); err != nil {
		return found, err
	}
	return found, nil
}
