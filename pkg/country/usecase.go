package country

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// UseCase relays country lookups to the upstream API.
type UseCase interface {
	All(ctx context.Context) (json.RawMessage, error)
	ByName(ctx context.Context, name string) (json.RawMessage, error)
	ByRegion(ctx context.Context, region string) (json.RawMessage, error)
	ByCode(ctx context.Context, code string) (json.RawMessage, error)
	ByRegionCode(ctx context.Context, code string) (json.RawMessage, error)
}

type service struct {
	upstream Upstream
}

func NewService(upstream Upstream) UseCase { return &service{upstream: upstream} }

func (s *service) All(ctx context.Context) (json.RawMessage, error) {
	return s.fetch(ctx, "/all")
}

func (s *service) ByName(ctx context.Context, name string) (json.RawMessage, error) {
	return s.fetch(ctx, "/name/"+url.PathEscape(name))
}

func (s *service) ByRegion(ctx context.Context, region string) (json.RawMessage, error) {
	return s.fetch(ctx, "/region/"+url.PathEscape(region))
}

func (s *service) ByCode(ctx context.Context, code string) (json.RawMessage, error) {
	return s.fetch(ctx, "/alpha/"+url.PathEscape(code))
}

// ByRegionCode fetches every country and keeps those whose region matches
// code case-insensitively. Matching elements are returned untouched.
func (s *service) ByRegionCode(ctx context.Context, code string) (json.RawMessage, error) {
	body, err := s.fetch(ctx, "/all")
	if err != nil {
		return nil, err
	}
	var countries []json.RawMessage
	if err := json.Unmarshal(body, &countries); err != nil {
		return nil, fmt.Errorf("%w: decode country list: %v", ErrUpstreamFailure, err)
	}
	filtered := make([]json.RawMessage, 0, len(countries))
	for _, c := range countries {
		var head struct {
			Region string `json:"region"`
		}
		if json.Unmarshal(c, &head) != nil || head.Region == "" {
			continue
		}
		if strings.EqualFold(head.Region, code) {
			filtered = append(filtered, c)
		}
	}
	out, err := json.Marshal(filtered)
	if err != nil {
		return nil, fmt.Errorf("%w: encode filtered list: %v", ErrUpstreamFailure, err)
	}
	return out, nil
}

func (s *service) fetch(ctx context.Context, path string) (json.RawMessage, error) {
	body, err := s.upstream.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	return json.RawMessage(body), nil
}
