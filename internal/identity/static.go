package identity

import (
	"context"
	"strings"
)

// StaticProvider maps fixed tokens to owners. It backs local development and
// tests; production deployments put a real identity service behind Provider.
type StaticProvider struct {
	owners map[string]Owner
}

// NewStaticProvider parses "token=ownerID" pairs separated by commas, the
// format of MEMOIRLY_DEV_TOKENS.
func NewStaticProvider(pairs string) *StaticProvider {
	p := &StaticProvider{owners: make(map[string]Owner)}
	for _, pair := range strings.Split(pairs, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		if i := strings.Index(pair, "="); i > 0 && i+1 < len(pair) {
			p.owners[pair[:i]] = Owner{OwnerID: pair[i+1:]}
		}
	}
	return p
}

// Add registers one token-owner mapping.
func (p *StaticProvider) Add(token string, o Owner) { p.owners[token] = o }

// Resolve implements Provider.
func (p *StaticProvider) Resolve(_ context.Context, token string) (*Owner, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	o, ok := p.owners[token]
	if !ok {
		return nil, ErrUnknownToken
	}
	out := o
	return &out, nil
}
