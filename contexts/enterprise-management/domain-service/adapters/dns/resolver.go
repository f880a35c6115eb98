package dnsadapter

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// Resolver satisfies the DNSResolver port with the system resolver.
type Resolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

func NewResolver(timeout time.Duration) Resolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return Resolver{resolver: net.DefaultResolver, timeout: timeout}
}

func (r Resolver) Lookup(ctx context.Context, name, recordType string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	switch strings.ToUpper(recordType) {
	case "TXT":
		return r.resolver.LookupTXT(ctx, name)
	case "CNAME":
		value, err := r.resolver.LookupCNAME(ctx, name)
		if err != nil {
			return nil, err
		}
		return []string{strings.TrimSuffix(value, ".")}, nil
	default:
		return nil, fmt.Errorf("unsupported record type %q", recordType)
	}
}
