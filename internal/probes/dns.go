package probes

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/statuscore-dev/statuscore/internal/types"
)

// CheckDNS resolves the configured record type for the domain and,
// when an expected value is set, requires it to appear among the
// answers. IP expectations compare as addresses, host expectations
// case-insensitively, TXT content exactly.
func CheckDNS(config *types.DNSProbeConfig) error {
	timeout := config.Timeout

	if timeout == 0 {
		timeout = 5
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	resolver := &net.Resolver{}
	recordType := strings.ToUpper(config.RecordType)

	switch recordType {
	case "A", "AAAA":
		return checkAddressRecord(ctx, resolver, config, recordType)
	case "CNAME":
		cname, err := resolver.LookupCNAME(ctx, config.Domain)
		if err != nil {
			return fmt.Errorf("CNAME lookup for %s failed: %w", config.Domain, err)
		}
		if config.Expected != "" && !strings.EqualFold(cname, config.Expected) {
			return fmt.Errorf("expected CNAME %s, got %s", config.Expected, cname)
		}
		return nil
	case "MX":
		records, err := resolver.LookupMX(ctx, config.Domain)
		if err != nil {
			return fmt.Errorf("MX lookup for %s failed: %w", config.Domain, err)
		}
		hosts := make([]string, len(records))
		for i, mx := range records {
			hosts[i] = mx.Host
		}
		return matchHosts(config, "MX", hosts)
	case "NS":
		records, err := resolver.LookupNS(ctx, config.Domain)
		if err != nil {
			return fmt.Errorf("NS lookup for %s failed: %w", config.Domain, err)
		}
		hosts := make([]string, len(records))
		for i, ns := range records {
			hosts[i] = ns.Host
		}
		return matchHosts(config, "NS", hosts)
	case "TXT":
		records, err := resolver.LookupTXT(ctx, config.Domain)
		if err != nil {
			return fmt.Errorf("TXT lookup for %s failed: %w", config.Domain, err)
		}
		if len(records) == 0 {
			return fmt.Errorf("no TXT records found for %s", config.Domain)
		}
		if config.Expected == "" {
			return nil
		}
		for _, txt := range records {
			if txt == config.Expected {
				return nil
			}
		}
		return fmt.Errorf("expected TXT content %q not found for %s", config.Expected, config.Domain)
	default:
		return fmt.Errorf("unsupported DNS record type: %s", config.RecordType)
	}
}

// checkAddressRecord handles A and AAAA. LookupIPAddr returns both
// families, so AAAA filters to the IPv6 answers before matching.
func checkAddressRecord(ctx context.Context, resolver *net.Resolver, config *types.DNSProbeConfig, recordType string) error {
	answers, err := resolver.LookupIPAddr(ctx, config.Domain)
	if err != nil {
		return fmt.Errorf("%s lookup for %s failed: %w", recordType, config.Domain, err)
	}

	var ips []net.IP
	for _, answer := range answers {
		ipv6 := answer.IP.To4() == nil
		if (recordType == "AAAA") == ipv6 {
			ips = append(ips, answer.IP)
		}
	}

	if len(ips) == 0 {
		return fmt.Errorf("no %s records found for %s", recordType, config.Domain)
	}

	if config.Expected == "" {
		return nil
	}

	expected := net.ParseIP(config.Expected)
	if expected == nil {
		return fmt.Errorf("invalid expected IP: %s", config.Expected)
	}

	for _, ip := range ips {
		if ip.Equal(expected) {
			return nil
		}
	}
	return fmt.Errorf("expected IP %s not found among %s records for %s", config.Expected, recordType, config.Domain)
}

func matchHosts(config *types.DNSProbeConfig, recordType string, hosts []string) error {
	if len(hosts) == 0 {
		return fmt.Errorf("no %s records found for %s", recordType, config.Domain)
	}

	if config.Expected == "" {
		return nil
	}

	for _, host := range hosts {
		if strings.EqualFold(host, config.Expected) {
			return nil
		}
	}
	return fmt.Errorf("expected %s record %s not found for %s", recordType, config.Expected, config.Domain)
}
