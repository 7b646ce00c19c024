// Package gateway resolves which major version of each backend service is
// live for a tenant's stack, from the manifest the gateway reports.
package gateway

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a major-version bucket for a backend service.
type Version string

const (
	V1             Version = "1"
	V2             Version = "2"
	V3             Version = "3"
	VersionUnknown Version = "unknown"
)

// Service names a logical backend domain as reported by the gateway.
type Service string

const (
	ServiceLedger         Service = "ledger"
	ServicePayments       Service = "payments"
	ServiceReconciliation Service = "reconciliation"
	ServiceFlows          Service = "flows"
	ServiceWallets        Service = "wallets"
	ServiceWebhooks       Service = "webhooks"
	ServiceAuth           Service = "auth"
)

// Services lists every logical service the console knows about.
var Services = []Service{
	ServiceLedger,
	ServicePayments,
	ServiceReconciliation,
	ServiceFlows,
	ServiceWallets,
	ServiceWebhooks,
	ServiceAuth,
}

// Classify buckets an arbitrary version string into V1/V2/V3. A single
// leading "v" is stripped. Anything that does not parse as a semantic
// version, or sits at 4.0.0 or above, classifies as VersionUnknown.
// Classify never panics and never returns an error.
func Classify(raw string) Version {
	tag := canonical(raw)
	if !semver.IsValid(tag) {
		return VersionUnknown
	}
	switch {
	case semver.Compare(tag, "v4.0.0") >= 0:
		return VersionUnknown
	case semver.Compare(tag, "v3.0.0") >= 0:
		return V3
	case semver.Compare(tag, "v2.0.0") >= 0:
		return V2
	default:
		return V1
	}
}

// AtLeast reports whether raw parses as a semantic version greater than or
// equal to major.0.0. Parse failures yield false, never an error.
func AtLeast(raw string, major int) bool {
	tag := canonical(raw)
	if !semver.IsValid(tag) {
		return false
	}
	return semver.Compare(tag, fmt.Sprintf("v%d.0.0", major)) >= 0
}

func canonical(raw string) string {
	return "v" + strings.TrimPrefix(strings.TrimSpace(raw), "v")
}
