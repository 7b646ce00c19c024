package gateway

// ServiceVersion is one entry of the gateway's per-stack version report.
type ServiceVersion struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Manifest is the version report the gateway returns for one stack.
type Manifest struct {
	Region   string           `json:"region"`
	Versions []ServiceVersion `json:"versions"`
}

// Lookup returns the raw version string reported for a service.
func (m Manifest) Lookup(svc Service) (string, bool) {
	for _, sv := range m.Versions {
		if Service(sv.Name) == svc {
			return sv.Version, true
		}
	}
	return "", false
}

// Defaults configures the version to assume for a service when the manifest
// does not report it, or reports something unparseable.
type Defaults map[Service]Version

// Resolver turns a manifest into per-service version tags. It is a pure
// function of the manifest and its configuration; construct it once at
// startup and share it freely.
type Resolver struct {
	defaults Defaults
	disabled map[Service]struct{}
}

// NewResolver builds a resolver. disabled lists services that operators have
// switched off regardless of what the gateway reports.
func NewResolver(defaults Defaults, disabled []Service) *Resolver {
	off := make(map[Service]struct{}, len(disabled))
	for _, svc := range disabled {
		off[svc] = struct{}{}
	}
	return &Resolver{defaults: defaults, disabled: off}
}

// Resolve returns the version tag to use for svc. A service that is absent
// from the manifest, or whose reported version does not classify, falls back
// to the configured default; with no default the result is VersionUnknown.
// Resolve never fails.
func (r *Resolver) Resolve(m Manifest, svc Service) Version {
	if raw, ok := m.Lookup(svc); ok {
		if v := Classify(raw); v != VersionUnknown {
			return v
		}
	}
	if v, ok := r.defaults[svc]; ok {
		return v
	}
	return VersionUnknown
}

// ResolveAll resolves every known service in one pass.
func (r *Resolver) ResolveAll(m Manifest) map[Service]Version {
	out := make(map[Service]Version, len(Services))
	for _, svc := range Services {
		out[svc] = r.Resolve(m, svc)
	}
	return out
}

// Enabled reports whether svc should be offered to operators: it must be
// present in the manifest and not manually disabled. The disabled list wins
// independently of the reported version.
func (r *Resolver) Enabled(m Manifest, svc Service) bool {
	if _, off := r.disabled[svc]; off {
		return false
	}
	_, present := m.Lookup(svc)
	return present
}
