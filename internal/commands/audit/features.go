package auditcmd

// FeatureGates exposes runtime feature toggles required by audit command
// handlers. Callers supply closures reading press.Config.Features so handlers
// stay decoupled from configuration.
type FeatureGates struct {
	AuditEnabled func() bool
}

func (g FeatureGates) auditEnabled() bool {
	if g.AuditEnabled == nil {
		return true
	}
	return g.AuditEnabled()
}
