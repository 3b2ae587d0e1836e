package articlescmd

// FeatureGates exposes runtime feature toggles required by article command
// handlers. Callers supply closures reading press.Config.Features so handlers
// stay decoupled from configuration.
type FeatureGates struct {
	ArticlesEnabled func() bool
}

func (g FeatureGates) articlesEnabled() bool {
	if g.ArticlesEnabled == nil {
		return true
	}
	return g.ArticlesEnabled()
}
