package audit

import (
	"bytes"
	"context"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// checkRender confirms the body converts to non-empty HTML through the
// configured parser. Render failures become findings so one broken article
// cannot abort a directory run.
func (s *Service) checkRender(ctx context.Context, run *runState) error {
	html, err := s.parser.ParseWithOptions(run.body, run.parser)
	if err != nil {
		run.report(interfaces.SeverityError, 0, "body failed to render: %v", err)
		return nil
	}
	if len(bytes.TrimSpace(html)) == 0 {
		run.report(interfaces.SeverityError, 0, "body rendered to empty output")
	}
	return nil
}
