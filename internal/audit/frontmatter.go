package audit

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-press/internal/validation"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// checkFrontMatter validates the raw metadata header against the recognized
// key schema. Parse failures and shape violations become findings; only a
// broken schema aborts the check.
func (s *Service) checkFrontMatter(ctx context.Context, run *runState) error {
	if run.headerErr != nil {
		run.report(interfaces.SeverityError, 0, "metadata header failed to parse: %v", run.headerErr)
		return nil
	}
	err := validation.ValidateFrontMatter(run.raw)
	if err == nil {
		return nil
	}
	var payloadErr *validation.PayloadValidationError
	if errors.As(err, &payloadErr) {
		for _, issue := range payloadErr.Issues {
			location := strings.TrimSpace(issue.Location)
			if location == "" {
				location = "#"
			}
			run.report(interfaces.SeverityError, 0, "metadata header %s: %s", location, issue.Message)
		}
		return nil
	}
	return err
}
