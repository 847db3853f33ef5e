package systemd

import (
	"context"
	"fmt"

	"upkeep/internal/checks"
)

// CheckName identifies the failed-unit check in findings and history.
const CheckName = "units"

// Checker adapts the systemctl client to the check runner.
type Checker struct {
	client *Client
}

// NewChecker wraps a client for use by checks.Runner.
func NewChecker(client *Client) *Checker {
	return &Checker{client: client}
}

func (c *Checker) Name() string { return CheckName }

// Run reports one finding per failed unit.
func (c *Checker) Run(ctx context.Context) ([]checks.Finding, error) {
	units, err := c.client.FailedUnits(ctx)
	if err != nil {
		return nil, err
	}

	findings := make([]checks.Finding, 0, len(units))
	for _, unit := range units {
		findings = append(findings, checks.Finding{
			Category: checks.CategoryFailedUnit,
			Check:    CheckName,
			Summary:  fmt.Sprintf("%q (%s) failed to start normally", unit.Description, unit.Unit),
			Detail:   fmt.Sprintf("load=%s active=%s sub=%s", unit.Load, unit.Active, unit.Sub),
		})
	}
	return findings, nil
}
