package packages

import (
	"context"
	"fmt"

	"upkeep/internal/checks"
)

// CheckName identifies the pending-upgrade check in findings and history.
const CheckName = "updates"

// Checker adapts the package query client to the check runner.
type Checker struct {
	client *Client
}

// NewChecker wraps a client for use by checks.Runner.
func NewChecker(client *Client) *Checker {
	return &Checker{client: client}
}

func (c *Checker) Name() string { return CheckName }

// Run reports one finding per upgradable package.
func (c *Checker) Run(ctx context.Context) ([]checks.Finding, error) {
	pkgs, err := c.client.Upgradable(ctx)
	if err != nil {
		return nil, err
	}

	findings := make([]checks.Finding, 0, len(pkgs))
	for _, pkg := range pkgs {
		detail := pkg.Candidate
		if pkg.Current != "" {
			detail = fmt.Sprintf("%s -> %s", pkg.Current, pkg.Candidate)
		}
		findings = append(findings, checks.Finding{
			Category: checks.CategoryUpgradablePackage,
			Check:    CheckName,
			Summary:  pkg.Name,
			Detail:   detail,
		})
	}
	return findings, nil
}
