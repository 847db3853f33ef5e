package report

import (
	"fmt"
	"strings"

	"upkeep/internal/checks"
	"upkeep/internal/config"
	"upkeep/internal/notify"
	"upkeep/internal/services/journal"
	"upkeep/internal/services/packages"
	"upkeep/internal/services/systemd"
)

const (
	warningIcon = "dialog-warning-symbolic"
	updateIcon  = "software-update-available"
)

// Message pairs a composed notification with the follow-up command its
// action triggers when invoked.
type Message struct {
	Check        string
	Notification notify.Notification
	// Investigate is the argv spawned when the user invokes the action.
	// Empty means the notification carries no action.
	Investigate []string
}

// Build composes at most one notification per check with findings, plus a
// trailing summary when any check was unavailable. Zero findings across all
// results yields no messages at all.
func Build(results []checks.Result, cfg *config.Config) []Message {
	var messages []Message
	for _, result := range results {
		if !result.HasFindings() {
			continue
		}
		switch result.Check {
		case systemd.CheckName:
			messages = append(messages, unitsMessage(result, cfg))
		case journal.CheckName:
			messages = append(messages, journalMessage(result, cfg))
		case packages.CheckName:
			messages = append(messages, updatesMessage(result, cfg))
		default:
			messages = append(messages, genericMessage(result))
		}
	}
	if msg, ok := unavailableMessage(results); ok {
		messages = append(messages, msg)
	}
	return messages
}

func unitsMessage(result checks.Result, cfg *config.Config) Message {
	count := len(result.Findings)
	summary := "Systemd unit failed to load"
	body := result.Findings[0].Summary + "."
	if count > 1 {
		summary = "Multiple systemd units failed to load"
		body = fmt.Sprintf("%d units failed to start normally.", count)
	}
	msg := Message{
		Check: result.Check,
		Notification: notify.Notification{
			Summary: summary,
			Body:    body,
			Icon:    warningIcon,
			Urgency: notify.UrgencyCritical,
		},
	}
	if cfg != nil && cfg.Notify.Actions && cfg.Notify.TerminalCommand != "" {
		msg.Notification.ActionLabel = "Investigate"
		msg.Investigate = []string{cfg.Notify.TerminalCommand, "--command=systemctl --failed"}
	}
	return msg
}

func journalMessage(result checks.Result, cfg *config.Config) Message {
	count := len(result.Findings)
	body := "1 error not found in allowlist."
	if count > 1 {
		body = fmt.Sprintf("%d errors not found in allowlist.", count)
	}
	msg := Message{
		Check: result.Check,
		Notification: notify.Notification{
			Summary: "Unrecognized errors in boot journal",
			Body:    body,
			Icon:    warningIcon,
			Urgency: notify.UrgencyCritical,
		},
	}
	if cfg != nil && cfg.Notify.Actions && cfg.Notify.OpenCommand != "" {
		msg.Notification.ActionLabel = "View Errors"
		msg.Investigate = []string{cfg.Notify.OpenCommand, cfg.JournalLogPath()}
	}
	return msg
}

func updatesMessage(result checks.Result, cfg *config.Config) Message {
	count := len(result.Findings)
	body := fmt.Sprintf("%d packages are ready to update.", count)
	if count == 1 {
		body = fmt.Sprintf("%q is ready to update.", result.Findings[0].Summary)
	}
	msg := Message{
		Check: result.Check,
		Notification: notify.Notification{
			Summary: "Updates available",
			Body:    body,
			Icon:    updateIcon,
			Urgency: notify.UrgencyNormal,
		},
	}
	if cfg != nil && cfg.Notify.Actions && cfg.Notify.TerminalCommand != "" && cfg.Updates.UpgradeCommand != "" {
		msg.Notification.ActionLabel = "Update"
		msg.Investigate = []string{cfg.Notify.TerminalCommand, "--command=" + cfg.Updates.UpgradeCommand}
	}
	return msg
}

func genericMessage(result checks.Result) Message {
	return Message{
		Check: result.Check,
		Notification: notify.Notification{
			Summary: fmt.Sprintf("%s check reported %d findings", result.Check, len(result.Findings)),
			Body:    result.Findings[0].Summary,
			Icon:    warningIcon,
			Urgency: notify.UrgencyNormal,
		},
	}
}

// unavailableMessage folds every degraded check into one low-urgency summary
// so a missing tool is visible without drowning out real findings.
func unavailableMessage(results []checks.Result) (Message, bool) {
	var lines []string
	for _, result := range results {
		if !result.Unavailable {
			continue
		}
		line := result.Check + " check unavailable"
		if result.Detail != "" {
			line += ": " + result.Detail
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return Message{}, false
	}
	summary := "Maintenance check unavailable"
	if len(lines) > 1 {
		summary = "Maintenance checks unavailable"
	}
	return Message{
		Check: "unavailable",
		Notification: notify.Notification{
			Summary: summary,
			Body:    strings.Join(lines, "\n"),
			Icon:    warningIcon,
			Urgency: notify.UrgencyLow,
		},
	}, true
}
