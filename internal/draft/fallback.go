package draft

import (
	"fmt"
	"strings"
)

// Fallback renders a deterministic draft from the input alone. Used
// whenever the remote drafter is unconfigured or fails.
func Fallback(in Input) string {
	plural := ""
	if in.Days > 1 {
		plural = "s"
	}

	return fmt.Sprintf(`Dear Manager,

I am writing to request %s leave from %s to %s (%d day%s).

Reason: %s

I have ensured that my work responsibilities will be covered during my absence. I will be available for any urgent matters via email.

Thank you for considering my request.

Best regards,
%s`,
		in.LeaveType,
		in.StartDate.Format("January 02, 2006"),
		in.EndDate.Format("January 02, 2006"),
		in.Days,
		plural,
		enhanceReason(in.Reason),
		in.RequesterName,
	)
}

// enhanceReason tidies casing and punctuation of a free-text reason.
func enhanceReason(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "Personal reasons."
	}

	reason = strings.ReplaceAll(reason, "i ", "I ")
	reason = strings.ReplaceAll(reason, "i'm", "I'm")

	r := []rune(reason)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - ('a' - 'A')
	}
	reason = string(r)

	if !strings.HasSuffix(reason, ".") && !strings.HasSuffix(reason, "!") && !strings.HasSuffix(reason, "?") {
		reason += "."
	}
	return reason
}
