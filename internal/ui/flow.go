package ui

import (
	"strconv"
	"strings"

	"github.com/ccboot/bootlogin/internal/bootflow"
	"github.com/ccboot/bootlogin/internal/menu"
)

const bulletPrefix = "• "

// FlowReport builds the result box printed after a login flow.
func FlowReport(res bootflow.Result, err error) *Result {
	var r *Result
	switch {
	case err == nil:
		r = NewSuccessResult(successTitle(res.Branch))
		addFlowDetails(r, res)

	case bootflow.IsCancelled(err):
		r = NewWarningResult("Login cancelled")
		r.AddDetail("Settings", "unchanged")

	default:
		summary, tips := splitHint(bootflow.Hint(err))
		r = NewFailureResult(summary, err, tips)
		addFlowDetails(r, res)
	}

	r.AddDetail("Result", strconv.Itoa(bootflow.ResultCode(err)))
	return r
}

func successTitle(b bootflow.Branch) string {
	switch b {
	case bootflow.BranchMultiBoot:
		return "Boot target selected"
	case bootflow.BranchCredentials:
		return "Credentials saved"
	default:
		return "Login complete"
	}
}

func addFlowDetails(r *Result, res bootflow.Result) {
	switch res.Branch {
	case bootflow.BranchMultiBoot:
		if res.RootPath == "" {
			return
		}
		r.AddDetail("Selection", string(menu.Letter(res.Selection))+". "+res.Label)
		r.AddDetail("Root path", res.RootPath)
	case bootflow.BranchCredentials:
		if res.Identity == "" {
			return
		}
		r.AddDetail("Computer", res.Identity)
		r.AddDetail("Hostname", res.Hostname)
	}
}

// splitHint separates the first line of a hint from its bullet points.
func splitHint(hint string) (string, []string) {
	lines := strings.Split(hint, "\n")
	var tips []string
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, bulletPrefix) {
			tips = append(tips, strings.TrimPrefix(line, bulletPrefix))
		}
	}
	return strings.TrimSuffix(lines[0], "."), tips
}
