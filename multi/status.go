package multi

// Copyright 2024 the opsmgr-dash authors
//
// This file is part of opsmgr-dash.
//
// opsmgr-dash is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, version 2 of the License.
//
// opsmgr-dash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.

import (
	"fmt"
	"strings"

	"github.com/opsmgr-dash/opsmgr-dash/multi/api"
)

const maxReportedErrors = 3

// Narrate builds the user facing summary line for an aggregation run.
// The wording distinguishes a user requested refresh from a plain page
// load, and an everything-from-cache load yields no message at all.
func Narrate(forceRefresh bool, sourceCount, fetched, cached int, errs []string) (string, api.StatusType) {
	if len(errs) > 0 {
		issues := capErrors(errs)
		if fetched > 0 || cached > 0 {
			if forceRefresh {
				return fmt.Sprintf(
					"Refresh completed with warnings. Fetched %d records, used %d cached records from %d Ops Managers. Issues: %s",
					fetched, cached, sourceCount, issues), api.StatusWarning
			}
			return fmt.Sprintf(
				"Data loaded with warnings. Fetched %d records from API (cache missing), used %d cached records from %d Ops Managers. Issues: %s",
				fetched, cached, sourceCount, issues), api.StatusWarning
		}
		if forceRefresh {
			return fmt.Sprintf("Refresh failed. Errors: %s", issues), api.StatusError
		}
		return fmt.Sprintf("Data loading failed. Errors: %s", issues), api.StatusError
	}

	if forceRefresh {
		return fmt.Sprintf(
			"Refresh successful! Fetched %d records from %d Ops Managers simultaneously.",
			fetched, sourceCount), api.StatusSuccess
	}
	if fetched > 0 {
		return fmt.Sprintf(
			"Data loaded successfully! Fetched %d records from API (cache was missing) across %d Ops Managers.",
			fetched, sourceCount), api.StatusInfo
	}

	// pure cache hit, nothing worth telling the user
	return "", api.StatusNone
}

// capErrors joins at most maxReportedErrors messages, the rest collapses
// into an ellipsis so a 20-source outage does not flood the status bar.
func capErrors(errs []string) string {
	if len(errs) <= maxReportedErrors {
		return strings.Join(errs, "; ")
	}
	return strings.Join(errs[:maxReportedErrors], "; ") + "..."
}
