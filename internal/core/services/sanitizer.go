package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/diagnostics"
)

// SanitizeJournal drops structurally invalid transactions from postings and
// reports one diagnostic per dropped transaction listing every reason.
// Unknown tax codes are cleared (the posting is kept) with a warning.
// The input slice is not modified.
func SanitizeJournal(postings []domain.Posting, accounts []domain.Account, taxCodes []domain.TaxCode, sink diagnostics.Sink) []domain.Posting {
	if sink == nil {
		sink = diagnostics.Discard
	}
	chart := make(map[int]struct{}, len(accounts))
	for _, a := range accounts {
		chart[a.Number] = struct{}{}
	}
	codes := make(map[string]struct{}, len(taxCodes))
	for _, t := range taxCodes {
		codes[t.ID] = struct{}{}
	}

	rows := append([]domain.Posting(nil), postings...)
	order, groups := transactionGroups(rows)
	drop := map[string]bool{}

	for _, id := range order {
		idx := groups[id]

		var unknownCodes []string
		for _, i := range idx {
			code := rows[i].TaxCode
			if code == "" {
				continue
			}
			if _, ok := codes[code]; !ok {
				unknownCodes = appendUnique(unknownCodes, code)
				rows[i].TaxCode = ""
			}
		}
		if len(unknownCodes) == 1 {
			diagnostics.Warn(sink, id, fmt.Sprintf("Discard unknown tax code '%s' at '%s'.", unknownCodes[0], id))
		} else if len(unknownCodes) > 1 {
			diagnostics.Warn(sink, id, fmt.Sprintf("Discard unknown tax codes %s at '%s'.", quoteJoin(unknownCodes), id))
		}

		var reasons []string
		if r := dateReason(rows, idx); r != "" {
			reasons = append(reasons, r)
		}
		if r := accountReason(rows, idx, chart); r != "" {
			reasons = append(reasons, r)
		}
		reasons = append(reasons, amountReasons(rows, idx)...)

		if len(reasons) > 0 {
			drop[id] = true
			diagnostics.Warn(sink, id, fmt.Sprintf("Discard transaction '%s': %s.", id, strings.Join(reasons, ", ")))
		}
	}

	out := make([]domain.Posting, 0, len(rows))
	for _, p := range rows {
		if !drop[p.GroupID] {
			out = append(out, p)
		}
	}
	return out
}

func dateReason(rows []domain.Posting, idx []int) string {
	var dates []time.Time
	missing := false
	for _, i := range idx {
		d := rows[i].Date
		if d.IsZero() {
			missing = true
			continue
		}
		seen := false
		for _, x := range dates {
			if x.Equal(d) {
				seen = true
				break
			}
		}
		if !seen {
			dates = append(dates, d)
		}
	}
	if len(dates) > 1 {
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		parts := make([]string, len(dates))
		for i, d := range dates {
			parts[i] = d.Format(domain.DateLayout)
		}
		return "multiple dates " + strings.Join(parts, ", ")
	}
	if missing {
		return "date missing"
	}
	return ""
}

func accountReason(rows []domain.Posting, idx []int, chart map[int]struct{}) string {
	var unknown []int
	for _, i := range idx {
		for _, a := range []int{rows[i].Account, rows[i].CounterAccount} {
			if a == domain.NoAccount {
				continue
			}
			if _, ok := chart[a]; !ok && !containsInt(unknown, a) {
				unknown = append(unknown, a)
			}
		}
	}
	switch len(unknown) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("account %d not defined", unknown[0])
	}
	sort.Ints(unknown)
	parts := make([]string, len(unknown))
	for i, a := range unknown {
		parts[i] = strconv.Itoa(a)
	}
	return fmt.Sprintf("accounts %s not defined", strings.Join(parts, ", "))
}

func amountReasons(rows []domain.Posting, idx []int) []string {
	var missing, both bool
	for _, i := range idx {
		p := rows[i]
		switch {
		case !p.HasAmount() && !p.TargetBalance.Valid:
			missing = true
		case p.HasAmount() && p.TargetBalance.Valid:
			both = true
		}
	}
	var out []string
	if missing {
		out = append(out, "amount missing")
	}
	if both {
		out = append(out, "both amount and target balance defined")
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func quoteJoin(items []string) string {
	parts := make([]string, len(items))
	for i, s := range items {
		parts[i] = "'" + s + "'"
	}
	return strings.Join(parts, ", ")
}
