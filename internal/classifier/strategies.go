package classifier

import (
	"regexp"
	"strings"
)

// referralStrategy recognizes physician referral reports ("laudo").
// Referrals carry the diagnosis, so they are the authoritative source of
// the priority level and the procedure description.
type referralStrategy struct{}

var referralMarkers = []string{"LAUDO", "REFERRAL", "DIAGNOSTICO", "DIAGNOSIS", "CID"}

func (referralStrategy) Claims(upper string) bool {
	return containsAny(upper, referralMarkers)
}

func (referralStrategy) Extract(text string, res *Result) {
	res.DocumentType = ReferralReport
	if cid := cidPattern.FindString(strings.ToUpper(text)); cid != "" {
		res.Fields["cid"] = cid
	}
	if proc := findLabeledLine(text, "PROCEDIMENTO", "PROCEDURE"); proc != "" {
		res.Fields["procedure"] = proc
	}
}

// schedulingStrategy recognizes appointment scheduling confirmations
// ("comprovante de agendamento"). Confirmations carry the appointment date
// and destination but no diagnosis, so they never raise the priority.
type schedulingStrategy struct{}

var schedulingMarkers = []string{"COMPROVANTE", "AGENDAMENTO", "APPOINTMENT", "SCHEDULING"}

func (schedulingStrategy) Claims(upper string) bool {
	return containsAny(upper, schedulingMarkers)
}

func (schedulingStrategy) Extract(text string, res *Result) {
	res.DocumentType = SchedulingConfirmation
	if date := datePattern.FindString(text); date != "" {
		res.Fields["appointment_date"] = date
	}
	if dest := findLabeledLine(text, "DESTINO", "LOCAL", "DESTINATION"); dest != "" {
		res.Fields["destination"] = dest
	}
}

var (
	// nationalIDPattern matches the punctuated form of the national health
	// identifier (e.g. 123.456.789-01).
	nationalIDPattern = regexp.MustCompile(`\d{3}\.\d{3}\.\d{3}-\d{2}`)
	// cidPattern matches ICD diagnosis codes such as C50 or C50.9.
	cidPattern = regexp.MustCompile(`\b[A-Z]\d{2}(\.\d)?\b`)
	// datePattern matches dd/mm/yyyy dates as printed on confirmations.
	datePattern = regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`)
)

// findNationalID returns the first national identifier in the text, or "".
func findNationalID(text string) string {
	return nationalIDPattern.FindString(text)
}

// findPatientName looks for an explicit "NOME:"/"NAME:" label, and falls
// back to the line immediately above the national identifier, which is
// where scanned forms usually print the name.
func findPatientName(text string) string {
	if name := findLabeledLine(text, "NOME", "NAME"); name != "" {
		return name
	}

	id := findNationalID(text)
	if id == "" {
		return ""
	}
	var prev string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 5 {
			continue
		}
		if strings.Contains(line, id) {
			return prev
		}
		prev = line
	}
	return ""
}

// findLabeledLine returns the value following the first "LABEL:" occurrence
// among the given labels, matched case-insensitively line by line.
func findLabeledLine(text string, labels ...string) string {
	for _, line := range strings.Split(text, "\n") {
		upper := strings.ToUpper(line)
		for _, label := range labels {
			if idx := strings.Index(upper, label+":"); idx >= 0 {
				return strings.TrimSpace(line[idx+len(label)+1:])
			}
		}
	}
	return ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
