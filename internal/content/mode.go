package content

import "strings"

// Mode represents the content framing of a generated post.
type Mode string

const (
	// ModeRecruitment addresses care workers looking for a job.
	ModeRecruitment Mode = "recruitment"
	// ModeInformational addresses families looking for care.
	ModeInformational Mode = "informational"
)

// ModeForService derives the mode from the requested service category.
func ModeForService(service, recruitmentTag string) Mode {
	if recruitmentTag != "" && strings.TrimSpace(service) == recruitmentTag {
		return ModeRecruitment
	}

	return ModeInformational
}

// Label returns the label written to the audit log.
func (m Mode) Label() string {
	if m == ModeRecruitment {
		return "채용(구인)"
	}

	return "정보성(홍보)"
}
