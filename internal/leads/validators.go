package leads

const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusConverted = "converted"
	StatusLost      = "lost"
)

const DefaultSource = "Website Form"

// ValidStatus is case-sensitive; the four values are the whole enumeration.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusContacted, StatusConverted, StatusLost:
		return true
	}
	return false
}
