package generator

import "fmt"

// Step is a state of a generator run. Steps are strictly sequential.
type Step int

const (
	StepStart Step = iota
	StepFolderReady
	StepSecretLocated
	StepSentinelCreated
	StepAuthAttempted
	StepSecretCopied
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepStart:
		return "START"
	case StepFolderReady:
		return "FOLDER_READY"
	case StepSecretLocated:
		return "SECRET_LOCATED"
	case StepSentinelCreated:
		return "SENTINEL_CREATED"
	case StepAuthAttempted:
		return "AUTH_ATTEMPTED"
	case StepSecretCopied:
		return "SECRET_COPIED"
	case StepDone:
		return "DONE"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}
