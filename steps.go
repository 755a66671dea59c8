package main

import "barangay-request-wizard/models"

// Step names one screen of the request wizard. The first four form a strict
// linear order; my-requests is an isolated leaf with no back/next relation.
type Step string

const (
	StepPersonal   Step = "personal"
	StepEmergency  Step = "emergency"
	StepFiles      Step = "files"
	StepRequest    Step = "request"
	StepMyRequests Step = "my-requests"
)

var wizardOrder = []Step{StepPersonal, StepEmergency, StepFiles, StepRequest}

func (s Step) Known() bool {
	switch s {
	case StepPersonal, StepEmergency, StepFiles, StepRequest, StepMyRequests:
		return true
	}
	return false
}

func stepIndex(s Step) int {
	for i, step := range wizardOrder {
		if step == s {
			return i
		}
	}
	return -1
}

// NextStep advances one step. A no-op at the last step and on my-requests.
func NextStep(s Step) Step {
	i := stepIndex(s)
	if i < 0 || i == len(wizardOrder)-1 {
		return s
	}
	return wizardOrder[i+1]
}

// PrevStep retreats one step. A no-op at the first step and on my-requests.
func PrevStep(s Step) Step {
	i := stepIndex(s)
	if i <= 0 {
		return s
	}
	return wizardOrder[i-1]
}

// JumpStep picks the earliest step owning a failing field, in the fixed
// priority order personal, emergency, files, request. First match wins.
// Returns "" when the error map is empty.
func JumpStep(errs FieldErrors) Step {
	if len(errs) == 0 {
		return ""
	}
	for _, step := range wizardOrder {
		for _, rule := range draftRules {
			if rule.Step != step {
				continue
			}
			if _, failed := errs[rule.Field]; failed {
				return step
			}
		}
	}
	return StepRequest
}

// AttachmentSet holds the binary parts uploaded in the current session.
type AttachmentSet map[models.AttachmentKind]*models.Attachment
