package subtitles

import (
	"vidsub/internal/language"
)

// Action is the outcome of the caption selection policy.
type Action int

const (
	// ActionNone: the target already has text (or cannot be trusted).
	ActionNone Action = iota
	// ActionCreate: no target exists; translate the source into a new file.
	ActionCreate
	// ActionOverwrite: the target is empty; translate the source over it.
	ActionOverwrite
	// ActionSkipNoSource: the target is empty but no usable source exists.
	ActionSkipNoSource
	// ActionNothing: neither a target nor a usable source exists.
	ActionNothing
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionCreate:
		return "create"
	case ActionOverwrite:
		return "overwrite"
	case ActionSkipNoSource:
		return "skip_no_source"
	case ActionNothing:
		return "nothing"
	default:
		return "unknown"
	}
}

// Translates reports whether the action runs the translation driver.
func (a Action) Translates() bool {
	return a == ActionCreate || a == ActionOverwrite
}

// Decision describes which tracks the policy picked and what to do.
type Decision struct {
	Action Action
	// Target is the matched target track, if any.
	Target *Track
	// Source is the matched source track, if any.
	Source *Track
	// TargetPath is where translated output goes. Set for ActionCreate and
	// ActionOverwrite.
	TargetPath string
	Reason     string
}

// Select applies the caption decision table. Tracks must already carry a
// State; StateUnknown is treated like StateUnreadable. Absent tracks are
// ignored. When no target exists the new file is named after the first
// member of targets.
func Select(basePath string, tracks []Track, targets, sources []string) Decision {
	present := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		if t.State != StateAbsent {
			present = append(present, t)
		}
	}

	var decision Decision
	decision.Target = pick(present, targets)
	decision.Source = pick(present, sources)

	sourceUsable := decision.Source != nil && decision.Source.State == StateNonEmpty

	switch {
	case decision.Target != nil && decision.Target.State != StateEmpty:
		decision.Action = ActionNone
		decision.Reason = "target caption " + decision.Target.Language + " already has text"
		if decision.Target.State != StateNonEmpty {
			decision.Reason = "target caption " + decision.Target.Language + " could not be read; leaving it untouched"
		}
	case decision.Target == nil && sourceUsable:
		decision.Action = ActionCreate
		if len(targets) > 0 {
			decision.TargetPath = CaptionPath(basePath, targets[0])
		}
		decision.Reason = "no target caption; translating " + decision.Source.Language
	case decision.Target != nil && sourceUsable:
		decision.Action = ActionOverwrite
		decision.TargetPath = decision.Target.Path
		decision.Reason = "target caption " + decision.Target.Language + " is empty; translating " + decision.Source.Language
	case decision.Target != nil:
		decision.Action = ActionSkipNoSource
		decision.Reason = "target caption " + decision.Target.Language + " is empty and no usable source caption was found"
	default:
		decision.Action = ActionNothing
		decision.Reason = "no target or usable source caption; nothing to do"
	}
	return decision
}

func pick(tracks []Track, family []string) *Track {
	if len(family) == 0 || len(tracks) == 0 {
		return nil
	}
	tags := make([]string, len(tracks))
	for i, t := range tracks {
		tags[i] = t.Language
	}
	idx, ok := language.MatchFamily(tags, family)
	if !ok {
		return nil
	}
	track := tracks[idx]
	return &track
}
