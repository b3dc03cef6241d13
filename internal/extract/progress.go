package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"megaraid-health-check/pkg/types"
)

var (
	inProgressRegex     = regexp.MustCompile(`(?i)\bin\s+progress\b`)
	notInProgressRegex  = regexp.MustCompile(`(?i)\bnot\s+in\s+progress\b`)
	countBeforeRegex    = regexp.MustCompile(`(?i)(\d+)(?:\.\d+)?\s*%?\s+in\s+progress`)
	progressFieldRegex  = regexp.MustCompile(`(?i)progress\S*\s*[:=]\s*(\d+)(?:\.\d+)?\s*%`)
	completedRegex      = regexp.MustCompile(`(?i)completed\s+(\d+)\s*%`)
	foreignTotalRegex   = regexp.MustCompile(`(?i)total\s+foreign\s+drive\s+groups\s*[:=]\s*(\d+)`)
	foreignNoneRegex    = regexp.MustCompile(`(?i)couldn'?t\s+find\s+any\s+foreign|no\s+foreign\s+configuration`)
	foreignHeaderRegex  = regexp.MustCompile(`^\s*DG\s+`)
	foreignRowRegex     = regexp.MustCompile(`^\s*\d+\s+`)
	patrolActiveRegex   = regexp.MustCompile(`(?i)^(active|running|in\s+progress)`)
	patrolInactiveRegex = regexp.MustCompile(`(?i)^(stopped|paused|inactive)`)
)

// ParseProgress reads a rebuild or consistency check listing. A row is running
// when it says "In progress" (and not "Not in progress"). The percentage is
// taken from a "Progress = NN%" field, a "Completed NN%" phrase, or the
// number in front of "In progress". ok is false when nothing is running.
func ParseProgress(text string) (types.Progress, bool) {
	if m := progressFieldRegex.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n < 100 {
			return types.Progress{Active: true, Percent: &n}, true
		}
	}
	if m := completedRegex.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n < 100 {
			return types.Progress{Active: true, Percent: &n}, true
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if !inProgressRegex.MatchString(line) || notInProgressRegex.MatchString(line) {
			continue
		}
		p := types.Progress{Active: true}
		if m := countBeforeRegex.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				p.Percent = &n
			}
		} else if n, ok := FirstPercent(line); ok {
			p.Percent = &n
		}
		return p, true
	}
	return types.Progress{}, false
}

// ParseProgressJSON reads the same listing from the tool's JSON output ("J"
// suffix). It walks every object under "Response Data" looking for a running
// "Status" with a "Progress%" member.
func ParseProgressJSON(text string) (types.Progress, bool) {
	if !gjson.Valid(text) {
		return types.Progress{}, false
	}

	var found types.Progress
	var ok bool
	gjson.Get(text, "Controllers").ForEach(func(_, ctrl gjson.Result) bool {
		walkObjects(ctrl.Get("Response Data"), func(obj gjson.Result) bool {
			status := obj.Get("Status").String()
			if !inProgressRegex.MatchString(status) || notInProgressRegex.MatchString(status) {
				return true
			}
			found = types.Progress{Active: true}
			obj.ForEach(func(key, value gjson.Result) bool {
				if strings.HasPrefix(strings.ToLower(key.String()), "progress") {
					if n, numOK := FirstInt(value.String()); numOK {
						found.Percent = &n
					}
					return false
				}
				return true
			})
			ok = true
			return false
		})
		return !ok
	})
	return found, ok
}

// walkObjects calls fn for every JSON object below r, depth first. Walking
// stops when fn returns false.
func walkObjects(r gjson.Result, fn func(gjson.Result) bool) bool {
	switch {
	case r.IsObject():
		if !fn(r) {
			return false
		}
		cont := true
		r.ForEach(func(_, v gjson.Result) bool {
			cont = walkObjects(v, fn)
			return cont
		})
		return cont
	case r.IsArray():
		cont := true
		r.ForEach(func(_, v gjson.Result) bool {
			cont = walkObjects(v, fn)
			return cont
		})
		return cont
	}
	return true
}

// ForeignConfigs returns the number of foreign drive groups. ok is false when
// the output does not say either way.
func ForeignConfigs(text string) (int, bool) {
	if m := foreignTotalRegex.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
	if foreignNoneRegex.MatchString(text) {
		return 0, true
	}

	inTable := false
	count := 0
	for _, line := range strings.Split(text, "\n") {
		switch {
		case foreignHeaderRegex.MatchString(line):
			inTable = true
		case strings.TrimSpace(line) == "":
			inTable = false
		case inTable && foreignRowRegex.MatchString(line):
			count++
		}
	}
	if count > 0 {
		return count, true
	}
	return 0, false
}

// ParsePatrolRead reads the patrol read status table
func ParsePatrolRead(text string) (types.PatrolRead, bool) {
	rec := ParseRecord(text)
	state, ok := rec.Find("current state", "state")
	if !ok {
		return types.PatrolRead{}, false
	}

	switch {
	case patrolActiveRegex.MatchString(state):
		pr := types.PatrolRead{State: types.PatrolRunning}
		if n, ok := FirstPercent(state); ok {
			pr.Percent = &n
		} else if v, ok := rec.Find("progress"); ok {
			if n, ok := FirstInt(v); ok {
				pr.Percent = &n
			}
		}
		return pr, true
	case patrolInactiveRegex.MatchString(state):
		return types.PatrolRead{State: types.PatrolStopped}, true
	}
	return types.PatrolRead{}, false
}
