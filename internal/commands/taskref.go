package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Letter    rune   // 0 if no letter, 'a'-'z' otherwise
	TaskNum   int    // 1-based task number; 0 when ID is set
	HasLetter bool   // true if a workspace letter was provided
	ID        string // raw task id when the reference is not positional
	Args      int    // number of arguments consumed
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from the front of args.
//
// Parsing rules:
// 1. All digits -> task number in the first workspace
// 2. <letter><digits> (e.g., a1, b12) -> task number in that workspace
// 3. A single letter followed by an all-digit argument (a 1) -> same as 2
// 4. A single letter with nothing after it -> error: task reference required
// 5. #<id> -> the raw task id, for ids that look positional (#42, #a1)
// 6. Anything else -> a raw task id
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || args[0] == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	first := args[0]

	if id, found := strings.CutPrefix(first, "#"); found {
		if id == "" {
			return TaskRef{}, ErrTaskRefRequired
		}
		return TaskRef{ID: id, Args: 1}, nil
	}

	if isAllDigits(first) {
		num, err := strconv.Atoi(first)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
		}
		return TaskRef{TaskNum: num, Args: 1}, nil
	}

	if isLetter(rune(first[0])) {
		letter := rune(first[0])

		if len(first) > 1 && isAllDigits(first[1:]) {
			num, err := strconv.Atoi(first[1:])
			if err != nil {
				return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
			}
			return TaskRef{Letter: letter, TaskNum: num, HasLetter: true, Args: 1}, nil
		}

		if len(first) == 1 {
			if len(args) < 2 {
				return TaskRef{}, ErrTaskRefRequired
			}
			if isAllDigits(args[1]) {
				num, err := strconv.Atoi(args[1])
				if err != nil {
					return TaskRef{}, fmt.Errorf("invalid task reference: %s", args[1])
				}
				return TaskRef{Letter: letter, TaskNum: num, HasLetter: true, Args: 2}, nil
			}
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", first)
		}
	}

	return TaskRef{ID: first, Args: 1}, nil
}

// String renders the reference the way tasks are listed.
func (r TaskRef) String() string {
	switch {
	case r.ID != "":
		return r.ID
	case r.HasLetter:
		return fmt.Sprintf("%c%d", r.Letter, r.TaskNum)
	default:
		return strconv.Itoa(r.TaskNum)
	}
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isLetter returns true if r is a lowercase letter a-z.
func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

// letterFor returns the workspace letter for a 0-based index.
func letterFor(i int) rune {
	if i < 0 || i >= 26 {
		return 0
	}
	return rune('a' + i)
}
