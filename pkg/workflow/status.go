package workflow

import "fmt"

// Status — единственный авторитетный маркер этапа заявки кандидата.
type Status string

const (
	StatusWaiting     Status = "waiting"
	StatusRequesting  Status = "requesting"
	StatusOffering    Status = "offering"
	StatusConsidering Status = "considering"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
)

// transitions перечисляет все допустимые рёбра; обратных переходов нет.
var transitions = map[Status][]Status{
	StatusWaiting:     {StatusRequesting},
	StatusRequesting:  {StatusOffering},
	StatusOffering:    {StatusConsidering},
	StatusConsidering: {StatusAccepted, StatusRejected},
	StatusAccepted:    {},
	StatusRejected:    {},
}

// Parse validates a wire-format status value.
func Parse(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// CanTransition reports whether from→to is a legal edge.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionError возвращается при попытке нелегального перехода.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}
