package weather

import "time"

// Status identifies which RequestState variant is active.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// RequestState is the value published by the Controller. Exactly one variant
// is active; build it with the constructors below and replace it wholesale.
// Snapshot is set only for StatusSuccess, Message only for StatusFailure.
type RequestState struct {
	Status   Status           `json:"status"`
	Snapshot *WeatherSnapshot `json:"snapshot,omitempty"`
	Message  string           `json:"message,omitempty"`

	Query     string    `json:"query,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Seq       uint64    `json:"seq"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func IdleState() RequestState {
	return RequestState{Status: StatusIdle, UpdatedAt: time.Now().UTC()}
}

func LoadingState(seq uint64, requestID, query string) RequestState {
	return RequestState{
		Status:    StatusLoading,
		Query:     query,
		RequestID: requestID,
		Seq:       seq,
		UpdatedAt: time.Now().UTC(),
	}
}

func SuccessState(seq uint64, requestID, query string, snapshot WeatherSnapshot) RequestState {
	return RequestState{
		Status:    StatusSuccess,
		Snapshot:  &snapshot,
		Query:     query,
		RequestID: requestID,
		Seq:       seq,
		UpdatedAt: time.Now().UTC(),
	}
}

func FailureState(seq uint64, requestID, query, message string) RequestState {
	if message == "" {
		message = "unknown error"
	}
	return RequestState{
		Status:    StatusFailure,
		Message:   message,
		Query:     query,
		RequestID: requestID,
		Seq:       seq,
		UpdatedAt: time.Now().UTC(),
	}
}

// Terminal reports whether no further transition happens without a new search.
func (s RequestState) Terminal() bool {
	return s.Status == StatusSuccess || s.Status == StatusFailure
}

// Supersedes reports whether s was published after other. Within one search
// the terminal state follows Loading.
func (s RequestState) Supersedes(other RequestState) bool {
	if s.Seq != other.Seq {
		return s.Seq > other.Seq
	}
	return s.Terminal() && !other.Terminal()
}
