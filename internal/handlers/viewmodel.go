package handlers

import "github.com/aarogyalekha/hospital-portal/internal/views"

// section is one loader's slice of a dashboard view-model. Exactly one
// render state applies; loaded data with an empty listing is still
// "loaded" — the empty state belongs to the shell, not the error path.
type section struct {
	State views.State `json:"state"`
	Data  any         `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

func sectionOf[T any](res views.Result[T]) section {
	s := section{State: res.State}
	switch res.State {
	case views.StateLoaded:
		s.Data = res.Data
	case views.StateError:
		s.Error = "Failed to load."
	}
	return s
}
