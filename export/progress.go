package export

import (
	"sync"
	"time"
)

// Stage of an export job.
type Stage string

// Stages reported by jobs, in order of occurrence. A job ends with either
// Finished or Failed.
const (
	Started     Stage = "started"
	SlidesFound Stage = "slides-found"
	SlideDone   Stage = "slide-done"
	Merged      Stage = "merged"
	Degraded    Stage = "degraded"
	Finished    Stage = "finished"
	Failed      Stage = "failed"
)

// Event reports progress of a job.
type Event struct {
	Job          string    `json:"job"`
	Kind         string    `json:"kind"` // "pptx" or "pdf"
	Presentation string    `json:"presentation_id"`
	Stage        Stage     `json:"stage"`
	Slide        int       `json:"slide,omitempty"`
	Total        int       `json:"total,omitempty"`
	Slides       int       `json:"slides,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	Time         time.Time `json:"time"`
}

// Sink receives progress events. Publish must not block for long.
type Sink interface {
	Publish(Event)
}

// Recorder is a Sink keeping all events.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish is part of interface Sink.
func (r *Recorder) Publish(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Stages returns the stages of all events of job, in order. An empty job
// selects all events.
func (r *Recorder) Stages(job string) []Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stages []Stage
	for _, ev := range r.events {
		if job == "" || ev.Job == job {
			stages = append(stages, ev.Stage)
		}
	}
	return stages
}

// Events returns a copy of all events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
