package tween

// Task is a resumable animation step. Step is called once per frame with the
// elapsed seconds and reports whether the task has finished.
type Task interface {
	Step(dt float64) bool
}

// TaskFunc adapts a function to Task.
type TaskFunc func(dt float64) bool

func (f TaskFunc) Step(dt float64) bool { return f(dt) }

// Delay runs fn once after d seconds.
func Delay(d float64, fn func()) Task {
	elapsed := 0.0
	return TaskFunc(func(dt float64) bool {
		elapsed += dt
		if elapsed < d {
			return false
		}
		fn()
		return true
	})
}

type entry[K comparable] struct {
	key       K
	task      Task
	done      bool
	cancelled bool
}

// Scheduler owns at most one task per key and steps them in start order.
// Starting a task under a key that already has one cancels the old task, so
// two animations never fight over the same value within a frame.
//
// Tasks may start and cancel other tasks from inside Step; tasks started
// during a Tick first run on the next Tick.
type Scheduler[K comparable] struct {
	entries []*entry[K]
}

func NewScheduler[K comparable]() *Scheduler[K] {
	return &Scheduler[K]{}
}

func (s *Scheduler[K]) Start(key K, task Task) {
	e := &entry[K]{key: key, task: task}
	for i, old := range s.entries {
		if old.key == key {
			old.cancelled = true
			s.entries[i] = e
			return
		}
	}
	s.entries = append(s.entries, e)
}

// Cancel drops the task under key and reports whether there was one.
func (s *Scheduler[K]) Cancel(key K) bool {
	for i, e := range s.entries {
		if e.key == key {
			e.cancelled = true
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Scheduler[K]) Running(key K) bool {
	for _, e := range s.entries {
		if e.key == key && !e.done && !e.cancelled {
			return true
		}
	}
	return false
}

// Len counts live tasks.
func (s *Scheduler[K]) Len() int {
	n := 0
	for _, e := range s.entries {
		if !e.done && !e.cancelled {
			n++
		}
	}
	return n
}

func (s *Scheduler[K]) Tick(dt float64) {
	snapshot := make([]*entry[K], len(s.entries))
	copy(snapshot, s.entries)
	for _, e := range snapshot {
		if e.cancelled || e.done {
			continue
		}
		if e.task.Step(dt) {
			e.done = true
		}
	}
	kept := s.entries[:0]
	for _, e := range s.entries {
		if !e.done && !e.cancelled {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(s.entries); i++ {
		s.entries[i] = nil
	}
	s.entries = kept
}
