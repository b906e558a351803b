package jobs

import (
	"fmt"
)

// Job is a scheduled background task.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs map[string]Job
	// start order, so StopAll can unwind in reverse
	names []string
}

func NewJobManager() *JobManager {
	return &JobManager{jobs: make(map[string]Job)}
}

// Add registers a job under name. Adding after StartAll has no effect until
// the next StartAll.
func (jm *JobManager) Add(name string, job Job) {
	if _, ok := jm.jobs[name]; !ok {
		jm.names = append(jm.names, name)
	}
	jm.jobs[name] = job
}

// StartAll starts jobs in registration order. When one fails the jobs already
// started are stopped again.
func (jm *JobManager) StartAll() error {
	for i, name := range jm.names {
		if err := jm.jobs[name].Start(); err != nil {
			for j := i - 1; j >= 0; j-- {
				jm.jobs[jm.names[j]].Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", name, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	for i := len(jm.names) - 1; i >= 0; i-- {
		jm.jobs[jm.names[i]].Stop()
	}
}
