// Package jobs implements the chunked translation pipeline: the shared job
// state, the sequential worker that feeds chunks to the generation backend,
// and the controller exposing the start/pause/stop/status/export surface.
// Exactly one job is active at a time.
package jobs

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase is the job lifecycle state.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhasePaused    Phase = "paused"
	PhaseStopping  Phase = "stopping"
	PhaseStopped   Phase = "stopped"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

// Active reports whether a job currently owns the pipeline.
func (p Phase) Active() bool {
	switch p {
	case PhaseRunning, PhasePaused, PhaseStopping:
		return true
	default:
		return false
	}
}

// Terminal reports whether the phase can only be left through a reset.
func (p Phase) Terminal() bool {
	switch p {
	case PhaseStopped, PhaseCompleted, PhaseFailed:
		return true
	default:
		return false
	}
}

// Config is the immutable parameter snapshot captured when a job starts.
type Config struct {
	ID             string `json:"id"`
	FilePath       string `json:"-"`
	FileName       string `json:"file_name"`
	Model          string `json:"model"`
	RTL            bool   `json:"rtl"`
	Alignment      string `json:"alignment"`
	PromptTemplate string `json:"prompt_template,omitempty"`
	PromptMode     string `json:"prompt_mode,omitempty"`
	Think          bool   `json:"think"`
	Concise        bool   `json:"concise"`
	FilterThoughts bool   `json:"filter_thoughts"`
}

// Direction returns the document text direction for this job.
func (c Config) Direction() string {
	if c.RTL {
		return "rtl"
	}
	return "ltr"
}

// Status is a point-in-time snapshot of the job for polling consumers.
type Status struct {
	JobID           string `json:"job_id"`
	Phase           Phase  `json:"phase"`
	Running         bool   `json:"running"`
	Paused          bool   `json:"paused"`
	CurrentChunk    int    `json:"current_chunk"`
	TotalChunks     int    `json:"total_chunks"`
	ProgressPercent int    `json:"progress"`
	Elapsed         string `json:"elapsed_time"`
	ElapsedSeconds  int    `json:"elapsed_seconds"`
	// ETASeconds is -1 until at least one chunk has completed.
	ETASeconds     int       `json:"eta_seconds"`
	StatusMessage  string    `json:"status_message"`
	LiveText       string    `json:"live_text"`
	Error          string    `json:"error,omitempty"`
	ArtifactPath   string    `json:"artifact_path,omitempty"`
	RTL            bool      `json:"rtl"`
	Model          string    `json:"model,omitempty"`
	FileName       string    `json:"file_name,omitempty"`
	SourceLanguage string    `json:"source_language,omitempty"`
	StartedAt      time.Time `json:"started_at,omitempty"`
}

// State is the lock-protected record of the in-flight job. Every read and
// write takes the same mutex for the minimum duration needed; the guard is
// never held across a backend call or file I/O.
type State struct {
	mu sync.Mutex

	phase         Phase
	config        Config
	currentChunk  int
	totalChunks   int
	chunkResults  []string
	liveText      strings.Builder
	startedAt     time.Time
	statusMessage string
	lastError     string
	artifactPath  string
	sourceLang    string

	now func() time.Time
}

// NewState creates an idle state.
func NewState() *State {
	return &State{phase: PhaseIdle, now: time.Now}
}

// Start resets the state for a fresh job and transitions it to Running.
// It fails with ErrJobActive while another job owns the pipeline.
func (s *State) Start(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase.Active() {
		return ErrJobActive
	}

	s.phase = PhaseRunning
	s.config = cfg
	s.currentChunk = 0
	s.totalChunks = 0
	s.chunkResults = nil
	s.liveText.Reset()
	s.startedAt = s.now()
	s.statusMessage = "Starting translation..."
	s.lastError = ""
	s.artifactPath = ""
	s.sourceLang = ""
	return nil
}

// Phase returns the current phase.
func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Config returns the immutable job configuration snapshot.
func (s *State) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// SetTotals records the chunk plan and detected source language once the
// document has been read.
func (s *State) SetTotals(totalChunks int, sourceLang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalChunks = totalChunks
	s.sourceLang = sourceLang
}

// SetMessage overwrites the human-readable status line.
func (s *State) SetMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusMessage = msg
}

// AppendResult atomically records one processed chunk: the result slot, the
// progress counter, and the live feed move together.
func (s *State) AppendResult(result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunkResults = append(s.chunkResults, result)
	s.currentChunk++
	s.liveText.WriteString(result)
	s.liveText.WriteString("\n\n")
}

// Results returns a copy of the chunk results accumulated so far.
func (s *State) Results() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.chunkResults))
	copy(out, s.chunkResults)
	return out
}

// TogglePause flips between Running and Paused. The second return reports
// whether a job was active to toggle.
func (s *State) TogglePause() (paused bool, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseRunning:
		s.phase = PhasePaused
		s.statusMessage = fmt.Sprintf("Paused at chunk %d/%d", s.currentChunk, s.totalChunks)
		return true, true
	case PhasePaused:
		s.phase = PhaseRunning
		return false, true
	default:
		return false, false
	}
}

// RequestStop latches the stop flag. The worker observes it at the top of
// its next iteration; an in-flight backend call is allowed to finish.
func (s *State) RequestStop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.phase {
	case PhaseRunning, PhasePaused:
		s.phase = PhaseStopping
		return true
	default:
		return false
	}
}

// MarkCompleted records the durable output artifact and finishes the job.
func (s *State) MarkCompleted(artifactPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseCompleted
	s.artifactPath = artifactPath
	s.statusMessage = "Translation complete."
}

// MarkStopped finishes the job after an operator stop; partial results stay
// readable until the next job resets the state.
func (s *State) MarkStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseStopped
	s.statusMessage = "Translation stopped."
}

// MarkFailed records a job-level failure.
func (s *State) MarkFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseFailed
	if err != nil {
		s.lastError = err.Error()
	}
	s.statusMessage = fmt.Sprintf("Error: %s", s.lastError)
}

// Snapshot returns a consistent point-in-time view for status polling.
func (s *State) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		JobID:          s.config.ID,
		Phase:          s.phase,
		Running:        s.phase.Active(),
		Paused:         s.phase == PhasePaused,
		CurrentChunk:   s.currentChunk,
		TotalChunks:    s.totalChunks,
		ETASeconds:     -1,
		StatusMessage:  s.statusMessage,
		LiveText:       s.liveText.String(),
		Error:          s.lastError,
		ArtifactPath:   s.artifactPath,
		RTL:            s.config.RTL,
		Model:          s.config.Model,
		FileName:       s.config.FileName,
		SourceLanguage: s.sourceLang,
		StartedAt:      s.startedAt,
	}

	if s.totalChunks > 0 {
		status.ProgressPercent = 100 * s.currentChunk / s.totalChunks
	}

	if !s.startedAt.IsZero() && s.phase != PhaseIdle {
		elapsed := s.now().Sub(s.startedAt)
		secs := int(elapsed.Seconds())
		status.ElapsedSeconds = secs
		status.Elapsed = fmt.Sprintf("%02d:%02d", secs/60, secs%60)

		if s.phase.Active() && s.currentChunk > 0 {
			avg := elapsed / time.Duration(s.currentChunk)
			remaining := s.totalChunks - s.currentChunk
			status.ETASeconds = int((avg * time.Duration(remaining)).Seconds())
		}
	}

	return status
}
