package dashboard

import (
	"context"
	"sync"
	"time"

	"healthguard/internal/analysis"
	"healthguard/internal/history"
	"healthguard/internal/types/wellness"
)

// GenericErrorMessage is all the UI learns about a failed analysis.
const GenericErrorMessage = "Unable to generate analysis. Please check your connection or API key."

// View is a point-in-time copy of a session, safe to serialise.
type View struct {
	ID         string                     `json:"id"`
	Sensors    wellness.SensorSnapshot    `json:"sensors"`
	Context    wellness.UserContext       `json:"context"`
	History    []wellness.HistoricalPoint `json:"history"`
	Result     *wellness.AnalysisResult   `json:"result"`
	Error      string                     `json:"error,omitempty"`
	Analyzing  bool                       `json:"analyzing"`
	RequestSeq uint64                     `json:"request_seq"`
	UpdatedAt  time.Time                  `json:"updated_at"`
}

// SensorPatch carries the readings to change; nil fields are left alone.
type SensorPatch struct {
	HeartRate   *int     `json:"heartRate,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Steps       *int     `json:"steps,omitempty"`
	SleepHours  *float64 `json:"sleepHours,omitempty"`
	StressLevel *int     `json:"stressLevel,omitempty"`
	BloodOxygen *int     `json:"bloodOxygen,omitempty"`
}

type ContextPatch struct {
	Symptoms  *string `json:"symptoms,omitempty"`
	Lifestyle *string `json:"lifestyle,omitempty"`
	Diet      *string `json:"diet,omitempty"`
}

// Ticket identifies one analysis request and the inputs captured for it.
type Ticket struct {
	Seq     uint64
	Sensors wellness.SensorSnapshot
	Context wellness.UserContext
}

// Failure records why the latest applied analysis failed.
type Failure struct {
	Seq  uint64        `json:"seq"`
	Kind analysis.Kind `json:"-"`
	Err  string        `json:"error"`
	At   time.Time     `json:"at"`
}

// Exchange is the diagnostic trace of one model call.
type Exchange struct {
	Seq    uint64    `json:"seq"`
	Prompt string    `json:"prompt"`
	Raw    string    `json:"raw,omitempty"`
	Err    string    `json:"error,omitempty"`
	At     time.Time `json:"at"`
}

// Session owns one dashboard's state. All mutation goes through its
// transition methods.
type Session struct {
	id  string
	gen *history.Generator
	now func() time.Time

	mu        sync.Mutex
	sensors   wellness.SensorSnapshot
	userCtx   wellness.UserContext
	history   []wellness.HistoricalPoint
	result    *wellness.AnalysisResult
	errMsg    string
	analyzing bool
	seq       uint64
	failure   *Failure
	exchange  *Exchange
	updatedAt time.Time
	changed   chan struct{}
}

func NewSession(id string, gen *history.Generator) *Session {
	if gen == nil {
		gen = history.New()
	}
	s := &Session{
		id:      id,
		gen:     gen,
		now:     time.Now,
		changed: make(chan struct{}),
	}
	s.resetLocked()
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	v := View{
		ID:         s.id,
		Sensors:    s.sensors,
		Context:    s.userCtx,
		History:    append([]wellness.HistoricalPoint(nil), s.history...),
		Error:      s.errMsg,
		Analyzing:  s.analyzing,
		RequestSeq: s.seq,
		UpdatedAt:  s.updatedAt,
	}
	if s.result != nil {
		r := s.result.Clone()
		v.Result = &r
	}
	return v
}

func (s *Session) History() []wellness.HistoricalPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]wellness.HistoricalPoint(nil), s.history...)
}

// SetSensors applies p atomically; nothing changes if any value is out of
// range. The history is regenerated only when heart rate or stress moved.
func (s *Session) SetSensors(p SensorPatch) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.sensors
	if p.HeartRate != nil {
		next.HeartRate = *p.HeartRate
	}
	if p.Temperature != nil {
		next.Temperature = *p.Temperature
	}
	if p.Steps != nil {
		next.Steps = *p.Steps
	}
	if p.SleepHours != nil {
		next.SleepHours = *p.SleepHours
	}
	if p.StressLevel != nil {
		next.StressLevel = *p.StressLevel
	}
	if p.BloodOxygen != nil {
		next.BloodOxygen = *p.BloodOxygen
	}
	if err := next.Validate(); err != nil {
		return s.viewLocked(), err
	}

	regen := next.HeartRate != s.sensors.HeartRate || next.StressLevel != s.sensors.StressLevel
	s.sensors = next
	if regen {
		s.history = s.gen.Generate(next)
	}
	s.touchLocked()
	return s.viewLocked(), nil
}

// SetContext applies p atomically, normalising lifestyle and diet labels.
func (s *Session) SetContext(p ContextPatch) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.userCtx
	if p.Symptoms != nil {
		next.Symptoms = *p.Symptoms
	}
	if p.Lifestyle != nil {
		next.Lifestyle = *p.Lifestyle
	}
	if p.Diet != nil {
		next.Diet = *p.Diet
	}
	next, err := next.Normalize()
	if err != nil {
		return s.viewLocked(), err
	}
	s.userCtx = next
	s.touchLocked()
	return s.viewLocked(), nil
}

// BeginAnalysis issues a new request token. Any earlier outstanding request
// becomes stale.
func (s *Session) BeginAnalysis() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.analyzing = true
	s.errMsg = ""
	s.touchLocked()
	return Ticket{Seq: s.seq, Sensors: s.sensors, Context: s.userCtx}
}

// Resolve applies the outcome of t. It returns false, changing nothing, when
// a newer request has been issued since t (last-initiated wins).
func (s *Session) Resolve(t Ticket, res wellness.AnalysisResult, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Seq != s.seq || !s.analyzing {
		return false
	}
	s.analyzing = false
	if err != nil {
		s.errMsg = GenericErrorMessage
		s.failure = &Failure{Seq: t.Seq, Kind: analysis.KindOf(err), Err: err.Error(), At: s.now()}
	} else {
		r := res.Clone()
		s.result = &r
		s.failure = nil
	}
	s.touchLocked()
	return true
}

// LastFailure returns the diagnostic record of the latest failed analysis.
func (s *Session) LastFailure() (Failure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failure == nil {
		return Failure{}, false
	}
	return *s.failure, true
}

func (s *Session) LastExchange() (Exchange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exchange == nil {
		return Exchange{}, false
	}
	return *s.exchange, true
}

func (s *Session) recordExchange(e Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exchange != nil && s.exchange.Seq > e.Seq {
		return
	}
	e.At = s.now()
	s.exchange = &e
}

// Reset restores defaults and invalidates outstanding requests.
func (s *Session) Reset() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.resetLocked()
	s.touchLocked()
	return s.viewLocked()
}

func (s *Session) resetLocked() {
	s.sensors = wellness.DefaultSensors()
	s.userCtx = wellness.DefaultContext()
	s.history = s.gen.Generate(s.sensors)
	s.result = nil
	s.errMsg = ""
	s.analyzing = false
	s.failure = nil
	s.updatedAt = s.now()
}

func (s *Session) touchLocked() {
	s.updatedAt = s.now()
	close(s.changed)
	s.changed = make(chan struct{})
}

// Subscribe streams the current view and then every change until ctx is
// done. Slow readers only ever see the newest view.
func (s *Session) Subscribe(ctx context.Context) <-chan View {
	out := make(chan View, 1)
	go func() {
		defer close(out)
		for {
			s.mu.Lock()
			v := s.viewLocked()
			ch := s.changed
			s.mu.Unlock()

			pushView(out, v)
			select {
			case <-ctx.Done():
				return
			case <-ch:
			}
		}
	}()
	return out
}

func pushView(out chan View, v View) {
	for {
		select {
		case out <- v:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}
