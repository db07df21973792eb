// Package monitoring serves the state of live sequences over HTTP.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/orderedseq/idgen"
	"github.com/sarchlab/orderedseq/seq"
)

type registeredSequence struct {
	seq  *seq.Sequence
	lock sync.Locker
}

func (r registeredSequence) with(f func(s *seq.Sequence)) {
	if r.lock != nil {
		r.lock.Lock()
		defer r.lock.Unlock()
	}

	f(r.seq)
}

// Monitor turns a program that owns sequences into a server that exposes
// their content.
type Monitor struct {
	portNumber  int
	openBrowser bool
	idGen       idgen.Generator

	lock         sync.Mutex
	sequences    []registeredSequence
	progressBars []*ProgressBar

	server *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		idGen: idgen.New(),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithBrowser sets whether the monitoring page is opened in a browser when
// the server starts.
func (m *Monitor) WithBrowser(open bool) *Monitor {
	m.openBrowser = open
	return m
}

// RegisterSequence registers a sequence to be monitored. The sequence is only
// read while holding lock. A nil lock is allowed when the sequence is no
// longer mutated.
func (m *Monitor) RegisterSequence(s *seq.Sequence, lock sync.Locker) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.sequences = append(m.sequences, registeredSequence{seq: s, lock: lock})
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.idGen.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the progress list.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.lock.Lock()
	defer m.lock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the router that serves the monitoring API.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", m.index)
	r.HandleFunc("/api/list_sequences", m.listSequences)
	r.HandleFunc("/api/sequence/{name}", m.sequenceDetails)
	r.HandleFunc("/api/sequence/{name}/render", m.renderSequence)
	r.HandleFunc("/api/sequence/{name}/state", m.sequenceState)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts serving in the background and returns the URL of the
// server.
func (m *Monitor) StartServer() (string, error) {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", fmt.Errorf("listen on %s: %w", actualPort, err)
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring sequences with %s\n", url)

	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			dieOnErr(err)
		}
	}()

	if m.openBrowser {
		err = browser.OpenURL(url)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open browser: %v\n", err)
		}
	}

	return url, nil
}

// Shutdown stops the server started by StartServer.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

func (m *Monitor) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	for _, r := range m.registered() {
		r.with(func(s *seq.Sequence) {
			fmt.Fprintf(w, "%s: %s", s.Name(), s.Render())
		})
	}
}

func (m *Monitor) listSequences(w http.ResponseWriter, _ *http.Request) {
	registered := m.registered()

	names := make([]string, 0, len(registered))
	for _, r := range registered {
		names = append(names, r.seq.Name())
	}

	writeJSON(w, names)
}

func (m *Monitor) sequenceDetails(w http.ResponseWriter, r *http.Request) {
	reg, ok := m.findSequenceOr404(w, mux.Vars(r)["name"])
	if !ok {
		return
	}

	var err error

	reg.with(func(s *seq.Sequence) {
		serializer := goseth.NewSerializer()
		serializer.SetRoot(s)
		serializer.SetMaxDepth(1)
		err = serializer.Serialize(w)
	})

	dieOnErr(err)
}

func (m *Monitor) renderSequence(w http.ResponseWriter, r *http.Request) {
	reg, ok := m.findSequenceOr404(w, mux.Vars(r)["name"])
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	var err error

	reg.with(func(s *seq.Sequence) {
		err = s.Print(w)
	})

	dieOnErr(err)
}

func (m *Monitor) sequenceState(w http.ResponseWriter, r *http.Request) {
	reg, ok := m.findSequenceOr404(w, mux.Vars(r)["name"])
	if !ok {
		return
	}

	var state seq.State

	reg.with(func(s *seq.Sequence) {
		state = s.State()
	})

	writeJSON(w, state)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	bars := make([]*ProgressBar, len(m.progressBars))
	copy(bars, m.progressBars)
	m.lock.Unlock()

	type barRsp struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Total    uint64  `json:"total"`
		Finished uint64  `json:"finished"`
		Percent  float64 `json:"percent"`
	}

	rsp := make([]barRsp, 0, len(bars))
	for _, b := range bars {
		percent := b.Percent()

		b.Lock()
		rsp = append(rsp, barRsp{
			ID:       b.ID,
			Name:     b.Name,
			Total:    b.Total,
			Finished: b.Finished,
			Percent:  percent,
		})
		b.Unlock()
	}

	writeJSON(w, rsp)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func (m *Monitor) registered() []registeredSequence {
	m.lock.Lock()
	defer m.lock.Unlock()

	registered := make([]registeredSequence, len(m.sequences))
	copy(registered, m.sequences)

	return registered
}

func (m *Monitor) findSequenceOr404(
	w http.ResponseWriter,
	name string,
) (registeredSequence, bool) {
	for _, r := range m.registered() {
		if r.seq.Name() == name {
			return r, true
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Sequence not found"))
	dieOnErr(err)

	return registeredSequence{}, false
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
