// Package monitoring turns a simulation into a server so that finished runs,
// the progress of the current run and the resource usage of the simulator
// can be inspected over HTTP.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/dmcachesim/directmapped"
	"github.com/sarchlab/dmcachesim/sim/hooking"
	"github.com/sarchlab/dmcachesim/simulation"
)

// progressBatch is the number of accesses counted locally before the
// progress bar is updated.
const progressBatch = 4096

// Monitor collects the runs of a simulation and serves them over HTTP.
//
// The simulation goroutine calls StartRun, Func and Publish; the HTTP
// handlers only read copies made under the monitor lock.
type Monitor struct {
	portNumber int

	lock         sync.Mutex
	runs         []simulation.RunResult
	lastCache    *directmapped.Snapshot
	progressBars []*ProgressBar
	metrics      *runMetrics

	current *ProgressBar
	pending uint64

	listener net.Listener
	server   *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		metrics: newRunMetrics(),
	}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// replaced by a random port.
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

// StartRun creates a progress bar for a run.
func (m *Monitor) StartRun(runID string, n int, numAccesses uint64) {
	bar := &ProgressBar{
		ID:        runID,
		Name:      fmt.Sprintf("n=%d", n),
		StartTime: time.Now(),
		Total:     numAccesses,
	}

	m.lock.Lock()
	m.progressBars = append(m.progressBars, bar)
	m.lock.Unlock()

	m.current = bar
	m.pending = 0
}

// Func counts the accesses of the current run into its progress bar.
func (m *Monitor) Func(ctx hooking.HookCtx) {
	if ctx.Pos != directmapped.HookPosAccess || m.current == nil {
		return
	}

	m.pending++
	if m.pending >= progressBatch {
		m.current.IncrementFinished(m.pending)
		m.pending = 0
	}
}

// Publish stores a finished run and the cache state it left.
func (m *Monitor) Publish(
	result simulation.RunResult,
	cache directmapped.Snapshot,
) {
	if m.current != nil {
		m.current.Complete()
		m.current = nil
		m.pending = 0
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.runs = append(m.runs, result)
	m.lastCache = &cache
	m.metrics.observe(result)
}

// Handler returns the HTTP handler of the monitor.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/runs", m.listRuns).Methods(http.MethodGet)
	r.HandleFunc("/api/runs/{id}", m.runDetail).Methods(http.MethodGet)
	r.HandleFunc("/api/cache", m.cacheDetail).Methods(http.MethodGet)
	r.HandleFunc("/api/progress", m.listProgressBars).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)
	r.Handle("/metrics",
		promhttp.HandlerFor(m.metrics.registry, promhttp.HandlerOpts{}))
	r.HandleFunc("/", m.index)

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	actualPort := fmt.Sprintf(":%d", m.portNumber)

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	m.listener = listener
	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	go func() {
		err := m.server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			log.Panic(err)
		}
	}()

	return url, nil
}

// StopServer shuts the web server down.
func (m *Monitor) StopServer() error {
	if m.server == nil {
		return nil
	}

	return m.server.Close()
}

func (m *Monitor) index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string][]string{
		"endpoints": {
			"/api/runs",
			"/api/runs/{id}",
			"/api/cache",
			"/api/progress",
			"/api/resource",
			"/api/profile",
			"/metrics",
		},
	})
}

func (m *Monitor) listRuns(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	runs := make([]simulation.RunResult, len(m.runs))
	copy(runs, m.runs)
	m.lock.Unlock()

	writeJSON(w, runs)
}

func (m *Monitor) runDetail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	m.lock.Lock()
	defer m.lock.Unlock()

	for _, run := range m.runs {
		if run.ID == id {
			writeJSON(w, run)
			return
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Run not found"))
	dieOnErr(err)
}

func (m *Monitor) cacheDetail(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	if m.lastCache == nil {
		m.lock.Unlock()
		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte("No run finished yet"))
		dieOnErr(err)

		return
	}

	snapshot := *m.lastCache
	m.lock.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&snapshot)
	serializer.SetMaxDepth(2)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	bars := make([]*ProgressBar, len(m.progressBars))
	copy(bars, m.progressBars)
	m.lock.Unlock()

	views := make([]progressBarView, 0, len(bars))
	for _, b := range bars {
		views = append(views, b.view())
	}

	writeJSON(w, views)
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

type profileRsp struct {
	ID      string           `json:"id"`
	Samples int              `json:"samples"`
	Profile *profile.Profile `json:"profile"`
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		_, err = w.Write([]byte(err.Error()))
		dieOnErr(err)

		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, profileRsp{
		ID:      xid.New().String(),
		Samples: len(prof.Sample),
		Profile: prof,
	})
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
