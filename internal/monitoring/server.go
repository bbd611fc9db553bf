package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"crm-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Server exposes an internal ops endpoint: process and database stats plus a
// live feed of dispatched risk-alert summaries over WebSocket.
type Server struct {
	db   *pgxpool.Pool
	port int

	feed    []SummaryEvent
	feedMux sync.RWMutex

	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan SummaryEvent
}

// SummaryEvent is one dispatched digest snapshot
type SummaryEvent struct {
	Summary   models.AlertSummary `json:"summary"`
	Timestamp time.Time           `json:"timestamp"`
}

type OpsStats struct {
	DatabaseStatus    string  `json:"database_status"`
	ActiveConnections int     `json:"active_connections"`
	ResponseTime      int64   `json:"response_time_ms"`
	DBSize            string  `json:"db_size"`
	Uptime            string  `json:"uptime"`
	CPUPercent        float64 `json:"cpu_percent"`
	MemoryPercent     float64 `json:"memory_percent"`
	MemoryUsed        string  `json:"memory_used"`
	MemoryTotal       string  `json:"memory_total"`
	DiskPercent       float64 `json:"disk_percent"`
	DiskUsed          string  `json:"disk_used"`
	DiskTotal         string  `json:"disk_total"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewServer(db *pgxpool.Pool, port int) *Server {
	return &Server{
		db:        db,
		port:      port,
		feed:      make([]SummaryEvent, 0),
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan SummaryEvent),
	}
}

// Start blocks serving the ops endpoint; run it in a goroutine
func (s *Server) Start() {
	r := mux.NewRouter()

	r.HandleFunc("/api/stats", s.getStats).Methods("GET")
	r.HandleFunc("/api/digest-feed", s.getFeed).Methods("GET")
	r.HandleFunc("/ws", s.handleWebSocket)

	go s.handleBroadcast()

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("[Monitoring] Ops endpoint running on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

// PublishSummary records a dispatched digest and pushes it to connected
// clients. Wired as the scheduler's OnDigest callback.
func (s *Server) PublishSummary(summary models.AlertSummary) {
	event := SummaryEvent{Summary: summary, Timestamp: time.Now()}

	s.feedMux.Lock()
	s.feed = append(s.feed, event)
	// Keep only the most recent 100 events
	if len(s.feed) > 100 {
		s.feed = s.feed[len(s.feed)-100:]
	}
	s.feedMux.Unlock()

	s.broadcast <- event
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats := s.collectStats()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) getFeed(w http.ResponseWriter, r *http.Request) {
	s.feedMux.RLock()
	defer s.feedMux.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.feed)
}

func (s *Server) collectStats() OpsStats {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := s.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	dbStatus := "healthy"
	if err != nil {
		dbStatus = "unhealthy"
	}

	var activeConns int
	s.db.QueryRow(ctx, "SELECT count(*) FROM pg_stat_activity").Scan(&activeConns)

	var dbSizeBytes int64
	s.db.QueryRow(ctx, "SELECT pg_database_size(current_database())").Scan(&dbSizeBytes)

	var uptimeSec int
	s.db.QueryRow(ctx, "SELECT EXTRACT(EPOCH FROM (NOW() - pg_postmaster_start_time()))::int").Scan(&uptimeSec)

	cpuPercents, _ := cpu.Percent(time.Second, false)
	cpuPercent := 0.0
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	memStats, _ := mem.VirtualMemory()
	diskStats, _ := disk.Usage("/")

	return OpsStats{
		DatabaseStatus:    dbStatus,
		ActiveConnections: activeConns,
		ResponseTime:      responseTime,
		DBSize:            formatBytes(uint64(dbSizeBytes)),
		Uptime:            formatUptime(uptimeSec),
		CPUPercent:        cpuPercent,
		MemoryPercent:     memStats.UsedPercent,
		MemoryUsed:        formatBytes(memStats.Used),
		MemoryTotal:       formatBytes(memStats.Total),
		DiskPercent:       diskStats.UsedPercent,
		DiskUsed:          formatBytes(diskStats.Used),
		DiskTotal:         formatBytes(diskStats.Total),
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[Monitoring] WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	s.clientsMux.Lock()
	s.clients[conn] = true
	s.clientsMux.Unlock()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			s.clientsMux.Lock()
			delete(s.clients, conn)
			s.clientsMux.Unlock()
			break
		}
	}
}

func (s *Server) handleBroadcast() {
	for event := range s.broadcast {
		s.clientsMux.Lock()
		for client := range s.clients {
			if err := client.WriteJSON(event); err != nil {
				client.Close()
				delete(s.clients, client)
			}
		}
		s.clientsMux.Unlock()
	}
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}

func formatUptime(seconds int) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
