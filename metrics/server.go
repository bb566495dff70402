package metrics

import (
	"context"
	"expvar"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Expvar counters, re-exported through the prometheus registry below.
	MessageStoredCount   = expvar.NewInt("message_stored_count")
	MessageStoreFailed   = expvar.NewInt("message_store_failed_count")
	SuccessfulLLMGen     = expvar.NewInt("successful_llm_gen_count")
	EmptyLLMResponse     = expvar.NewInt("empty_llm_response_count")
	FailedLLMGen         = expvar.NewInt("failed_llm_gen_count")
	ReplayOKCount        = expvar.NewInt("replay_ok_count")
	ReplayRejectedCount  = expvar.NewInt("replay_rejected_count")
	ReplayFailedCount    = expvar.NewInt("replay_failed_count")
	NewsPostCount        = expvar.NewInt("news_post_count")
	IdlePostCount        = expvar.NewInt("idle_post_count")
	DiscordMessageSent   = expvar.NewInt("discord_message_sent")
	DiscordMessageGotten = expvar.NewInt("discord_message_received")

	// Prometheus metrics with labels
	GenerationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_total",
			Help: "Total number of generation operations by kind",
		},
		[]string{"kind"},
	)

	GenerationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_errors",
			Help: "Total number of failed generation operations by kind",
		},
		[]string{"kind"},
	)

	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Duration of generation operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

type Server struct {
	*http.Server
}

func SetupServer(addr string) *Server {

	// pprof is setup by importing the net/http/pprof package
	server := &http.Server{
		Addr:         addr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	MessageStoredCount.Set(0)
	MessageStoreFailed.Set(0)
	SuccessfulLLMGen.Set(0)
	EmptyLLMResponse.Set(0)
	FailedLLMGen.Set(0)
	ReplayOKCount.Set(0)
	ReplayRejectedCount.Set(0)
	ReplayFailedCount.Set(0)
	NewsPostCount.Set(0)
	IdlePostCount.Set(0)
	DiscordMessageSent.Set(0)
	DiscordMessageGotten.Set(0)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewExpvarCollector(
			map[string]*prometheus.Desc{
				"message_stored_count":       prometheus.NewDesc("message_stored_count", "number of chat messages persisted", nil, nil),
				"message_store_failed_count": prometheus.NewDesc("message_store_failed_count", "number of chat message persist failures", nil, nil),
				"successful_llm_gen_count":   prometheus.NewDesc("successful_llm_gen_count", "number of times llm generated a valid response", nil, nil),
				"empty_llm_response_count":   prometheus.NewDesc("empty_llm_response_count", "number of times llm responded with an empty string", nil, nil),
				"failed_llm_gen_count":       prometheus.NewDesc("failed_llm_gen_count", "number of errors in llm generation", nil, nil),
				"replay_ok_count":            prometheus.NewDesc("replay_ok_count", "number of completed redo requests", nil, nil),
				"replay_rejected_count":      prometheus.NewDesc("replay_rejected_count", "number of rejected redo requests", nil, nil),
				"replay_failed_count":        prometheus.NewDesc("replay_failed_count", "number of redo requests that failed in dispatch", nil, nil),
				"news_post_count":            prometheus.NewDesc("news_post_count", "number of news digests posted", nil, nil),
				"idle_post_count":            prometheus.NewDesc("idle_post_count", "number of unsolicited posts into quiet chats", nil, nil),
				"discord_message_sent":       prometheus.NewDesc("discord_message_sent", "number of messages sent to discord", nil, nil),
				"discord_message_received":   prometheus.NewDesc("discord_message_received", "number of messages received from discord", nil, nil),
			},
		),
		GenerationTotal,
		GenerationErrors,
		GenerationDuration,
	)

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	http.HandleFunc("/healthz", healthzHandler)
	return &Server{server}
}

// healthzHandler is the liveness probe used by the hosting platform.
func healthzHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}

func (s *Server) Run() {
	_ = s.ListenAndServe()
}

// Stop shuts the server down within the given grace period.
func (s *Server) Stop(ctx context.Context) error {
	return s.Shutdown(ctx)
}
