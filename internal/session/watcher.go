package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/klangrad/klangrad/internal/config"
	"github.com/klangrad/klangrad/internal/geo"
	"github.com/klangrad/klangrad/internal/maprender"
	"github.com/klangrad/klangrad/internal/messenger"
	"github.com/klangrad/klangrad/internal/playback"
	"github.com/klangrad/klangrad/internal/store"
	"github.com/klangrad/klangrad/internal/weather"
)

const collaboratorCallTimeout = 10 * time.Second

var (
	ErrAlreadyOnline  = errors.New("session: already online")
	ErrAlreadyOffline = errors.New("session: already offline")
)

// Watcher polls the playback collaborator, detects track transitions and
// drives the location window in lockstep. Poll ticks and location pushes
// both run under one mutex, so exactly one writer touches the state at any
// instant and ticks never overlap.
type Watcher struct {
	cfg     *config.Config
	repo    store.Repository
	player  playback.Client
	sink    messenger.Sink
	weather weather.Service
	maps    maprender.Renderer
	picker  TemplatePicker
	now     func() time.Time

	mu             sync.Mutex
	online         bool
	awaitingFix    bool
	trackingActive bool
	paused         bool
	lastTrackID    string
	lastProgressMS int
	trackDuration  time.Duration
	active         *store.Submission
	country        string
	window         *Window
	curLat         float64
	curLon         float64
	enqueued       map[int64]struct{}
	stopPolling    context.CancelFunc
}

func NewWatcher(cfg *config.Config, repo store.Repository, player playback.Client, sink messenger.Sink, wsvc weather.Service, maps maprender.Renderer, picker TemplatePicker) *Watcher {
	return &Watcher{
		cfg:      cfg,
		repo:     repo,
		player:   player,
		sink:     sink,
		weather:  wsvc,
		maps:     maps,
		picker:   picker,
		now:      func() time.Time { return time.Now().UTC() },
		enqueued: make(map[int64]struct{}),
	}
}

// Start brings the watcher online. With tracking requested the poll job is
// armed but only starts once the first location fix arrives; without it the
// job starts immediately. An inactive playback device keeps the watcher
// offline and reports the failure.
func (w *Watcher) Start(ctx context.Context, withTracking bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.online || w.awaitingFix {
		return ErrAlreadyOnline
	}

	callCtx, cancel := context.WithTimeout(ctx, collaboratorCallTimeout)
	defer cancel()
	if _, err := w.player.NowPlaying(callCtx); err != nil {
		if errors.Is(err, playback.ErrNoActiveDevice) {
			return err
		}
		return fmt.Errorf("query playback state: %w", err)
	}

	w.trackingActive = withTracking
	if withTracking {
		w.awaitingFix = true
		slog.Info("tracking session armed; waiting for first location fix")
		return nil
	}
	w.startPollingLocked(ctx)
	return nil
}

// Stop flushes any open window and takes the watcher offline. Honored on
// the next event boundary, never pre-empting a running tick.
func (w *Watcher) Stop(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.online && !w.awaitingFix {
		return ErrAlreadyOffline
	}
	w.flushWindowLocked(ctx)
	w.goOfflineLocked()
	w.notifyOperatorLocked(ctx, "You are now offline.")
	return nil
}

// HandleLocation ingests one asynchronous location push. It interleaves
// with poll ticks through the watcher mutex.
func (w *Watcher) HandleLocation(ctx context.Context, lat, lon float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.curLat, w.curLon = lat, lon
	if w.window != nil && !w.paused {
		w.window.Push(store.LocationSample{Lat: lat, Lon: lon, Time: w.now()})
	}
	if w.awaitingFix && !w.online {
		slog.Info("first location fix received; starting poll job")
		w.startPollingLocked(ctx)
	}
}

func (w *Watcher) startPollingLocked(ctx context.Context) {
	pollCtx, cancel := context.WithCancel(context.Background())
	w.stopPolling = cancel
	w.online = true
	w.awaitingFix = false
	go w.poll(pollCtx)

	pending, err := w.repo.PendingSubmissions(ctx)
	if err != nil {
		slog.Warn("failed to count pending submissions", "error", err)
		return
	}
	w.notifyOperatorLocked(ctx, fmt.Sprintf("You are now online. A total of %d songs are waiting for you.", len(pending)))
}

func (w *Watcher) poll(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// tick runs one poll cycle. Transient collaborator failures skip the cycle;
// a missing device ends the session.
func (w *Watcher) tick(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.online {
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, collaboratorCallTimeout)
	defer cancel()
	state, err := w.player.NowPlaying(callCtx)
	if errors.Is(err, playback.ErrNoActiveDevice) {
		slog.Info("no active playback device; ending session")
		w.flushWindowLocked(ctx)
		w.goOfflineLocked()
		w.notifyOperatorLocked(ctx, "No active device. Please go online on Spotify. You are now offline.")
		return
	}
	if err != nil {
		slog.Warn("playback query failed; skipping tick", "error", err)
		return
	}

	w.paused = !state.Playing
	w.enqueuePendingLocked(ctx)

	if isNewTrack(w.lastTrackID, w.lastProgressMS, state.TrackID, state.ProgressMS, w.paused) {
		slog.Info("track transition detected", "from", w.lastTrackID, "to", state.TrackID)
		w.flushWindowLocked(ctx)
		w.adoptSubmissionLocked(ctx, state)
	}

	w.lastTrackID = state.TrackID
	w.lastProgressMS = state.ProgressMS
}

// isNewTrack reports a track transition. A looped or restarted track keeps
// its id but resets progress, hence the second disjunct. A paused player is
// never a transition.
func isNewTrack(lastID string, lastProgressMS int, curID string, curProgressMS int, paused bool) bool {
	if paused {
		return false
	}
	return curID != lastID || curProgressMS < lastProgressMS
}

func (w *Watcher) enqueuePendingLocked(ctx context.Context) {
	pending, err := w.repo.PendingSubmissions(ctx)
	if err != nil {
		slog.Warn("failed to list pending submissions", "error", err)
		return
	}
	for _, sub := range pending {
		if _, ok := w.enqueued[sub.ID]; ok {
			continue
		}
		if err := w.player.Enqueue(ctx, sub.TrackID); err != nil {
			slog.Warn("failed to enqueue submitted track", "error", err, "track_id", sub.TrackID)
			continue
		}
		w.enqueued[sub.ID] = struct{}{}
		slog.Info("submitted track queued", "track_id", sub.TrackID, "chat_id", sub.Sender.ChatID)
	}
}

// adoptSubmissionLocked matches the freshly started track against pending
// submissions, consumes the match and opens the next tracking window.
func (w *Watcher) adoptSubmissionLocked(ctx context.Context, state *playback.State) {
	pending, err := w.repo.PendingSubmissions(ctx)
	if err != nil {
		slog.Error("failed to list pending submissions", "error", err)
		return
	}
	var match *store.Submission
	for i := range pending {
		if pending[i].TrackID == state.TrackID {
			match = &pending[i]
			break
		}
	}
	if match == nil {
		return
	}

	if err := w.repo.MarkSubmissionConsumed(ctx, match.ID); err != nil {
		slog.Error("failed to mark submission consumed", "error", err, "submission_id", match.ID)
		return
	}
	slog.Info("submission consumed", "submission_id", match.ID, "track_id", state.TrackID, "chat_id", match.Sender.ChatID)

	w.notifyOperatorLocked(ctx, fmt.Sprintf("Sent by %s. %s", match.Sender.DisplayName(), match.Content))
	if err := w.sink.SendText(ctx, match.Sender.ChatID, fmt.Sprintf("Thanks for sending me the song %q. I just started listening to it.", state.Title)); err != nil {
		slog.Warn("failed to notify submitter", "error", err, "chat_id", match.Sender.ChatID)
		w.notifyOperatorLocked(ctx, fmt.Sprintf("Not able to send a message to chat %d.", match.Sender.ChatID))
	}

	w.active = match
	w.trackDuration = time.Duration(state.DurationMS) * time.Millisecond

	if w.cfg.ArchivePlaylistName != "" {
		if err := w.player.AddToPlaylist(ctx, w.cfg.ArchivePlaylistName, state.TrackID); err != nil {
			slog.Warn("failed to archive track", "error", err, "track_id", state.TrackID, "playlist", w.cfg.ArchivePlaylistName)
			w.notifyOperatorLocked(ctx, fmt.Sprintf("Not able to add track %s to playlist %q.", state.TrackID, w.cfg.ArchivePlaylistName))
		}
	}

	if w.trackingActive {
		w.openWindowLocked(ctx, match.Sender.ChatID)
	}
}

// openWindowLocked seeds the next window with the current coordinate and
// emits the best-effort weather narration. A narration failure aborts only
// the narration, never the session.
func (w *Watcher) openWindowLocked(ctx context.Context, chatID int64) {
	w.window = OpenWindow(store.LocationSample{Lat: w.curLat, Lon: w.curLon, Time: w.now()})

	report, err := w.weather.Lookup(ctx, w.curLat, w.curLon)
	if err != nil {
		slog.Warn("weather lookup failed", "error", err, "lat", w.curLat, "lon", w.curLon)
		w.notifyOperatorLocked(ctx, fmt.Sprintf("Not able to retrieve weather data for lat:%v, lon:%v.", w.curLat, w.curLon))
		return
	}
	w.country = report.Country
	if err := w.sink.SendText(ctx, chatID, report.Sentence+" Let me send you my exact location:"); err != nil {
		slog.Warn("failed to send weather narration", "error", err, "chat_id", chatID)
		return
	}
	if err := w.sink.SendLocation(ctx, chatID, w.curLat, w.curLon); err != nil {
		slog.Warn("failed to send location", "error", err, "chat_id", chatID)
	}
}

// flushWindowLocked closes the open window, derives the session statistics
// and appends the record. A window that accumulated no samples is discarded
// silently.
func (w *Watcher) flushWindowLocked(ctx context.Context) {
	window := w.window
	active := w.active
	country := w.country
	trackLength := w.trackDuration
	w.window = nil
	w.active = nil
	w.country = ""
	if window == nil || active == nil {
		return
	}

	samples := window.Close()
	if samples == nil {
		slog.Info("window closed without samples; discarding", "submission_id", active.ID)
		return
	}

	listened := w.now().Sub(samples[0].Time)
	if listened < 0 {
		listened = 0
	}
	points := make([]geo.Point, len(samples))
	for i, s := range samples {
		points[i] = geo.Point{Lat: s.Lat, Lon: s.Lon}
	}
	distance := geo.PathDistanceKm(points)
	speed, speedVerdict := ClassifySpeed(distance, listened.Hours(), w.cfg.BaselineSpeedKmh, w.cfg.FastSpeedMultiplier)
	listenVerdict := ClassifyListen(listened, trackLength, w.cfg.ShortListenTolerance, w.cfg.OverListenTolerance)

	record, err := w.repo.AppendSession(ctx, store.AppendSessionInput{
		Samples:         samples,
		SubmissionID:    active.ID,
		Sender:          active.Sender,
		DistanceKm:      distance,
		AverageSpeedKmh: speed,
		ListenedSeconds: int64(listened / time.Second),
		Country:         country,
	})
	if err != nil {
		slog.Error("failed to append session record", "error", err, "submission_id", active.ID)
		w.notifyOperatorLocked(ctx, "Failed to save the last listening session. Check the logs please.")
		return
	}
	slog.Info("session record saved", "record_id", record.ID, "submission_id", active.ID, "distance_km", distance, "listened_sec", record.ListenedSeconds)

	chatID := active.Sender.ChatID
	intro := "I just finished listening to your song! " +
		listenSummary(listened, trackLength, listenVerdict, w.picker) +
		"Let me send you a map of the route on which you accompanied me with your song:"
	if err := w.sink.SendText(ctx, chatID, intro); err != nil {
		slog.Warn("failed to send listen summary", "error", err, "chat_id", chatID)
	}
	if img, err := w.maps.RenderRoute(ctx, points); err != nil {
		slog.Warn("route render failed", "error", err, "record_id", record.ID)
	} else if err := w.sink.SendImage(ctx, chatID, img); err != nil {
		slog.Warn("failed to send route map", "error", err, "chat_id", chatID)
	}
	if err := w.sink.SendText(ctx, chatID, speedSummary(distance, speed, w.cfg.BaselineSpeedKmh, speedVerdict, w.picker)); err != nil {
		slog.Warn("failed to send speed summary", "error", err, "chat_id", chatID)
	}
}

func (w *Watcher) goOfflineLocked() {
	if w.stopPolling != nil {
		w.stopPolling()
		w.stopPolling = nil
	}
	w.online = false
	w.awaitingFix = false
	w.trackingActive = false
	w.paused = false
	w.lastTrackID = ""
	w.lastProgressMS = 0
	w.trackDuration = 0
	w.enqueued = make(map[int64]struct{})
}

func (w *Watcher) notifyOperatorLocked(ctx context.Context, text string) {
	chatID, err := w.repo.OperatorChatID(ctx)
	if errors.Is(err, store.ErrNotFound) {
		slog.Info("operator not registered; dropping notification", "text", text)
		return
	}
	if err != nil {
		slog.Warn("failed to resolve operator chat id", "error", err)
		return
	}
	if err := w.sink.SendText(ctx, chatID, text); err != nil {
		slog.Warn("failed to notify operator", "error", err)
	}
}
