package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/lmorel/chorus/internal/catalog"
	"github.com/lmorel/chorus/internal/config"
	"github.com/lmorel/chorus/internal/errmsg"
	"github.com/lmorel/chorus/internal/notify"
	"github.com/lmorel/chorus/internal/playback"
	"github.com/lmorel/chorus/internal/power"
	"github.com/lmorel/chorus/internal/session"
	"github.com/lmorel/chorus/internal/settings"
	"github.com/lmorel/chorus/internal/sink"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(errmsg.Format(errmsg.OpInitialize, err))
	}

	var store *settings.SQLiteStore
	if cfg.Storage.Path != "" {
		store, err = settings.OpenPath(cfg.Storage.Path)
	} else {
		store, err = settings.Open()
	}
	if err != nil {
		log.Fatal(errmsg.Format(errmsg.OpInitialize, err))
	}

	loaded, err := store.Load()
	if err != nil {
		log.WithError(err).Warn(errmsg.Format(errmsg.OpSettingsLoad, err))
		loaded = settings.Defaults()
	}

	coord := settings.NewCoordinator(store, loaded, log)
	coord.SetDebounce(cfg.SaveDebounce())

	sessionStore := session.NewStore()
	if cfg.Storage.DisablePersist {
		coord.SetEnabled(false)
		sessionStore.SetSaveEnabled(false)
	}

	svc := playback.New(playback.Config{
		Store:         sessionStore,
		Catalog:       catalog.NewWithTimeout(cfg.Catalog.URL, cfg.CatalogTimeout()),
		Sink:          sink.NewPlayer(),
		Notifier:      notify.New(),
		Inhibitor:     power.New(),
		Settings:      coord,
		Log:           log,
		AutoSkip:      cfg.AutoSkipEnabled(),
		AutoSkipDelay: cfg.AutoSkipDelay(),
	})

	svc.Restore(cfg.DefaultSource)
	if q := session.Quality(cfg.Playback.Quality); q != session.QualityAuto {
		svc.SetQuality(q)
	}

	// Observability: log every session transition.
	unsubscribe := svc.Subscribe(func() {
		st := svc.State()
		entry := log.WithField("playing", st.Playing).WithField("provider", st.Provider)
		if st.Current != nil {
			entry = entry.WithField("track", st.Current.ID)
		}
		if st.Err != "" {
			entry.Warn(st.Err)
			return
		}
		entry.Debug("session state changed")
	})
	defer unsubscribe()

	log.WithField("provider", cfg.DefaultSource).
		WithField("catalog", cfg.Catalog.URL).
		Info("chorus session engine started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info("shutting down")
	if err := svc.Close(); err != nil {
		log.WithError(err).Warn("audio sink close failed")
	}
	if err := coord.Flush(); err != nil {
		log.WithError(err).Warn(errmsg.Format(errmsg.OpSettingsSave, err))
	}
	if err := store.Close(); err != nil {
		log.WithError(err).Warn("settings store close failed")
	}
}
