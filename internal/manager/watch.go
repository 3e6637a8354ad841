package manager

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"aiengine/internal/config"
)

// dirWatcher calls onChange once a burst of manifest changes in dir settles.
type dirWatcher struct {
	w        *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
	log      zerolog.Logger
	debounce time.Duration
	onChange func()
}

func newDirWatcher(dir string, debounce time.Duration, log zerolog.Logger, onChange func()) (*dirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	dw := &dirWatcher{
		w:        w,
		done:     make(chan struct{}),
		log:      log,
		debounce: debounce,
		onChange: onChange,
	}
	dw.wg.Add(1)
	go dw.loop()
	return dw, nil
}

func (d *dirWatcher) loop() {
	defer d.wg.Done()
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-d.done:
			return
		case ev, ok := <-d.w.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			d.log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("model dir changed")
			if timer == nil {
				timer = time.NewTimer(d.debounce)
			} else {
				timer.Reset(d.debounce)
			}
			fire = timer.C
		case err, ok := <-d.w.Errors:
			if !ok {
				return
			}
			d.log.Warn().Err(err).Msg("model dir watch error")
		case <-fire:
			fire = nil
			d.onChange()
		}
	}
}

// relevant reports whether ev can change the set of manifests.
func relevant(ev fsnotify.Event) bool {
	if !config.SupportedExt(ev.Name) {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// Close stops the watcher and waits for a pending reload to finish.
func (d *dirWatcher) Close() error {
	var err error
	d.once.Do(func() {
		close(d.done)
		err = d.w.Close()
		d.wg.Wait()
	})
	return err
}
